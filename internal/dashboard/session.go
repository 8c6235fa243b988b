package dashboard

import (
	"context"
	"sort"
	"sync"

	"leadpanel/internal/domain/lead"
)

// Writer issues the remote writes behind optimistic edits
type Writer interface {
	UpdateStatus(ctx context.Context, id int64, status lead.Status) (*lead.Lead, error)
	BulkUpdateStatus(ctx context.Context, ids []int64, status lead.Status) (int, error)
}

// Session owns the raw lead collection for the lifetime of one mounted
// dashboard view. The collection is seeded once, then mutated only through
// ApplyEvent (remote change notifications) and the optimistic edit entry
// points; callers only ever see snapshot copies.
type Session struct {
	mu       sync.Mutex
	leads    []lead.Lead // newest first, unique ids
	selected map[int64]struct{}
	writer   Writer
}

// NewSession seeds a session from the initial fetch
func NewSession(initial []lead.Lead, writer Writer) *Session {
	leads := make([]lead.Lead, len(initial))
	copy(leads, initial)
	return &Session{
		leads:    leads,
		selected: make(map[int64]struct{}),
		writer:   writer,
	}
}

// Run consumes the subscription until the context is cancelled or the feed
// closes, applying events in arrival order. The subscription is released
// on return; Unsubscribe is idempotent so any teardown path is safe.
func (s *Session) Run(ctx context.Context, sub *lead.Subscription) {
	defer sub.Unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			s.ApplyEvent(ev)
		}
	}
}

// ApplyEvent merges one remote change notification into the collection.
// Reapplying the same update or delete is a no-op, so at-least-once
// redelivery is harmless.
func (s *Session) ApplyEvent(ev lead.ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Type {
	case lead.EventInsert:
		if ev.New == nil {
			return
		}
		// An id collision overwrites in place, last write wins
		if i := s.indexOf(ev.New.ID); i >= 0 {
			s.leads[i] = *ev.New
			return
		}
		s.leads = append([]lead.Lead{*ev.New}, s.leads...)

	case lead.EventUpdate:
		if ev.New == nil {
			return
		}
		// Replace in place, preserving collection order
		if i := s.indexOf(ev.New.ID); i >= 0 {
			s.leads[i] = *ev.New
		}

	case lead.EventDelete:
		if i := s.indexOf(ev.ID()); i >= 0 {
			s.leads = append(s.leads[:i], s.leads[i+1:]...)
		}
	}
}

// Snapshot returns a copy of the raw collection
func (s *Session) Snapshot() []lead.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SetStatus applies a single-lead qualification change optimistically,
// then issues the remote write. On failure the pre-edit snapshot is
// restored and the error returned for the operator to see.
func (s *Session) SetStatus(ctx context.Context, id int64, status lead.Status) error {
	s.mu.Lock()
	before := s.snapshotLocked()
	if i := s.indexOf(id); i >= 0 {
		s.leads[i].Status = status
	}
	s.mu.Unlock()

	if _, err := s.writer.UpdateStatus(ctx, id, status); err != nil {
		s.restore(before)
		return err
	}
	return nil
}

// BulkSetStatus applies a qualification change over ids optimistically and
// issues the bulk remote write. The selection is cleared whatever the
// outcome; data is restored only on failure.
func (s *Session) BulkSetStatus(ctx context.Context, ids []int64, status lead.Status) error {
	s.mu.Lock()
	before := s.snapshotLocked()
	for _, id := range ids {
		if i := s.indexOf(id); i >= 0 {
			s.leads[i].Status = status
		}
	}
	s.selected = make(map[int64]struct{})
	s.mu.Unlock()

	if _, err := s.writer.BulkUpdateStatus(ctx, ids, status); err != nil {
		s.restore(before)
		return err
	}
	return nil
}

// Toggle flips the selection of one lead id
func (s *Session) Toggle(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
	} else {
		s.selected[id] = struct{}{}
	}
}

// SelectAllFiltered sets the selection to exactly the id set matching p,
// the whole filtered view rather than just the visible page.
func (s *Session) SelectAllFiltered(p Params) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = make(map[int64]struct{})
	for _, l := range Filter(Annotate(s.leads), p) {
		s.selected[l.ID] = struct{}{}
	}
}

// ClearSelection empties the selection
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[int64]struct{})
}

// SelectedIDs returns the selected ids in ascending order. Ids referring
// to leads excluded by a later filter change are not purged; they are
// harmless and the next select-all or bulk edit replaces them.
func (s *Session) SelectedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Session) restore(snapshot []lead.Lead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = snapshot
}

func (s *Session) snapshotLocked() []lead.Lead {
	out := make([]lead.Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

// indexOf is called with s.mu held
func (s *Session) indexOf(id int64) int {
	for i := range s.leads {
		if s.leads[i].ID == id {
			return i
		}
	}
	return -1
}
