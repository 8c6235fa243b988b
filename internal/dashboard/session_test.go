package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"leadpanel/internal/domain/lead"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) UpdateStatus(ctx context.Context, id int64, status lead.Status) (*lead.Lead, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lead.Lead), args.Error(1)
}

func (m *mockWriter) BulkUpdateStatus(ctx context.Context, ids []int64, status lead.Status) (int, error) {
	args := m.Called(ctx, ids, status)
	return args.Int(0), args.Error(1)
}

func sessionFixture(t *testing.T) (*Session, *mockWriter) {
	t.Helper()
	writer := new(mockWriter)
	s := NewSession([]lead.Lead{
		makeLead(3, "Carol", lead.StatusWarm, "linkedin", day(2024, 3, 12)),
		makeLead(2, "Bob", lead.StatusCold, "website", day(2024, 3, 11)),
		makeLead(1, "Alice", lead.StatusHot, "google-ads", day(2024, 3, 10)),
	}, writer)
	return s, writer
}

func TestApplyEventInsertPrepends(t *testing.T) {
	s, _ := sessionFixture(t)

	fresh := makeLead(4, "Dave", lead.StatusNew, "", day(2024, 3, 13))
	s.ApplyEvent(lead.ChangeEvent{Type: lead.EventInsert, New: &fresh})

	snap := s.Snapshot()
	require.Len(t, snap, 4)
	assert.Equal(t, int64(4), snap[0].ID, "new lead lands at the head")
}

func TestApplyEventInsertCollisionOverwritesInPlace(t *testing.T) {
	s, _ := sessionFixture(t)

	dup := makeLead(2, "Bob Updated", lead.StatusHot, "website", day(2024, 3, 11))
	s.ApplyEvent(lead.ChangeEvent{Type: lead.EventInsert, New: &dup})

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, int64(2), snap[1].ID, "position preserved")
	assert.Equal(t, lead.StatusHot, snap[1].Status)
}

func TestApplyEventUpdateReplacesInPlace(t *testing.T) {
	s, _ := sessionFixture(t)

	changed := makeLead(1, "Alice", lead.StatusWon, "google-ads", day(2024, 3, 10))
	s.ApplyEvent(lead.ChangeEvent{Type: lead.EventUpdate, New: &changed})

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, int64(1), snap[2].ID, "order unchanged")
	assert.Equal(t, lead.StatusWon, snap[2].Status)
}

func TestApplyEventUpdateUnknownIDIsNoop(t *testing.T) {
	s, _ := sessionFixture(t)
	before := s.Snapshot()

	ghost := makeLead(99, "Ghost", lead.StatusHot, "", day(2024, 3, 13))
	s.ApplyEvent(lead.ChangeEvent{Type: lead.EventUpdate, New: &ghost})

	assert.Equal(t, before, s.Snapshot())
}

func TestApplyEventInsertThenDeleteLeavesNoTrace(t *testing.T) {
	s, _ := sessionFixture(t)

	l := makeLead(99, "Transient", lead.StatusNew, "", day(2024, 3, 13))
	s.ApplyEvent(lead.ChangeEvent{Type: lead.EventInsert, New: &l})
	s.ApplyEvent(lead.ChangeEvent{Type: lead.EventDelete, Old: &l})

	for _, got := range s.Snapshot() {
		assert.NotEqual(t, int64(99), got.ID)
	}
	assert.Len(t, s.Snapshot(), 3)
}

func TestApplyEventIsIdempotent(t *testing.T) {
	s, _ := sessionFixture(t)

	changed := makeLead(2, "Bob", lead.StatusWon, "website", day(2024, 3, 11))
	s.ApplyEvent(lead.ChangeEvent{Type: lead.EventUpdate, New: &changed})
	once := s.Snapshot()

	s.ApplyEvent(lead.ChangeEvent{Type: lead.EventUpdate, New: &changed})
	assert.Equal(t, once, s.Snapshot(), "reapplying the update changes nothing")

	gone := makeLead(3, "Carol", lead.StatusWarm, "linkedin", day(2024, 3, 12))
	s.ApplyEvent(lead.ChangeEvent{Type: lead.EventDelete, Old: &gone})
	afterDelete := s.Snapshot()

	s.ApplyEvent(lead.ChangeEvent{Type: lead.EventDelete, Old: &gone})
	assert.Equal(t, afterDelete, s.Snapshot(), "reapplying the delete changes nothing")
}

func TestSetStatusOptimisticSuccess(t *testing.T) {
	s, writer := sessionFixture(t)
	writer.On("UpdateStatus", mock.Anything, int64(1), lead.StatusWon).Return(&lead.Lead{ID: 1}, nil)

	err := s.SetStatus(context.Background(), 1, lead.StatusWon)

	require.NoError(t, err)
	snap := s.Snapshot()
	assert.Equal(t, lead.StatusWon, snap[2].Status)
	writer.AssertExpectations(t)
}

func TestSetStatusRollsBackOnWriteFailure(t *testing.T) {
	s, writer := sessionFixture(t)
	writer.On("UpdateStatus", mock.Anything, int64(1), lead.StatusWon).
		Return(nil, errors.New("write failed"))

	before := s.Snapshot()
	err := s.SetStatus(context.Background(), 1, lead.StatusWon)

	require.Error(t, err)
	assert.Equal(t, before, s.Snapshot(), "failed edit restores the pre-edit data")
}

func TestBulkSetStatusRollsBackAndClearsSelection(t *testing.T) {
	s, writer := sessionFixture(t)
	writer.On("BulkUpdateStatus", mock.Anything, []int64{1, 2, 3}, lead.StatusCold).
		Return(0, errors.New("write failed"))

	s.Toggle(1)
	s.Toggle(2)
	s.Toggle(3)
	before := s.Snapshot()

	err := s.BulkSetStatus(context.Background(), []int64{1, 2, 3}, lead.StatusCold)

	require.Error(t, err)
	assert.Equal(t, before, s.Snapshot(), "every optimistic change is undone")
	assert.Empty(t, s.SelectedIDs(), "selection clears even when the write fails")
}

func TestBulkSetStatusSuccessClearsSelection(t *testing.T) {
	s, writer := sessionFixture(t)
	writer.On("BulkUpdateStatus", mock.Anything, []int64{2, 3}, lead.StatusHot).Return(2, nil)

	s.Toggle(2)
	s.Toggle(3)

	require.NoError(t, s.BulkSetStatus(context.Background(), []int64{2, 3}, lead.StatusHot))

	snap := s.Snapshot()
	assert.Equal(t, lead.StatusHot, snap[0].Status)
	assert.Equal(t, lead.StatusHot, snap[1].Status)
	assert.Empty(t, s.SelectedIDs())
}

func TestToggleAndClearSelection(t *testing.T) {
	s, _ := sessionFixture(t)

	s.Toggle(2)
	s.Toggle(1)
	assert.Equal(t, []int64{1, 2}, s.SelectedIDs())

	s.Toggle(2)
	assert.Equal(t, []int64{1}, s.SelectedIDs())

	s.ClearSelection()
	assert.Empty(t, s.SelectedIDs())
}

func TestSelectAllFilteredCoversEveryPage(t *testing.T) {
	writer := new(mockWriter)
	var initial []lead.Lead
	for i := 1; i <= 32; i++ {
		initial = append(initial, makeLead(int64(i), "Lead", lead.StatusHot, "", day(2024, 3, 10)))
	}
	s := NewSession(initial, writer)

	from := day(2024, 3, 10)
	s.SelectAllFiltered(Params{Status: string(lead.StatusHot), Origin: FilterAll, From: &from, To: &from})

	assert.Len(t, s.SelectedIDs(), 32, "selection spans the filtered set, not one page")

	// Replaces rather than accumulates
	s.SelectAllFiltered(Params{Status: string(lead.StatusCold), Origin: FilterAll})
	assert.Empty(t, s.SelectedIDs())
}

func TestRunAppliesFeedEventsAndReleasesSubscription(t *testing.T) {
	s, _ := sessionFixture(t)
	broker := lead.NewBroker()
	sub := broker.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, sub)
		close(done)
	}()

	fresh := makeLead(4, "Dave", lead.StatusNew, "", day(2024, 3, 13))
	broker.Publish(lead.ChangeEvent{Type: lead.EventInsert, New: &fresh})

	require.Eventually(t, func() bool {
		return len(s.Snapshot()) == 4
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session did not stop on context cancel")
	}
	assert.Equal(t, 0, broker.Subscribers(), "subscription released on teardown")
}
