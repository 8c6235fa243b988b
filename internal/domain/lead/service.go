package lead

import (
	"context"
	"time"

	"leadpanel/internal/pkg/logger"
	"leadpanel/internal/pkg/metrics"
)

// Service handles lead business logic and publishes a change event after
// every successful write.
type Service struct {
	repo    *Repository
	broker  *Broker
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewService creates lead service
func NewService(repo *Repository, broker *Broker, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		broker:  broker,
		log:     log,
		metrics: m,
	}
}

// List returns the full collection, newest first
func (s *Service) List(ctx context.Context) ([]Lead, error) {
	return s.repo.List(ctx)
}

// GetByID returns one lead
func (s *Service) GetByID(ctx context.Context, id int64) (*Lead, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrLeadNotFound
	}
	return l, nil
}

// Create inserts a manually added lead with status new
func (s *Service) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	l := &Lead{
		CreatedAt:   time.Now().UTC(),
		Name:        optional(req.Name),
		Phone:       optional(req.Phone),
		Email:       optional(req.Email),
		Source:      optional(req.Source),
		UTMSource:   optional(req.UTMSource),
		UTMMedium:   optional(req.UTMMedium),
		UTMCampaign: optional(req.UTMCampaign),
		UTMTerm:     optional(req.UTMTerm),
		UTMContent:  optional(req.UTMContent),
		GCLID:       optional(req.GCLID),
		Status:      StatusNew,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.metrics.RecordLeadWrite("create", "error")
		return nil, err
	}
	s.metrics.RecordLeadWrite("create", "ok")

	s.publish(ChangeEvent{Type: EventInsert, New: l})
	return l, nil
}

// UpdateStatus changes the qualification status of one lead
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (*Lead, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, ErrLeadNotFound
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		s.metrics.RecordLeadWrite("update_status", "error")
		return nil, err
	}
	s.metrics.RecordLeadWrite("update_status", "ok")

	after := *before
	after.Status = status
	s.publish(ChangeEvent{Type: EventUpdate, New: &after, Old: before})
	return &after, nil
}

// BulkUpdateStatus changes the qualification status of every lead in ids
// and returns the number of leads actually updated. Unknown ids are ignored.
func (s *Service) BulkUpdateStatus(ctx context.Context, ids []int64, status Status) (int, error) {
	if !status.Valid() {
		return 0, ErrInvalidStatus
	}
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}

	before, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	if err := s.repo.BulkUpdateStatus(ctx, ids, status); err != nil {
		s.metrics.RecordLeadWrite("bulk_update_status", "error")
		return 0, err
	}
	s.metrics.RecordLeadWrite("bulk_update_status", "ok")

	for i := range before {
		old := before[i]
		updated := old
		updated.Status = status
		s.publish(ChangeEvent{Type: EventUpdate, New: &updated, Old: &old})
	}
	return len(before), nil
}

// UpdateComment replaces the operator comment on one lead
func (s *Service) UpdateComment(ctx context.Context, id int64, comment string) (*Lead, error) {
	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, ErrLeadNotFound
	}

	if err := s.repo.UpdateComment(ctx, id, comment); err != nil {
		s.metrics.RecordLeadWrite("update_comment", "error")
		return nil, err
	}
	s.metrics.RecordLeadWrite("update_comment", "ok")

	after := *before
	after.Comment = optional(comment)
	s.publish(ChangeEvent{Type: EventUpdate, New: &after, Old: before})
	return &after, nil
}

// Delete removes a lead
func (s *Service) Delete(ctx context.Context, id int64) error {
	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if before == nil {
		return ErrLeadNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.metrics.RecordLeadWrite("delete", "error")
		return err
	}
	s.metrics.RecordLeadWrite("delete", "ok")

	s.publish(ChangeEvent{Type: EventDelete, Old: before})
	return nil
}

func (s *Service) publish(ev ChangeEvent) {
	s.broker.Publish(ev)
	s.metrics.RecordLeadEvent(string(ev.Type))
	s.log.WithFields(map[string]any{
		"event":   ev.Type,
		"lead_id": ev.ID(),
	}).Debug("change event published")
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
