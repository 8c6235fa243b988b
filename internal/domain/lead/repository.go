package lead

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository handles lead data access
type Repository struct {
	db *gorm.DB
}

// NewRepository creates lead repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every lead ordered by creation time descending
func (r *Repository) List(ctx context.Context) ([]Lead, error) {
	var leads []Lead
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&leads).Error
	return leads, err
}

// GetByID retrieves a lead, returning (nil, nil) when it does not exist
func (r *Repository) GetByID(ctx context.Context, id int64) (*Lead, error) {
	var l Lead
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByIDs retrieves the leads whose ids are in ids, in no particular order
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]Lead, error) {
	var leads []Lead
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&leads).Error
	return leads, err
}

// Create inserts a new lead and fills in the assigned id
func (r *Repository) Create(ctx context.Context, l *Lead) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// UpdateStatus sets the qualification status of one lead
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	return r.db.WithContext(ctx).
		Model(&Lead{}).
		Where("id = ?", id).
		Update("qualification_status", status).Error
}

// BulkUpdateStatus sets the qualification status of every lead in ids
func (r *Repository) BulkUpdateStatus(ctx context.Context, ids []int64, status Status) error {
	return r.db.WithContext(ctx).
		Model(&Lead{}).
		Where("id IN ?", ids).
		Update("qualification_status", status).Error
}

// UpdateComment replaces the operator comment of one lead
func (r *Repository) UpdateComment(ctx context.Context, id int64, comment string) error {
	return r.db.WithContext(ctx).
		Model(&Lead{}).
		Where("id = ?", id).
		Update("comment", comment).Error
}

// Delete removes a lead by id
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&Lead{}, "id = ?", id).Error
}
