package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"vvf-roster/backend/internal/model"
)

// DayApprovalRepository per-date lock flag data access.
type DayApprovalRepository interface {
	GetByDate(ctx context.Context, date time.Time) (*model.DayApproval, error)
	Save(ctx context.Context, approval *model.DayApproval) error
}

type dayApprovalRepo struct {
	db *gorm.DB
}

// NewDayApprovalRepo creates the GORM-backed DayApprovalRepository.
func NewDayApprovalRepo(db *gorm.DB) DayApprovalRepository {
	return &dayApprovalRepo{db: db}
}

func (r *dayApprovalRepo) GetByDate(ctx context.Context, date time.Time) (*model.DayApproval, error) {
	var approval model.DayApproval
	err := r.db.WithContext(ctx).
		Where("date = ?", date.Format("2006-01-02")).
		First(&approval).Error
	if err != nil {
		return nil, err
	}
	return &approval, nil
}

func (r *dayApprovalRepo) Save(ctx context.Context, approval *model.DayApproval) error {
	if approval.DayApprovalID == "" {
		return r.db.WithContext(ctx).Create(approval).Error
	}
	return r.db.WithContext(ctx).
		Model(approval).
		Where("day_approval_id = ?", approval.DayApprovalID).
		Updates(map[string]interface{}{
			"approved":    approval.Approved,
			"approved_by": approval.ApprovedBy,
			"updated_by":  approval.UpdatedBy,
		}).Error
}
