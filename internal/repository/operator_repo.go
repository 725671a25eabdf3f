package repository

import (
	"context"

	"gorm.io/gorm"

	"vvf-roster/backend/internal/model"
	pkgerrors "vvf-roster/backend/pkg/errors"
)

// OperatorFilter narrows staff listings. Zero values mean no filter.
type OperatorFilter struct {
	Group         string
	Qualification string
	Available     *bool
	Keyword       string
}

// OperatorRepository personnel data access.
type OperatorRepository interface {
	GetByID(ctx context.Context, id string) (*model.Operator, error)
	List(ctx context.Context, filter OperatorFilter, offset, limit int) ([]model.Operator, int64, error)
	ListByQualification(ctx context.Context, qualification string) ([]model.Operator, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Operator, error)
	Update(ctx context.Context, op *model.Operator) error
}

type operatorRepo struct {
	db *gorm.DB
}

// NewOperatorRepo creates the GORM-backed OperatorRepository.
func NewOperatorRepo(db *gorm.DB) OperatorRepository {
	return &operatorRepo{db: db}
}

func (r *operatorRepo) GetByID(ctx context.Context, id string) (*model.Operator, error) {
	var op model.Operator
	err := r.db.WithContext(ctx).
		Where("operator_id = ?", id).
		First(&op).Error
	if err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *operatorRepo) List(ctx context.Context, filter OperatorFilter, offset, limit int) ([]model.Operator, int64, error) {
	var ops []model.Operator
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Operator{})
	if filter.Group != "" {
		db = db.Where(`"group" = ?`, filter.Group)
	}
	if filter.Qualification != "" {
		db = db.Where("qualification = ?", filter.Qualification)
	}
	if filter.Available != nil {
		db = db.Where("available = ?", *filter.Available)
	}
	if filter.Keyword != "" {
		db = db.Where("name ILIKE ?", "%"+filter.Keyword+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("name ASC").
		Find(&ops).Error; err != nil {
		return nil, 0, err
	}

	return ops, total, nil
}

func (r *operatorRepo) ListByQualification(ctx context.Context, qualification string) ([]model.Operator, error) {
	var ops []model.Operator
	err := r.db.WithContext(ctx).
		Where("qualification = ?", qualification).
		Order("name ASC").
		Find(&ops).Error
	if err != nil {
		return nil, err
	}
	return ops, nil
}

func (r *operatorRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Operator, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ops []model.Operator
	err := r.db.WithContext(ctx).
		Where("operator_id IN ?", ids).
		Find(&ops).Error
	if err != nil {
		return nil, err
	}
	return ops, nil
}

func (r *operatorRepo) Update(ctx context.Context, op *model.Operator) error {
	oldVersion := op.Version
	result := r.db.WithContext(ctx).
		Model(op).
		Where("operator_id = ? AND version = ?", op.OperatorID, oldVersion).
		Updates(map[string]interface{}{
			"available":         op.Available,
			"status_message":    op.StatusMessage,
			"unavailable_from":  op.UnavailableFrom,
			"unavailable_until": op.UnavailableUntil,
			"base_hours":        op.BaseHours,
			"updated_by":        op.UpdatedBy,
			"version":           oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	op.Version = oldVersion + 1
	return nil
}
