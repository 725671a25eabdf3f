package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"vvf-roster/backend/internal/model"
	pkgerrors "vvf-roster/backend/pkg/errors"
)

// SeatLoad one filled seat joined with its event's time window; the
// workload calculator turns these into cumulative hours.
type SeatLoad struct {
	OperatorID string `gorm:"column:operator_id"`
	TimeWindow string `gorm:"column:time_window"`
}

// EventRepository operational event data access, including the
// requirement and seat records hanging off each event.
type EventRepository interface {
	Create(ctx context.Context, event *model.OperationalEvent) error
	GetByID(ctx context.Context, id string) (*model.OperationalEvent, error)
	ListByDate(ctx context.Context, date time.Time) ([]model.OperationalEvent, error)
	Update(ctx context.Context, event *model.OperationalEvent) error
	UpdateStatus(ctx context.Context, eventID, status string) error
	UpdateStatusByDate(ctx context.Context, date time.Time, status string) error
	Delete(ctx context.Context, id string) error

	ReplaceVehicles(ctx context.Context, eventID string, vehicles []model.VehicleEntry) error

	GetRequirement(ctx context.Context, id string) (*model.PersonnelRequirement, error)
	CreateRequirement(ctx context.Context, req *model.PersonnelRequirement) error
	UpdateRequirement(ctx context.Context, req *model.PersonnelRequirement) error
	DeleteRequirement(ctx context.Context, id string) error

	GetSlot(ctx context.Context, requirementID string, slotIndex int) (*model.RequirementSlot, error)
	CreateSlots(ctx context.Context, slots []model.RequirementSlot) error
	UpdateSlot(ctx context.Context, slot *model.RequirementSlot) error
	DeleteSlotsFrom(ctx context.Context, requirementID string, fromIndex int) error

	ListSeatLoads(ctx context.Context) ([]SeatLoad, error)
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo creates the GORM-backed EventRepository.
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.OperationalEvent) error {
	// Nested create persists vehicles, requirements and slots in one
	// transaction.
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.OperationalEvent, error) {
	var event model.OperationalEvent
	err := r.db.WithContext(ctx).
		Preload("Vehicles").
		Preload("Requirements", func(db *gorm.DB) *gorm.DB {
			return db.Order("personnel_requirements.created_at ASC")
		}).
		Preload("Requirements.Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("requirement_slots.slot_index ASC")
		}).
		Where("event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) ListByDate(ctx context.Context, date time.Time) ([]model.OperationalEvent, error) {
	var events []model.OperationalEvent
	err := r.db.WithContext(ctx).
		Preload("Vehicles").
		Preload("Requirements", func(db *gorm.DB) *gorm.DB {
			return db.Order("personnel_requirements.created_at ASC")
		}).
		Preload("Requirements.Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("requirement_slots.slot_index ASC")
		}).
		Where("date = ?", date.Format("2006-01-02")).
		Order("time_window ASC, code ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepo) Update(ctx context.Context, event *model.OperationalEvent) error {
	oldVersion := event.Version
	result := r.db.WithContext(ctx).
		Model(event).
		Where("event_id = ? AND version = ?", event.EventID, oldVersion).
		Updates(map[string]interface{}{
			"code":                     event.Code,
			"location":                 event.Location,
			"date":                     event.Date,
			"time_window":              event.TimeWindow,
			"status":                   event.Status,
			"vigilance_type":           event.VigilanceType,
			"required_specializations": event.RequiredSpecializations,
			"updated_by":               event.UpdatedBy,
			"version":                  oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	event.Version = oldVersion + 1
	return nil
}

func (r *eventRepo) UpdateStatus(ctx context.Context, eventID, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.OperationalEvent{}).
		Where("event_id = ?", eventID).
		Update("status", status).Error
}

func (r *eventRepo) UpdateStatusByDate(ctx context.Context, date time.Time, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.OperationalEvent{}).
		Where("date = ?", date.Format("2006-01-02")).
		Update("status", status).Error
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", id).
		Delete(&model.OperationalEvent{}).Error
}

// ── vehicles ──

func (r *eventRepo) ReplaceVehicles(ctx context.Context, eventID string, vehicles []model.VehicleEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).
			Delete(&model.VehicleEntry{}).Error; err != nil {
			return err
		}
		if len(vehicles) == 0 {
			return nil
		}
		return tx.Create(&vehicles).Error
	})
}

// ── requirements ──

func (r *eventRepo) GetRequirement(ctx context.Context, id string) (*model.PersonnelRequirement, error) {
	var req model.PersonnelRequirement
	err := r.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("requirement_slots.slot_index ASC")
		}).
		Where("requirement_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *eventRepo) CreateRequirement(ctx context.Context, req *model.PersonnelRequirement) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *eventRepo) UpdateRequirement(ctx context.Context, req *model.PersonnelRequirement) error {
	return r.db.WithContext(ctx).
		Model(&model.PersonnelRequirement{}).
		Where("requirement_id = ?", req.RequirementID).
		Updates(map[string]interface{}{
			"qty":             req.Qty,
			"specializations": req.Specializations,
			"updated_by":      req.UpdatedBy,
		}).Error
}

func (r *eventRepo) DeleteRequirement(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("requirement_id = ?", id).
			Delete(&model.RequirementSlot{}).Error; err != nil {
			return err
		}
		return tx.Where("requirement_id = ?", id).
			Delete(&model.PersonnelRequirement{}).Error
	})
}

// ── slots ──

func (r *eventRepo) GetSlot(ctx context.Context, requirementID string, slotIndex int) (*model.RequirementSlot, error) {
	var slot model.RequirementSlot
	err := r.db.WithContext(ctx).
		Where("requirement_id = ? AND slot_index = ?", requirementID, slotIndex).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *eventRepo) CreateSlots(ctx context.Context, slots []model.RequirementSlot) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&slots).Error
}

func (r *eventRepo) UpdateSlot(ctx context.Context, slot *model.RequirementSlot) error {
	// Map update so clearing a seat writes NULLs.
	return r.db.WithContext(ctx).
		Model(&model.RequirementSlot{}).
		Where("slot_id = ?", slot.SlotID).
		Updates(map[string]interface{}{
			"assigned_id":        slot.AssignedID,
			"entrusted_group":    slot.EntrustedGroup,
			"assigned_by_group":  slot.AssignedByGroup,
			"entrusted_by_group": slot.EntrustedByGroup,
			"updated_by":         slot.UpdatedBy,
		}).Error
}

func (r *eventRepo) DeleteSlotsFrom(ctx context.Context, requirementID string, fromIndex int) error {
	return r.db.WithContext(ctx).
		Where("requirement_id = ? AND slot_index >= ?", requirementID, fromIndex).
		Delete(&model.RequirementSlot{}).Error
}

// ── workload ──

func (r *eventRepo) ListSeatLoads(ctx context.Context) ([]SeatLoad, error) {
	var loads []SeatLoad
	err := r.db.WithContext(ctx).
		Table("requirement_slots AS s").
		Select("s.assigned_id AS operator_id, e.time_window").
		Joins("JOIN personnel_requirements pr ON pr.requirement_id = s.requirement_id").
		Joins("JOIN operational_events e ON e.event_id = pr.event_id").
		Where("s.assigned_id IS NOT NULL").
		Where("e.deleted_at IS NULL").
		Scan(&loads).Error
	if err != nil {
		return nil, err
	}
	return loads, nil
}
