package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"vvf-roster/backend/config"
	"vvf-roster/backend/internal/model"
	"vvf-roster/backend/internal/repository"
	pkgerrors "vvf-roster/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	if user.Version == 0 {
		user.Version = 1
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	stored, ok := m.users[user.UserID]
	if !ok || stored.Version != user.Version {
		return pkgerrors.ErrOptimisticLock
	}
	user.Version++
	m.users[user.UserID] = user
	return nil
}

// ── Mock OperatorRepository ──

type mockOperatorRepo struct {
	operators map[string]*model.Operator
}

func newMockOperatorRepo() *mockOperatorRepo {
	return &mockOperatorRepo{operators: make(map[string]*model.Operator)}
}

func (m *mockOperatorRepo) add(op *model.Operator) *model.Operator {
	if op.OperatorID == "" {
		op.OperatorID = fmt.Sprintf("op-%d", len(m.operators)+1)
	}
	if op.Version == 0 {
		op.Version = 1
	}
	m.operators[op.OperatorID] = op
	return op
}

func (m *mockOperatorRepo) GetByID(_ context.Context, id string) (*model.Operator, error) {
	if op, ok := m.operators[id]; ok {
		return op, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOperatorRepo) List(_ context.Context, filter repository.OperatorFilter, offset, limit int) ([]model.Operator, int64, error) {
	var all []model.Operator
	for _, op := range m.operators {
		if filter.Group != "" && op.Group != filter.Group {
			continue
		}
		if filter.Qualification != "" && op.Qualification != filter.Qualification {
			continue
		}
		if filter.Available != nil && op.Available != *filter.Available {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(op.Name), strings.ToLower(filter.Keyword)) {
			continue
		}
		all = append(all, *op)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockOperatorRepo) ListByQualification(_ context.Context, qualification string) ([]model.Operator, error) {
	var result []model.Operator
	for _, op := range m.operators {
		if op.Qualification == qualification {
			result = append(result, *op)
		}
	}
	return result, nil
}

func (m *mockOperatorRepo) ListByIDs(_ context.Context, ids []string) ([]model.Operator, error) {
	var result []model.Operator
	for _, id := range ids {
		if op, ok := m.operators[id]; ok {
			result = append(result, *op)
		}
	}
	return result, nil
}

func (m *mockOperatorRepo) Update(_ context.Context, op *model.Operator) error {
	stored, ok := m.operators[op.OperatorID]
	if !ok || stored.Version != op.Version {
		return pkgerrors.ErrOptimisticLock
	}
	op.Version++
	m.operators[op.OperatorID] = op
	return nil
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events map[string]*model.OperationalEvent
	seq    int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string]*model.OperationalEvent)}
}

func (m *mockEventRepo) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *mockEventRepo) Create(_ context.Context, event *model.OperationalEvent) error {
	if event.EventID == "" {
		event.EventID = m.nextID("event")
	}
	if event.Version == 0 {
		event.Version = 1
	}
	for i := range event.Vehicles {
		if event.Vehicles[i].VehicleEntryID == "" {
			event.Vehicles[i].VehicleEntryID = m.nextID("vehicle")
		}
		event.Vehicles[i].EventID = event.EventID
	}
	for i := range event.Requirements {
		req := &event.Requirements[i]
		if req.RequirementID == "" {
			req.RequirementID = m.nextID("req")
		}
		req.EventID = event.EventID
		for j := range req.Slots {
			if req.Slots[j].SlotID == "" {
				req.Slots[j].SlotID = m.nextID("slot")
			}
			req.Slots[j].RequirementID = req.RequirementID
		}
	}
	m.events[event.EventID] = event
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.OperationalEvent, error) {
	if ev, ok := m.events[id]; ok {
		return ev, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) ListByDate(_ context.Context, date time.Time) ([]model.OperationalEvent, error) {
	var result []model.OperationalEvent
	for _, ev := range m.events {
		if ev.Date.Format("2006-01-02") == date.Format("2006-01-02") {
			result = append(result, *ev)
		}
	}
	return result, nil
}

func (m *mockEventRepo) Update(_ context.Context, event *model.OperationalEvent) error {
	stored, ok := m.events[event.EventID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != event.Version {
		return pkgerrors.ErrOptimisticLock
	}
	event.Version++
	event.Vehicles = stored.Vehicles
	event.Requirements = stored.Requirements
	m.events[event.EventID] = event
	return nil
}

func (m *mockEventRepo) UpdateStatus(_ context.Context, eventID, status string) error {
	if ev, ok := m.events[eventID]; ok {
		ev.Status = status
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockEventRepo) UpdateStatusByDate(_ context.Context, date time.Time, status string) error {
	for _, ev := range m.events {
		if ev.Date.Format("2006-01-02") == date.Format("2006-01-02") {
			ev.Status = status
		}
	}
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id string) error {
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) ReplaceVehicles(_ context.Context, eventID string, vehicles []model.VehicleEntry) error {
	ev, ok := m.events[eventID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range vehicles {
		if vehicles[i].VehicleEntryID == "" {
			vehicles[i].VehicleEntryID = m.nextID("vehicle")
		}
		vehicles[i].EventID = eventID
	}
	ev.Vehicles = vehicles
	return nil
}

func (m *mockEventRepo) GetRequirement(_ context.Context, id string) (*model.PersonnelRequirement, error) {
	for _, ev := range m.events {
		for i := range ev.Requirements {
			if ev.Requirements[i].RequirementID == id {
				return &ev.Requirements[i], nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) CreateRequirement(_ context.Context, req *model.PersonnelRequirement) error {
	ev, ok := m.events[req.EventID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if req.RequirementID == "" {
		req.RequirementID = m.nextID("req")
	}
	for j := range req.Slots {
		if req.Slots[j].SlotID == "" {
			req.Slots[j].SlotID = m.nextID("slot")
		}
		req.Slots[j].RequirementID = req.RequirementID
	}
	ev.Requirements = append(ev.Requirements, *req)
	return nil
}

func (m *mockEventRepo) UpdateRequirement(_ context.Context, req *model.PersonnelRequirement) error {
	for _, ev := range m.events {
		for i := range ev.Requirements {
			if ev.Requirements[i].RequirementID == req.RequirementID {
				ev.Requirements[i].Qty = req.Qty
				ev.Requirements[i].Specializations = req.Specializations
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockEventRepo) DeleteRequirement(_ context.Context, id string) error {
	for _, ev := range m.events {
		for i := range ev.Requirements {
			if ev.Requirements[i].RequirementID == id {
				ev.Requirements = append(ev.Requirements[:i], ev.Requirements[i+1:]...)
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockEventRepo) GetSlot(_ context.Context, requirementID string, slotIndex int) (*model.RequirementSlot, error) {
	for _, ev := range m.events {
		for i := range ev.Requirements {
			req := &ev.Requirements[i]
			if req.RequirementID != requirementID {
				continue
			}
			for j := range req.Slots {
				if req.Slots[j].SlotIndex == slotIndex {
					return &req.Slots[j], nil
				}
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) CreateSlots(_ context.Context, slots []model.RequirementSlot) error {
	for _, slot := range slots {
		for _, ev := range m.events {
			for i := range ev.Requirements {
				req := &ev.Requirements[i]
				if req.RequirementID == slot.RequirementID {
					if slot.SlotID == "" {
						slot.SlotID = m.nextID("slot")
					}
					req.Slots = append(req.Slots, slot)
				}
			}
		}
	}
	return nil
}

func (m *mockEventRepo) UpdateSlot(_ context.Context, slot *model.RequirementSlot) error {
	for _, ev := range m.events {
		for i := range ev.Requirements {
			req := &ev.Requirements[i]
			for j := range req.Slots {
				if req.Slots[j].SlotID == slot.SlotID {
					req.Slots[j].AssignedID = slot.AssignedID
					req.Slots[j].EntrustedGroup = slot.EntrustedGroup
					req.Slots[j].AssignedByGroup = slot.AssignedByGroup
					req.Slots[j].EntrustedByGroup = slot.EntrustedByGroup
					return nil
				}
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockEventRepo) DeleteSlotsFrom(_ context.Context, requirementID string, fromIndex int) error {
	for _, ev := range m.events {
		for i := range ev.Requirements {
			req := &ev.Requirements[i]
			if req.RequirementID != requirementID {
				continue
			}
			kept := req.Slots[:0]
			for _, s := range req.Slots {
				if s.SlotIndex < fromIndex {
					kept = append(kept, s)
				}
			}
			req.Slots = kept
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockEventRepo) ListSeatLoads(_ context.Context) ([]repository.SeatLoad, error) {
	var loads []repository.SeatLoad
	for _, ev := range m.events {
		for i := range ev.Requirements {
			for j := range ev.Requirements[i].Slots {
				if id := ev.Requirements[i].Slots[j].AssignedID; id != nil {
					loads = append(loads, repository.SeatLoad{
						OperatorID: *id,
						TimeWindow: ev.TimeWindow,
					})
				}
			}
		}
	}
	return loads, nil
}

// ── Mock DayApprovalRepository ──

type mockDayApprovalRepo struct {
	approvals map[string]*model.DayApproval
	seq       int
}

func newMockDayApprovalRepo() *mockDayApprovalRepo {
	return &mockDayApprovalRepo{approvals: make(map[string]*model.DayApproval)}
}

func (m *mockDayApprovalRepo) GetByDate(_ context.Context, date time.Time) (*model.DayApproval, error) {
	if a, ok := m.approvals[date.Format("2006-01-02")]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDayApprovalRepo) Save(_ context.Context, approval *model.DayApproval) error {
	if approval.DayApprovalID == "" {
		m.seq++
		approval.DayApprovalID = fmt.Sprintf("approval-%d", m.seq)
	}
	m.approvals[approval.Date.Format("2006-01-02")] = approval
	return nil
}

// ── test fixtures ──

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 7 * 24 * time.Hour,
		},
		Rotation: config.RotationConfig{
			SeedDate: "2026-01-01",
			SeedCode: "B6",
		},
	}
}

func newTestRepo() (*repository.Repository, *mockUserRepo, *mockOperatorRepo, *mockEventRepo, *mockDayApprovalRepo) {
	users := newMockUserRepo()
	operators := newMockOperatorRepo()
	events := newMockEventRepo()
	approvals := newMockDayApprovalRepo()
	repo := &repository.Repository{
		User:        users,
		Operator:    operators,
		Event:       events,
		DayApproval: approvals,
	}
	return repo, users, operators, events, approvals
}
