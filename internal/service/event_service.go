package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vvf-roster/backend/internal/dto"
	"vvf-roster/backend/internal/model"
	"vvf-roster/backend/internal/repository"
)

// ── event business errors ──

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrRequirementNotFound = errors.New("personnel requirement not found")
)

// EventService operational event lifecycle.
type EventService interface {
	Create(ctx context.Context, req *dto.CreateEventRequest, callerID string) (*dto.EventResponse, error)
	Update(ctx context.Context, eventID string, req *dto.UpdateEventRequest, callerID string) (*dto.EventResponse, error)
	GetByID(ctx context.Context, eventID string) (*dto.EventResponse, error)
	DayRoster(ctx context.Context, req *dto.EventListRequest) (*dto.DayRosterResponse, error)
	RoleSummary(ctx context.Context, req *dto.EventListRequest) (*dto.RoleSummaryResponse, error)
	Delete(ctx context.Context, eventID string) error
}

type eventService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEventService creates an EventService instance.
func NewEventService(repo *repository.Repository, logger *zap.Logger) EventService {
	return &eventService{repo: repo, logger: logger}
}

// ── response assembly ──
//
// Shared with the assignment service: every mutation answers with the
// freshly rebuilt event view so clients never merge partial updates.

func toOperatorResponse(op *model.Operator, hours float64) dto.OperatorResponse {
	resp := dto.OperatorResponse{
		ID:              op.OperatorID,
		Name:            op.Name,
		Rank:            op.Rank,
		Qualification:   op.Qualification,
		Group:           op.Group,
		Subgroup:        op.Subgroup,
		Available:       op.Available,
		BaseHours:       op.BaseHours,
		CumulativeHours: hours,
		LicenseGrade:    op.LicenseGrade,
		Specializations: op.Specializations,
		Station:         op.Station,
	}
	if op.StatusMessage != nil {
		resp.StatusMessage = *op.StatusMessage
	}
	return resp
}

func toEventResponse(event *model.OperationalEvent, operators map[string]*model.Operator, loads []repository.SeatLoad) *dto.EventResponse {
	resp := &dto.EventResponse{
		ID:                      event.EventID,
		Code:                    event.Code,
		Location:                event.Location,
		Date:                    event.Date.Format("2006-01-02"),
		TimeWindow:              event.TimeWindow,
		DurationHours:           DurationHours(event.TimeWindow),
		Status:                  event.Status,
		VigilanceType:           event.VigilanceType,
		RequiredSpecializations: event.RequiredSpecializations,
		CompletionPercent:       CompletionPercent(event),
		LicenseAlert:            LicenseAlert(event, operators),
		Version:                 event.Version,
		CreatedAt:               event.CreatedAt.Format(time.RFC3339),
		UpdatedAt:               event.UpdatedAt.Format(time.RFC3339),
	}

	for i := range event.Vehicles {
		v := &event.Vehicles[i]
		resp.Vehicles = append(resp.Vehicles, dto.VehicleEntryResponse{
			ID:            v.VehicleEntryID,
			Type:          v.Type,
			Plate:         v.Plate,
			Qty:           v.Qty,
			RequiredGrade: model.RequiredLicenseGrade(v.Type),
		})
	}

	for i := range event.Requirements {
		req := &event.Requirements[i]
		reqResp := dto.RequirementResponse{
			ID:              req.RequirementID,
			Role:            req.Role,
			Qty:             req.Qty,
			Specializations: req.Specializations,
			Slots:           make([]dto.SlotResponse, 0, len(req.Slots)),
		}
		for j := range req.Slots {
			slot := &req.Slots[j]
			slotResp := dto.SlotResponse{SlotIndex: slot.SlotIndex}
			if slot.AssignedID != nil {
				reqResp.Filled++
				if op, ok := operators[*slot.AssignedID]; ok {
					assigned := toOperatorResponse(op, CumulativeHours(op.BaseHours, op.OperatorID, loads))
					slotResp.Assigned = &assigned
				}
			}
			if slot.EntrustedGroup != nil {
				slotResp.EntrustedGroup = *slot.EntrustedGroup
			}
			if slot.AssignedByGroup != nil {
				slotResp.AssignedByGroup = *slot.AssignedByGroup
			}
			if slot.EntrustedByGroup != nil {
				slotResp.EntrustedByGroup = *slot.EntrustedByGroup
			}
			reqResp.Slots = append(reqResp.Slots, slotResp)
		}
		resp.Requirements = append(resp.Requirements, reqResp)
	}

	return resp
}

// assignedOperators loads every operator filling a seat on the given
// events.
func assignedOperators(ctx context.Context, repo *repository.Repository, events ...*model.OperationalEvent) (map[string]*model.Operator, error) {
	var ids []string
	seen := make(map[string]bool)
	for _, event := range events {
		for i := range event.Requirements {
			for j := range event.Requirements[i].Slots {
				if id := event.Requirements[i].Slots[j].AssignedID; id != nil && !seen[*id] {
					seen[*id] = true
					ids = append(ids, *id)
				}
			}
		}
	}

	ops, err := repo.Operator.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Operator, len(ops))
	for i := range ops {
		byID[ops[i].OperatorID] = &ops[i]
	}
	return byID, nil
}

func (s *eventService) buildResponse(ctx context.Context, event *model.OperationalEvent) (*dto.EventResponse, error) {
	operators, err := assignedOperators(ctx, s.repo, event)
	if err != nil {
		s.logger.Error("loading assigned operators failed", zap.Error(err))
		return nil, err
	}
	loads, err := s.repo.Event.ListSeatLoads(ctx)
	if err != nil {
		s.logger.Error("loading seat loads failed", zap.Error(err))
		return nil, err
	}
	return toEventResponse(event, operators, loads), nil
}

// recomputeStatus applies the fill-driven status transition: a fully
// staffed event becomes COMPLETATO, a partially staffed one reverts to
// IN_COMPILAZIONE, and an empty one keeps its current status.
func recomputeStatus(event *model.OperationalEvent) (string, bool) {
	filled, total := CompletionCounts(event)
	switch {
	case total > 0 && filled == total:
		return model.StatusCompletato, event.Status != model.StatusCompletato
	case filled > 0:
		return model.StatusInCompilazione, event.Status != model.StatusInCompilazione
	default:
		return event.Status, false
	}
}

// ── operations ──

func (s *eventService) Create(ctx context.Context, req *dto.CreateEventRequest, callerID string) (*dto.EventResponse, error) {
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}

	vigilance := req.VigilanceType
	if vigilance == "" {
		vigilance = model.VigilanceStandard
	}

	event := &model.OperationalEvent{
		Code:                    req.Code,
		Location:                req.Location,
		Date:                    date,
		TimeWindow:              req.TimeWindow,
		Status:                  model.StatusInCompilazione,
		VigilanceType:           vigilance,
		RequiredSpecializations: req.RequiredSpecializations,
	}
	event.CreatedBy = &callerID

	for _, v := range req.Vehicles {
		event.Vehicles = append(event.Vehicles, model.VehicleEntry{
			Type:  v.Type,
			Plate: v.Plate,
			Qty:   v.Qty,
		})
	}
	for _, r := range req.Requirements {
		requirement := model.PersonnelRequirement{
			Role:            r.Role,
			Qty:             r.Qty,
			Specializations: r.Specializations,
		}
		for i := 0; i < r.Qty; i++ {
			requirement.Slots = append(requirement.Slots, model.RequirementSlot{SlotIndex: i})
		}
		event.Requirements = append(event.Requirements, requirement)
	}

	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.logger.Error("creating event failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("event created",
		zap.String("event_id", event.EventID),
		zap.String("date", req.Date),
		zap.String("caller_id", callerID))

	return s.buildResponse(ctx, event)
}

func (s *eventService) Update(ctx context.Context, eventID string, req *dto.UpdateEventRequest, callerID string) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("loading event failed", zap.Error(err))
		return nil, err
	}

	if req.Code != nil {
		event.Code = *req.Code
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Date != nil {
		date, err := time.ParseInLocation("2006-01-02", *req.Date, time.Local)
		if err != nil {
			return nil, ErrInvalidDate
		}
		event.Date = date
	}
	if req.TimeWindow != nil {
		event.TimeWindow = *req.TimeWindow
	}
	if req.VigilanceType != nil {
		event.VigilanceType = *req.VigilanceType
	}
	if req.RequiredSpecializations != nil {
		event.RequiredSpecializations = req.RequiredSpecializations
	}
	event.UpdatedBy = &callerID
	event.Version = req.Version

	if err := s.repo.Event.Update(ctx, event); err != nil {
		return nil, err
	}

	if req.Vehicles != nil {
		vehicles := make([]model.VehicleEntry, 0, len(req.Vehicles))
		for _, v := range req.Vehicles {
			vehicles = append(vehicles, model.VehicleEntry{
				EventID: event.EventID,
				Type:    v.Type,
				Plate:   v.Plate,
				Qty:     v.Qty,
			})
		}
		if err := s.repo.Event.ReplaceVehicles(ctx, event.EventID, vehicles); err != nil {
			s.logger.Error("replacing vehicles failed", zap.Error(err))
			return nil, err
		}
	}

	if req.Requirements != nil {
		if err := s.reconcileRequirements(ctx, event, req.Requirements, callerID); err != nil {
			return nil, err
		}
	}

	// Reload to pick up structural changes, then re-derive the status.
	event, err = s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if status, changed := recomputeStatus(event); changed {
		if err := s.repo.Event.UpdateStatus(ctx, eventID, status); err != nil {
			return nil, err
		}
		event.Status = status
	}

	s.logger.Info("event updated",
		zap.String("event_id", eventID),
		zap.String("caller_id", callerID))

	return s.buildResponse(ctx, event)
}

// reconcileRequirements aligns stored requirements with the requested
// set, matching by role so existing fills survive a quantity change.
// Seats beyond a reduced quantity are discarded together with their
// fills.
func (s *eventService) reconcileRequirements(ctx context.Context, event *model.OperationalEvent, requested []dto.RequirementRequest, callerID string) error {
	matched := make(map[string]bool)

	for _, want := range requested {
		var existing *model.PersonnelRequirement
		for i := range event.Requirements {
			r := &event.Requirements[i]
			if r.Role == want.Role && !matched[r.RequirementID] {
				existing = r
				break
			}
		}

		if existing == nil {
			requirement := &model.PersonnelRequirement{
				EventID:         event.EventID,
				Role:            want.Role,
				Qty:             want.Qty,
				Specializations: want.Specializations,
			}
			for i := 0; i < want.Qty; i++ {
				requirement.Slots = append(requirement.Slots, model.RequirementSlot{SlotIndex: i})
			}
			if err := s.repo.Event.CreateRequirement(ctx, requirement); err != nil {
				return err
			}
			continue
		}

		matched[existing.RequirementID] = true

		if want.Qty < existing.Qty {
			if err := s.repo.Event.DeleteSlotsFrom(ctx, existing.RequirementID, want.Qty); err != nil {
				return err
			}
		} else if want.Qty > existing.Qty {
			var extra []model.RequirementSlot
			for i := existing.Qty; i < want.Qty; i++ {
				extra = append(extra, model.RequirementSlot{
					RequirementID: existing.RequirementID,
					SlotIndex:     i,
				})
			}
			if err := s.repo.Event.CreateSlots(ctx, extra); err != nil {
				return err
			}
		}

		existing.Qty = want.Qty
		existing.Specializations = want.Specializations
		existing.UpdatedBy = &callerID
		if err := s.repo.Event.UpdateRequirement(ctx, existing); err != nil {
			return err
		}
	}

	for i := range event.Requirements {
		r := &event.Requirements[i]
		if !matched[r.RequirementID] {
			if err := s.repo.Event.DeleteRequirement(ctx, r.RequirementID); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *eventService) GetByID(ctx context.Context, eventID string) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return s.buildResponse(ctx, event)
}

func (s *eventService) DayRoster(ctx context.Context, req *dto.EventListRequest) (*dto.DayRosterResponse, error) {
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}

	events, err := s.repo.Event.ListByDate(ctx, date)
	if err != nil {
		s.logger.Error("listing events failed", zap.Error(err))
		return nil, err
	}

	approved := false
	approval, err := s.repo.DayApproval.GetByDate(ctx, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if approval != nil {
		approved = approval.Approved
	}

	eventPtrs := make([]*model.OperationalEvent, len(events))
	for i := range events {
		eventPtrs[i] = &events[i]
	}
	operators, err := assignedOperators(ctx, s.repo, eventPtrs...)
	if err != nil {
		return nil, err
	}
	loads, err := s.repo.Event.ListSeatLoads(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.DayRosterResponse{
		Date:     req.Date,
		Approved: approved,
		Events:   make([]dto.EventResponse, 0, len(events)),
	}
	for i := range events {
		resp.Events = append(resp.Events, *toEventResponse(&events[i], operators, loads))
	}
	return resp, nil
}

func (s *eventService) RoleSummary(ctx context.Context, req *dto.EventListRequest) (*dto.RoleSummaryResponse, error) {
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}

	events, err := s.repo.Event.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	required := make(map[string]int)
	filled := make(map[string]int)
	for i := range events {
		for j := range events[i].Requirements {
			r := &events[i].Requirements[j]
			required[r.Role] += r.Qty
			for k := range r.Slots {
				if r.Slots[k].Filled() {
					filled[r.Role]++
				}
			}
		}
	}

	resp := &dto.RoleSummaryResponse{Date: req.Date}
	for _, role := range []string{model.QualificationDIR, model.QualificationCP, model.QualificationVIG, model.QualificationALTRO} {
		if required[role] == 0 && filled[role] == 0 {
			continue
		}
		resp.Roles = append(resp.Roles, dto.RoleSummaryItem{
			Role:     role,
			Required: required[role],
			Filled:   filled[role],
		})
	}
	return resp, nil
}

func (s *eventService) Delete(ctx context.Context, eventID string) error {
	if _, err := s.repo.Event.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	if err := s.repo.Event.Delete(ctx, eventID); err != nil {
		s.logger.Error("deleting event failed", zap.Error(err))
		return err
	}
	s.logger.Info("event deleted", zap.String("event_id", eventID))
	return nil
}
