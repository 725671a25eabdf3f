package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vvf-roster/backend/config"
	"vvf-roster/backend/internal/dto"
	"vvf-roster/backend/internal/model"
	"vvf-roster/backend/internal/repository"
	"vvf-roster/backend/internal/rotation"
)

// ── assignment business errors ──

var (
	ErrSlotNotFound     = errors.New("requirement slot not found")
	ErrOperatorNotFound = errors.New("operator not found")
	ErrNotAssigner      = errors.New("only the group that filled the seat may clear it")
)

// AssignmentService seat-level roster mutations. Every mutation takes
// an explicit acting group; nothing is read from ambient state. All
// operations on a locked (approved) day are silent no-ops returning the
// unmodified event, so clients may call them unconditionally.
type AssignmentService interface {
	Assign(ctx context.Context, eventID, requirementID string, slotIndex int, req *dto.AssignRequest, actingGroup, callerID string) (*dto.EventResponse, error)
	Unassign(ctx context.Context, eventID, requirementID string, slotIndex int, actingGroup, callerID string) (*dto.EventResponse, error)
	Entrust(ctx context.Context, eventID, requirementID string, slotIndex int, actingGroup, callerID string) (*dto.EventResponse, error)
	RevokeEntrust(ctx context.Context, eventID, requirementID string, slotIndex int, actingGroup, callerID string) (*dto.EventResponse, error)
	Candidates(ctx context.Context, eventID, requirementID string, slotIndex int, actingGroup string) (*dto.CandidateListResponse, error)
}

type assignmentService struct {
	repo        *repository.Repository
	rotationCfg config.RotationConfig
	logger      *zap.Logger
}

// NewAssignmentService creates an AssignmentService instance.
func NewAssignmentService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{
		repo:        repo,
		rotationCfg: cfg.Rotation,
		logger:      logger,
	}
}

// loadSlot resolves the event, requirement and seat of one mutation,
// verifying they belong together.
func (s *assignmentService) loadSlot(ctx context.Context, eventID, requirementID string, slotIndex int) (*model.OperationalEvent, *model.RequirementSlot, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrEventNotFound
		}
		return nil, nil, err
	}

	for i := range event.Requirements {
		req := &event.Requirements[i]
		if req.RequirementID != requirementID {
			continue
		}
		for j := range req.Slots {
			if req.Slots[j].SlotIndex == slotIndex {
				return event, &req.Slots[j], nil
			}
		}
		return nil, nil, ErrSlotNotFound
	}
	return nil, nil, ErrRequirementNotFound
}

// dayLocked reports whether the event's date is approved.
func (s *assignmentService) dayLocked(ctx context.Context, event *model.OperationalEvent) (bool, error) {
	approval, err := s.repo.DayApproval.GetByDate(ctx, event.Date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return approval.Approved, nil
}

// priorityChain computes the hand-off chain for the event's date.
func (s *assignmentService) priorityChain(event *model.OperationalEvent) ([]string, error) {
	seedDate, err := s.rotationCfg.ParsedSeedDate()
	if err != nil {
		return nil, err
	}
	dayCode, err := rotation.MainDayCode(event.Date, seedDate, s.rotationCfg.SeedCode)
	if err != nil {
		return nil, err
	}
	return rotation.PriorityChain(dayCode)
}

// applyStatus persists a fill-driven status change after a mutation.
func (s *assignmentService) applyStatus(ctx context.Context, event *model.OperationalEvent) error {
	if status, changed := recomputeStatus(event); changed {
		if err := s.repo.Event.UpdateStatus(ctx, event.EventID, status); err != nil {
			return err
		}
		event.Status = status
	}
	return nil
}

func (s *assignmentService) respond(ctx context.Context, event *model.OperationalEvent) (*dto.EventResponse, error) {
	operators, err := assignedOperators(ctx, s.repo, event)
	if err != nil {
		return nil, err
	}
	loads, err := s.repo.Event.ListSeatLoads(ctx)
	if err != nil {
		return nil, err
	}
	return toEventResponse(event, operators, loads), nil
}

// ── operations ──

func (s *assignmentService) Assign(ctx context.Context, eventID, requirementID string, slotIndex int, req *dto.AssignRequest, actingGroup, callerID string) (*dto.EventResponse, error) {
	event, slot, err := s.loadSlot(ctx, eventID, requirementID, slotIndex)
	if err != nil {
		return nil, err
	}

	locked, err := s.dayLocked(ctx, event)
	if err != nil {
		return nil, err
	}
	if locked {
		return s.respond(ctx, event)
	}

	if _, err := s.repo.Operator.GetByID(ctx, req.OperatorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, err
	}

	operatorID := req.OperatorID
	group := actingGroup
	slot.AssignedID = &operatorID
	slot.AssignedByGroup = &group
	slot.UpdatedBy = &callerID
	if err := s.repo.Event.UpdateSlot(ctx, slot); err != nil {
		s.logger.Error("filling seat failed", zap.Error(err))
		return nil, err
	}

	if err := s.applyStatus(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("seat filled",
		zap.String("event_id", eventID),
		zap.String("operator_id", operatorID),
		zap.String("acting_group", actingGroup))

	return s.respond(ctx, event)
}

func (s *assignmentService) Unassign(ctx context.Context, eventID, requirementID string, slotIndex int, actingGroup, callerID string) (*dto.EventResponse, error) {
	event, slot, err := s.loadSlot(ctx, eventID, requirementID, slotIndex)
	if err != nil {
		return nil, err
	}

	locked, err := s.dayLocked(ctx, event)
	if err != nil {
		return nil, err
	}
	if locked {
		return s.respond(ctx, event)
	}

	if slot.AssignedID == nil {
		return s.respond(ctx, event)
	}
	if slot.AssignedByGroup != nil && *slot.AssignedByGroup != actingGroup {
		return nil, ErrNotAssigner
	}

	slot.AssignedID = nil
	slot.AssignedByGroup = nil
	slot.UpdatedBy = &callerID
	if err := s.repo.Event.UpdateSlot(ctx, slot); err != nil {
		s.logger.Error("clearing seat failed", zap.Error(err))
		return nil, err
	}

	if err := s.applyStatus(ctx, event); err != nil {
		return nil, err
	}

	return s.respond(ctx, event)
}

func (s *assignmentService) Entrust(ctx context.Context, eventID, requirementID string, slotIndex int, actingGroup, callerID string) (*dto.EventResponse, error) {
	event, slot, err := s.loadSlot(ctx, eventID, requirementID, slotIndex)
	if err != nil {
		return nil, err
	}

	locked, err := s.dayLocked(ctx, event)
	if err != nil {
		return nil, err
	}
	if locked {
		return s.respond(ctx, event)
	}

	chain, err := s.priorityChain(event)
	if err != nil {
		return nil, err
	}

	owner := chain[0]
	if slot.EntrustedGroup != nil {
		owner = *slot.EntrustedGroup
	}
	ownerIdx := indexOfGroup(chain, owner)
	next := chain[(ownerIdx+1)%len(chain)]

	// A hand-off always resets any existing fill; the new owner must
	// re-decide.
	group := actingGroup
	slot.EntrustedGroup = &next
	slot.EntrustedByGroup = &group
	slot.AssignedID = nil
	slot.AssignedByGroup = nil
	slot.UpdatedBy = &callerID
	if err := s.repo.Event.UpdateSlot(ctx, slot); err != nil {
		s.logger.Error("entrusting seat failed", zap.Error(err))
		return nil, err
	}

	if err := s.applyStatus(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("seat entrusted",
		zap.String("event_id", eventID),
		zap.String("to_group", next),
		zap.String("acting_group", actingGroup))

	return s.respond(ctx, event)
}

func (s *assignmentService) RevokeEntrust(ctx context.Context, eventID, requirementID string, slotIndex int, actingGroup, callerID string) (*dto.EventResponse, error) {
	event, slot, err := s.loadSlot(ctx, eventID, requirementID, slotIndex)
	if err != nil {
		return nil, err
	}

	locked, err := s.dayLocked(ctx, event)
	if err != nil {
		return nil, err
	}
	if locked || slot.EntrustedGroup == nil {
		return s.respond(ctx, event)
	}

	chain, err := s.priorityChain(event)
	if err != nil {
		return nil, err
	}

	ownerIdx := indexOfGroup(chain, *slot.EntrustedGroup)
	if ownerIdx <= 0 {
		return s.respond(ctx, event)
	}
	prev := chain[ownerIdx-1]

	if prev == chain[0] {
		slot.EntrustedGroup = nil
		slot.EntrustedByGroup = nil
	} else {
		slot.EntrustedGroup = &prev
	}
	slot.UpdatedBy = &callerID
	if err := s.repo.Event.UpdateSlot(ctx, slot); err != nil {
		s.logger.Error("revoking entrustment failed", zap.Error(err))
		return nil, err
	}

	return s.respond(ctx, event)
}

func (s *assignmentService) Candidates(ctx context.Context, eventID, requirementID string, slotIndex int, actingGroup string) (*dto.CandidateListResponse, error) {
	event, _, err := s.loadSlot(ctx, eventID, requirementID, slotIndex)
	if err != nil {
		return nil, err
	}

	var role string
	for i := range event.Requirements {
		if event.Requirements[i].RequirementID == requirementID {
			role = event.Requirements[i].Role
		}
	}

	seedDate, err := s.rotationCfg.ParsedSeedDate()
	if err != nil {
		return nil, err
	}
	dayCode, err := rotation.MainDayCode(event.Date, seedDate, s.rotationCfg.SeedCode)
	if err != nil {
		return nil, err
	}
	pools, err := rotation.EligibilityPools(dayCode)
	if err != nil {
		return nil, err
	}

	standardLetter := pools.Standard[0][:1]
	inStandard := make(map[string]bool, len(pools.Standard))
	for _, c := range pools.Standard {
		inStandard[c] = true
	}
	inExtra := make(map[string]bool, len(pools.Extra))
	for _, c := range pools.Extra {
		inExtra[c] = true
	}

	operators, err := s.repo.Operator.ListByQualification(ctx, role)
	if err != nil {
		return nil, err
	}
	loads, err := s.repo.Event.ListSeatLoads(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]dto.CandidateResponse, 0, len(operators))
	for i := range operators {
		op := &operators[i]
		if !op.Available {
			continue
		}
		eligible := op.Group == standardLetter ||
			inStandard[op.Subgroup] || inExtra[op.Subgroup] ||
			op.Group == model.GroupExtra
		if !eligible {
			continue
		}
		// Compilers only pick from their own group plus EXTRA staff.
		if actingGroup != "" && op.Group != actingGroup && op.Group != model.GroupExtra {
			continue
		}

		tier := 3
		if inStandard[op.Subgroup] {
			tier = 1
		} else if inExtra[op.Subgroup] {
			tier = 2
		}

		candidates = append(candidates, dto.CandidateResponse{
			Operator: toOperatorResponse(op, CumulativeHours(op.BaseHours, op.OperatorID, loads)),
			PoolTier: tier,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].PoolTier != candidates[j].PoolTier {
			return candidates[i].PoolTier < candidates[j].PoolTier
		}
		return candidates[i].Operator.CumulativeHours < candidates[j].Operator.CumulativeHours
	})

	return &dto.CandidateListResponse{
		EventID:       eventID,
		RequirementID: requirementID,
		SlotIndex:     slotIndex,
		Candidates:    candidates,
	}, nil
}

func indexOfGroup(chain []string, group string) int {
	for i, g := range chain {
		if g == group {
			return i
		}
	}
	return -1
}
