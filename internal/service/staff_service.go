package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vvf-roster/backend/internal/dto"
	"vvf-roster/backend/internal/model"
	"vvf-roster/backend/internal/repository"
)

// ErrInvalidDateRange unavailability window ends before it starts.
var ErrInvalidDateRange = errors.New("end date precedes start date")

// StaffService personnel reference management. Operators are seeded
// reference data; only their availability changes here.
type StaffService interface {
	List(ctx context.Context, req *dto.OperatorListRequest) (*dto.OperatorListResponse, error)
	GetByID(ctx context.Context, operatorID string) (*dto.OperatorResponse, error)
	MarkUnavailable(ctx context.Context, operatorID string, req *dto.MarkUnavailableRequest, callerID string) (*dto.OperatorResponse, error)
	MarkAvailable(ctx context.Context, operatorID string, callerID string) (*dto.OperatorResponse, error)
}

type staffService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStaffService creates a StaffService instance.
func NewStaffService(repo *repository.Repository, logger *zap.Logger) StaffService {
	return &staffService{repo: repo, logger: logger}
}

// revertIfExpired flips an operator back to available once their
// unavailability window has passed. Evaluated lazily on read instead
// of by a background job.
func (s *staffService) revertIfExpired(ctx context.Context, op *model.Operator) {
	if op.Available || op.UnavailableUntil == nil {
		return
	}
	today := time.Now().In(time.Local)
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)
	if !op.UnavailableUntil.Before(midnight) {
		return
	}

	op.Available = true
	op.StatusMessage = nil
	op.UnavailableFrom = nil
	op.UnavailableUntil = nil
	if err := s.repo.Operator.Update(ctx, op); err != nil {
		// A concurrent update already fixed it; the next read retries.
		s.logger.Warn("availability auto-revert failed",
			zap.String("operator_id", op.OperatorID), zap.Error(err))
	}
}

func (s *staffService) List(ctx context.Context, req *dto.OperatorListRequest) (*dto.OperatorListResponse, error) {
	filter := repository.OperatorFilter{
		Group:         req.Group,
		Qualification: req.Qualification,
		Available:     req.Available,
		Keyword:       req.Keyword,
	}

	ops, total, err := s.repo.Operator.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("listing operators failed", zap.Error(err))
		return nil, err
	}

	loads, err := s.repo.Event.ListSeatLoads(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.OperatorListResponse{Total: total, Items: make([]dto.OperatorResponse, 0, len(ops))}
	for i := range ops {
		op := &ops[i]
		s.revertIfExpired(ctx, op)
		resp.Items = append(resp.Items, toOperatorResponse(op, CumulativeHours(op.BaseHours, op.OperatorID, loads)))
	}
	return resp, nil
}

func (s *staffService) GetByID(ctx context.Context, operatorID string) (*dto.OperatorResponse, error) {
	op, err := s.repo.Operator.GetByID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, err
	}
	s.revertIfExpired(ctx, op)

	loads, err := s.repo.Event.ListSeatLoads(ctx)
	if err != nil {
		return nil, err
	}
	resp := toOperatorResponse(op, CumulativeHours(op.BaseHours, op.OperatorID, loads))
	return &resp, nil
}

func (s *staffService) MarkUnavailable(ctx context.Context, operatorID string, req *dto.MarkUnavailableRequest, callerID string) (*dto.OperatorResponse, error) {
	op, err := s.repo.Operator.GetByID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, err
	}

	from, err := time.ParseInLocation("2006-01-02", req.From, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}
	until, err := time.ParseInLocation("2006-01-02", req.Until, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if until.Before(from) {
		return nil, ErrInvalidDateRange
	}

	message := fmt.Sprintf("%s (%s - %s)",
		strings.ToUpper(req.Reason),
		from.Format("02/01/2006"),
		until.Format("02/01/2006"))

	op.Available = false
	op.StatusMessage = &message
	op.UnavailableFrom = &from
	op.UnavailableUntil = &until
	// Off-duty operators carry no base workload.
	op.BaseHours = 0
	op.UpdatedBy = &callerID
	if err := s.repo.Operator.Update(ctx, op); err != nil {
		return nil, err
	}

	s.logger.Info("operator marked unavailable",
		zap.String("operator_id", operatorID),
		zap.String("until", req.Until))

	resp := toOperatorResponse(op, op.BaseHours)
	return &resp, nil
}

func (s *staffService) MarkAvailable(ctx context.Context, operatorID string, callerID string) (*dto.OperatorResponse, error) {
	op, err := s.repo.Operator.GetByID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, err
	}

	op.Available = true
	op.StatusMessage = nil
	op.UnavailableFrom = nil
	op.UnavailableUntil = nil
	op.UpdatedBy = &callerID
	if err := s.repo.Operator.Update(ctx, op); err != nil {
		return nil, err
	}

	loads, err := s.repo.Event.ListSeatLoads(ctx)
	if err != nil {
		return nil, err
	}
	resp := toOperatorResponse(op, CumulativeHours(op.BaseHours, op.OperatorID, loads))
	return &resp, nil
}
