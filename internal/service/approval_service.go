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

// ErrDayIncomplete approval refused: some event on the date is below
// 100% fill and the caller did not acknowledge it.
var ErrDayIncomplete = errors.New("day has understaffed events, acknowledgement required")

// ApprovalService the per-date roster lock.
type ApprovalService interface {
	SetDayApproval(ctx context.Context, date string, req *dto.SetDayApprovalRequest, callerID string) (*dto.DayApprovalResponse, error)
	GetDayApproval(ctx context.Context, date string) (*dto.DayApprovalResponse, error)
}

type approvalService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewApprovalService creates an ApprovalService instance.
func NewApprovalService(repo *repository.Repository, logger *zap.Logger) ApprovalService {
	return &approvalService{repo: repo, logger: logger}
}

func toApprovalResponse(approval *model.DayApproval) *dto.DayApprovalResponse {
	resp := &dto.DayApprovalResponse{
		Date:      approval.Date.Format("2006-01-02"),
		Approved:  approval.Approved,
		UpdatedAt: approval.UpdatedAt.Format(time.RFC3339),
	}
	if approval.ApprovedBy != nil {
		resp.ApprovedBy = *approval.ApprovedBy
	}
	return resp
}

// SetDayApproval toggles the lock. Approving a date with understaffed
// events needs the explicit acknowledge flag and forces every event to
// APPROVATO; reopening forces every event back to IN_COMPILAZIONE
// without recomputing from fill level.
func (s *approvalService) SetDayApproval(ctx context.Context, dateStr string, req *dto.SetDayApprovalRequest, callerID string) (*dto.DayApprovalResponse, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}

	if req.Approved && !req.AcknowledgeIncomplete {
		events, err := s.repo.Event.ListByDate(ctx, date)
		if err != nil {
			return nil, err
		}
		for i := range events {
			if CompletionPercent(&events[i]) < 100 {
				return nil, ErrDayIncomplete
			}
		}
	}

	approval, err := s.repo.DayApproval.GetByDate(ctx, date)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		approval = &model.DayApproval{Date: date}
		approval.CreatedBy = &callerID
	}

	approval.Approved = req.Approved
	approval.UpdatedBy = &callerID
	if req.Approved {
		approval.ApprovedBy = &callerID
	} else {
		approval.ApprovedBy = nil
	}
	if err := s.repo.DayApproval.Save(ctx, approval); err != nil {
		s.logger.Error("saving day approval failed", zap.Error(err))
		return nil, err
	}

	status := model.StatusInCompilazione
	if req.Approved {
		status = model.StatusApprovato
	}
	if err := s.repo.Event.UpdateStatusByDate(ctx, date, status); err != nil {
		s.logger.Error("forcing event statuses failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("day approval changed",
		zap.String("date", dateStr),
		zap.Bool("approved", req.Approved),
		zap.String("caller_id", callerID))

	return toApprovalResponse(approval), nil
}

func (s *approvalService) GetDayApproval(ctx context.Context, dateStr string) (*dto.DayApprovalResponse, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}

	approval, err := s.repo.DayApproval.GetByDate(ctx, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.DayApprovalResponse{Date: dateStr, Approved: false}, nil
		}
		return nil, err
	}
	return toApprovalResponse(approval), nil
}
