package service

import (
	"go.uber.org/zap"

	"vvf-roster/backend/config"
	"vvf-roster/backend/internal/repository"
	"vvf-roster/backend/pkg/jwt"
	"vvf-roster/backend/pkg/redis"
)

// Service aggregates every business interface.
type Service struct {
	Auth       AuthService
	Staff      StaffService
	Event      EventService
	Assignment AssignmentService
	Approval   ApprovalService
	Rotation   RotationService
	Export     ExportService
}

// NewService wires the service layer. Fails when the configured
// rotation seed is unusable.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) (*Service, error) {
	rotationSvc, err := NewRotationService(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Staff:      NewStaffService(repo, logger),
		Event:      NewEventService(repo, logger),
		Assignment: NewAssignmentService(cfg, repo, logger),
		Approval:   NewApprovalService(repo, logger),
		Rotation:   rotationSvc,
		Export:     NewExportService(cfg, repo, logger),
	}, nil
}
