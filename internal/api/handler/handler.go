package handler

import "vvf-roster/backend/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth       *AuthHandler
	Staff      *StaffHandler
	Event      *EventHandler
	Assignment *AssignmentHandler
	Approval   *ApprovalHandler
	Rotation   *RotationHandler
	Export     *ExportHandler
}

// NewHandler creates the handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Staff:      NewStaffHandler(svc.Staff),
		Event:      NewEventHandler(svc.Event),
		Assignment: NewAssignmentHandler(svc.Assignment),
		Approval:   NewApprovalHandler(svc.Approval),
		Rotation:   NewRotationHandler(svc.Rotation),
		Export:     NewExportHandler(svc.Export),
	}
}
