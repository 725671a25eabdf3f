package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vvf-roster/backend/internal/dto"
	"vvf-roster/backend/internal/service"
	pkgerrors "vvf-roster/backend/pkg/errors"
	"vvf-roster/backend/pkg/response"
)

// StaffHandler personnel reference endpoints.
type StaffHandler struct {
	staffSvc service.StaffService
}

// NewStaffHandler creates a StaffHandler.
func NewStaffHandler(staffSvc service.StaffService) *StaffHandler {
	return &StaffHandler{staffSvc: staffSvc}
}

// List
// GET /api/v1/operators?group=&qualification=&available=&keyword=
func (h *StaffHandler) List(c *gin.Context) {
	var req dto.OperatorListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	result, err := h.staffSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Get
// GET /api/v1/operators/:id
func (h *StaffHandler) Get(c *gin.Context) {
	result, err := h.staffSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// MarkUnavailable
// PUT /api/v1/operators/:id/unavailable
func (h *StaffHandler) MarkUnavailable(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.MarkUnavailableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	result, err := h.staffSvc.MarkUnavailable(c.Request.Context(), c.Param("id"), &req, userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// MarkAvailable
// PUT /api/v1/operators/:id/available
func (h *StaffHandler) MarkAvailable(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.staffSvc.MarkAvailable(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *StaffHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOperatorNotFound):
		response.NotFound(c, 12001, "operator not found")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 12002, "end date precedes start date")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10006, "record changed concurrently, refresh and retry")
	default:
		response.InternalError(c)
	}
}
