package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vvf-roster/backend/internal/dto"
	"vvf-roster/backend/internal/service"
	"vvf-roster/backend/pkg/response"
)

// ApprovalHandler day approval endpoints.
type ApprovalHandler struct {
	approvalSvc service.ApprovalService
}

// NewApprovalHandler creates an ApprovalHandler.
func NewApprovalHandler(approvalSvc service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalSvc: approvalSvc}
}

// Get
// GET /api/v1/days/:date/approval
func (h *ApprovalHandler) Get(c *gin.Context) {
	result, err := h.approvalSvc.GetDayApproval(c.Request.Context(), c.Param("date"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Set
// PUT /api/v1/days/:date/approval
func (h *ApprovalHandler) Set(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SetDayApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	result, err := h.approvalSvc.SetDayApproval(c.Request.Context(), c.Param("date"), &req, userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *ApprovalHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDayIncomplete):
		response.Conflict(c, 15001, "day has understaffed events, acknowledgement required")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13003, "invalid date, expected YYYY-MM-DD")
	default:
		response.InternalError(c)
	}
}
