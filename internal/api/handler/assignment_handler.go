package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"vvf-roster/backend/internal/dto"
	"vvf-roster/backend/internal/service"
	pkgerrors "vvf-roster/backend/pkg/errors"
	"vvf-roster/backend/pkg/response"
)

// AssignmentHandler seat assignment and entrustment endpoints. All of
// them operate on one seat addressed by event, requirement and slot
// index; the acting group comes from the caller's token.
type AssignmentHandler struct {
	assignSvc service.AssignmentService
}

// NewAssignmentHandler creates an AssignmentHandler.
func NewAssignmentHandler(assignSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignSvc: assignSvc}
}

// seatParams extracts the (event, requirement, slot) address from the
// route. Writes a 400 and returns ok=false when the slot index is not
// a number.
func seatParams(c *gin.Context) (eventID, requirementID string, slotIndex int, ok bool) {
	eventID = c.Param("id")
	requirementID = c.Param("reqId")
	slotIndex, err := strconv.Atoi(c.Param("slot"))
	if err != nil || slotIndex < 0 {
		response.BadRequest(c, 10001, "slot index must be a non-negative number")
		return "", "", 0, false
	}
	return eventID, requirementID, slotIndex, true
}

// Assign
// PUT /api/v1/events/:id/requirements/:reqId/slots/:slot/assign
func (h *AssignmentHandler) Assign(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	eventID, requirementID, slotIndex, ok := seatParams(c)
	if !ok {
		return
	}

	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	result, err := h.assignSvc.Assign(c.Request.Context(), eventID, requirementID, slotIndex, &req, GetGroup(c), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Unassign
// PUT /api/v1/events/:id/requirements/:reqId/slots/:slot/unassign
func (h *AssignmentHandler) Unassign(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	eventID, requirementID, slotIndex, ok := seatParams(c)
	if !ok {
		return
	}

	result, err := h.assignSvc.Unassign(c.Request.Context(), eventID, requirementID, slotIndex, GetGroup(c), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Entrust
// PUT /api/v1/events/:id/requirements/:reqId/slots/:slot/entrust
func (h *AssignmentHandler) Entrust(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	eventID, requirementID, slotIndex, ok := seatParams(c)
	if !ok {
		return
	}

	result, err := h.assignSvc.Entrust(c.Request.Context(), eventID, requirementID, slotIndex, GetGroup(c), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// RevokeEntrust
// PUT /api/v1/events/:id/requirements/:reqId/slots/:slot/revoke-entrust
func (h *AssignmentHandler) RevokeEntrust(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	eventID, requirementID, slotIndex, ok := seatParams(c)
	if !ok {
		return
	}

	result, err := h.assignSvc.RevokeEntrust(c.Request.Context(), eventID, requirementID, slotIndex, GetGroup(c), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Candidates
// GET /api/v1/events/:id/requirements/:reqId/slots/:slot/candidates
func (h *AssignmentHandler) Candidates(c *gin.Context) {
	eventID, requirementID, slotIndex, ok := seatParams(c)
	if !ok {
		return
	}

	result, err := h.assignSvc.Candidates(c.Request.Context(), eventID, requirementID, slotIndex, GetGroup(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *AssignmentHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 13001, "event not found")
	case errors.Is(err, service.ErrSlotNotFound):
		response.NotFound(c, 14001, "requirement slot not found")
	case errors.Is(err, service.ErrOperatorNotFound):
		response.NotFound(c, 14002, "operator not found")
	case errors.Is(err, service.ErrNotAssigner):
		response.Forbidden(c, 14003, "only the group that filled the seat may clear it")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10006, "record changed concurrently, refresh and retry")
	default:
		response.InternalError(c)
	}
}
