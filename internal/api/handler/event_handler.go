package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vvf-roster/backend/internal/dto"
	"vvf-roster/backend/internal/service"
	pkgerrors "vvf-roster/backend/pkg/errors"
	"vvf-roster/backend/pkg/response"
)

// EventHandler operational event endpoints.
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// Create
// POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	result, err := h.eventSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Created(c, result)
}

// Update
// PUT /api/v1/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	result, err := h.eventSvc.Update(c.Request.Context(), c.Param("id"), &req, userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Get
// GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	result, err := h.eventSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete
// DELETE /api/v1/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.eventSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// DayRoster
// GET /api/v1/events?date=YYYY-MM-DD
func (h *EventHandler) DayRoster(c *gin.Context) {
	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	result, err := h.eventSvc.DayRoster(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// RoleSummary
// GET /api/v1/events/summary?date=YYYY-MM-DD
func (h *EventHandler) RoleSummary(c *gin.Context) {
	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	result, err := h.eventSvc.RoleSummary(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *EventHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 13001, "event not found")
	case errors.Is(err, service.ErrRequirementNotFound):
		response.NotFound(c, 13002, "personnel requirement not found")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13003, "invalid date, expected YYYY-MM-DD")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10006, "record changed concurrently, refresh and retry")
	default:
		response.InternalError(c)
	}
}
