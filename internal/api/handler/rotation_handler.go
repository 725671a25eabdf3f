package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vvf-roster/backend/internal/dto"
	"vvf-roster/backend/internal/rotation"
	"vvf-roster/backend/internal/service"
	"vvf-roster/backend/pkg/response"
)

// RotationHandler duty rotation endpoints.
type RotationHandler struct {
	rotationSvc service.RotationService
}

// NewRotationHandler creates a RotationHandler.
func NewRotationHandler(rotationSvc service.RotationService) *RotationHandler {
	return &RotationHandler{rotationSvc: rotationSvc}
}

// Day
// GET /api/v1/rotation/day?date=YYYY-MM-DD
func (h *RotationHandler) Day(c *gin.Context) {
	var req dto.RotationDayRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	result, err := h.rotationSvc.DayInfo(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Projection
// GET /api/v1/rotation/projection?from=YYYY-MM-DD&days=30
func (h *RotationHandler) Projection(c *gin.Context) {
	var req dto.RotationProjectionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	result, err := h.rotationSvc.Projection(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *RotationHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13003, "invalid date, expected YYYY-MM-DD")
	case errors.Is(err, rotation.ErrInvalidSeed):
		response.BadRequest(c, 17001, "seed code is not part of the rotation sequence")
	default:
		response.InternalError(c)
	}
}
