package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"vvf-roster/backend/internal/dto"
	"vvf-roster/backend/internal/rotation"
	"vvf-roster/backend/internal/service"
	"vvf-roster/backend/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar"
)

// ExportHandler file export endpoints.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// DayRoster exports the printable day sheet.
// GET /api/v1/export/day?date=YYYY-MM-DD
func (h *ExportHandler) DayRoster(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.BadRequest(c, 10001, "date is required")
		return
	}

	buf, filename, err := h.exportSvc.ExportDayRoster(c.Request.Context(), date)
	if err != nil {
		h.handleError(c, err)
		return
	}

	writeDownload(c, xlsxContentType, filename, buf.Bytes())
}

// RotationICS exports the rotation projection as a calendar feed.
// GET /api/v1/export/rotation.ics?from=YYYY-MM-DD&days=30
func (h *ExportHandler) RotationICS(c *gin.Context) {
	var req dto.RotationProjectionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	buf, filename, err := h.exportSvc.ExportRotationICS(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	writeDownload(c, icsContentType, filename, buf.Bytes())
}

func writeDownload(c *gin.Context, contentType, filename string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoEvents):
		response.NotFound(c, 16101, "no events on the requested date")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13003, "invalid date, expected YYYY-MM-DD")
	case errors.Is(err, rotation.ErrInvalidSeed):
		response.BadRequest(c, 17001, "seed code is not part of the rotation sequence")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
