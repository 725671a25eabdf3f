package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"vvf-roster/backend/config"
	"vvf-roster/backend/internal/dto"
	"vvf-roster/backend/internal/model"
	"vvf-roster/backend/internal/repository"
	"vvf-roster/backend/internal/rotation"
)

// ── export business errors ──

var (
	ErrExportNoEvents     = errors.New("no events on the requested date")
	ErrExportGenerateFail = errors.New("generating the export file failed")
)

// ExportService file exports. Excel day sheets mirror the printed A3
// roster; the ICS feed publishes the rotation projection to calendar
// clients. Both return a buffer plus a suggested filename; the handler
// sets the HTTP headers.
type ExportService interface {
	ExportDayRoster(ctx context.Context, date string) (*bytes.Buffer, string, error)
	ExportRotationICS(ctx context.Context, req *dto.RotationProjectionRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo        *repository.Repository
	rotationCfg config.RotationConfig
	logger      *zap.Logger
}

// NewExportService creates an ExportService instance.
func NewExportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, rotationCfg: cfg.Rotation, logger: logger}
}

// formatDuration renders hours as "12h." or "7.5h." like the printed
// sheet.
func formatDuration(hours float64) string {
	if hours == 0 {
		return ""
	}
	if math.Abs(hours-math.Round(hours)) < 1e-6 {
		return fmt.Sprintf("%dh.", int(math.Round(hours)))
	}
	return fmt.Sprintf("%.1fh.", hours)
}

// displayName renders an operator for the sheet: name plus a license
// tag and the specialization list.
func displayName(op *model.Operator) string {
	name := op.Name

	switch strings.ToUpper(strings.TrimSpace(op.LicenseGrade)) {
	case "3":
		name += " [3°]"
	case "4":
		name += " [4°]"
	case "3 LIM.":
		name += " [3 L.]"
	case "4 LIM.":
		name += " [4 L.]"
	}

	if len(op.Specializations) > 0 {
		name += " (" + strings.Join(op.Specializations, ", ") + ")"
	}
	return name
}

// seatLine renders one seat: rank + formatted name when filled,
// "AFFIDATO <group>" when entrusted and vacant, the role label alone
// otherwise.
func seatLine(role string, slot *model.RequirementSlot, operators map[string]*model.Operator) (rank, name string) {
	if slot.AssignedID != nil {
		if op, ok := operators[*slot.AssignedID]; ok {
			return op.Rank, displayName(op)
		}
	}
	if slot.EntrustedGroup != nil {
		return role, "AFFIDATO " + *slot.EntrustedGroup
	}
	return role, ""
}

func (s *exportService) ExportDayRoster(ctx context.Context, dateStr string) (*bytes.Buffer, string, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return nil, "", ErrInvalidDate
	}

	events, err := s.repo.Event.ListByDate(ctx, date)
	if err != nil {
		s.logger.Error("listing events for export failed", zap.Error(err))
		return nil, "", err
	}
	if len(events) == 0 {
		return nil, "", ErrExportNoEvents
	}

	eventPtrs := make([]*model.OperationalEvent, len(events))
	for i := range events {
		eventPtrs[i] = &events[i]
	}
	operators, err := assignedOperators(ctx, s.repo, eventPtrs...)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "A3"
	f.SetSheetName("Sheet1", sheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 18, Bold: true},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "left"},
	})
	labelStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 12, Bold: true},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "left"},
	})
	nameStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 12},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "left", WrapText: true},
	})

	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "B", 60)

	f.MergeCell(sheet, "A1", "B1")
	f.SetCellValue(sheet, "A1", "Data: "+date.Format("02/01/2006"))
	f.SetCellStyle(sheet, "A1", "B1", titleStyle)

	row := 3
	for i := range events {
		event := &events[i]

		f.MergeCell(sheet, cell("A", row), cell("B", row))
		f.SetCellValue(sheet, cell("A", row), event.Code)
		f.SetCellStyle(sheet, cell("A", row), cell("B", row), titleStyle)
		row++

		orario := "ORARIO: " + event.TimeWindow
		if dur := formatDuration(DurationHours(event.TimeWindow)); dur != "" {
			orario += " DURATA: " + dur
		}
		f.MergeCell(sheet, cell("A", row), cell("B", row))
		f.SetCellValue(sheet, cell("A", row), orario)
		f.SetCellStyle(sheet, cell("A", row), cell("B", row), labelStyle)
		row++

		// Main roles first, in the fixed printed order, then specialists.
		for _, role := range []string{model.QualificationDIR, model.QualificationCP, model.QualificationVIG, model.QualificationALTRO} {
			for j := range event.Requirements {
				req := &event.Requirements[j]
				if req.Role != role {
					continue
				}
				for k := range req.Slots {
					rank, name := seatLine(req.Role, &req.Slots[k], operators)
					f.SetCellValue(sheet, cell("A", row), rank)
					f.SetCellStyle(sheet, cell("A", row), cell("A", row), labelStyle)
					f.SetCellValue(sheet, cell("B", row), name)
					f.SetCellStyle(sheet, cell("B", row), cell("B", row), nameStyle)
					row++
				}
			}
		}

		if len(event.Vehicles) > 0 {
			parts := make([]string, 0, len(event.Vehicles))
			for j := range event.Vehicles {
				v := &event.Vehicles[j]
				if v.Qty == 0 {
					continue
				}
				entry := strings.ToUpper(v.Type)
				if v.Plate != "" {
					entry += " [" + v.Plate + "]"
				}
				parts = append(parts, entry)
			}
			f.MergeCell(sheet, cell("A", row), cell("B", row))
			f.SetCellValue(sheet, cell("A", row), strings.Join(parts, " / "))
			f.SetCellStyle(sheet, cell("A", row), cell("B", row), nameStyle)
			row++
		}

		f.SetCellValue(sheet, cell("A", row), fmt.Sprintf("%d%%", CompletionPercent(event)))
		f.SetCellStyle(sheet, cell("A", row), cell("A", row), labelStyle)
		row += 2
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("writing workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("Servizi_VVF_A3_%s.xlsx", dateStr)
	return buf, filename, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// ExportRotationICS renders the rotation projection as an iCalendar
// feed of all-day entries, one per date, so duty codes show up in any
// RFC 5545 client.
func (s *exportService) ExportRotationICS(_ context.Context, req *dto.RotationProjectionRequest) (*bytes.Buffer, string, error) {
	from, err := time.ParseInLocation("2006-01-02", req.From, time.Local)
	if err != nil {
		return nil, "", ErrInvalidDate
	}

	seedDate, err := s.rotationCfg.ParsedSeedDate()
	if err != nil {
		return nil, "", err
	}
	seedCode := s.rotationCfg.SeedCode
	if req.SeedDate != "" {
		if seedDate, err = time.ParseInLocation("2006-01-02", req.SeedDate, time.Local); err != nil {
			return nil, "", ErrInvalidDate
		}
	}
	if req.SeedCode != "" {
		seedCode = req.SeedCode
	}

	days := req.Days
	if days <= 0 {
		days = 30
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//vvf-roster//rotation//IT")

	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i)
		dayCode, err := rotation.MainDayCode(date, seedDate, seedCode)
		if err != nil {
			return nil, "", err
		}
		nightCode, err := rotation.MainNightCode(date, seedDate, seedCode)
		if err != nil {
			return nil, "", err
		}

		event := cal.AddEvent(fmt.Sprintf("rotation-%s@vvf-roster", date.Format("2006-01-02")))
		event.SetAllDayStartAt(date)
		event.SetAllDayEndAt(date.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("Turno %s", dayCode))
		event.SetDescription(fmt.Sprintf("Turno diurno: %s / Turno notturno: %s", dayCode, nightCode))
		event.SetDtStampTime(time.Now())
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("Rotazione_VVF_%s.ics", req.From)
	return buf, filename, nil
}
