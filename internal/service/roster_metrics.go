package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"vvf-roster/backend/internal/model"
	"vvf-roster/backend/internal/repository"
)

// ── derived roster metrics ──
//
// Pure recomputation functions; callers always pass the current
// snapshot and never cache the results across a mutation.

// CompletionCounts returns filled and total seats across every
// requirement of the event.
func CompletionCounts(event *model.OperationalEvent) (filled, total int) {
	for i := range event.Requirements {
		req := &event.Requirements[i]
		total += req.Qty
		for j := range req.Slots {
			if req.Slots[j].Filled() {
				filled++
			}
		}
	}
	return filled, total
}

// CompletionPercent computes the staffing percentage of an event,
// rounded to the nearest integer. Zero required seats counts as fully
// staffed.
func CompletionPercent(event *model.OperationalEvent) int {
	filled, total := CompletionCounts(event)
	if total == 0 {
		return 100
	}
	return int(math.Round(100 * float64(filled) / float64(total)))
}

// DurationHours parses a "HH:MM - HH:MM" window into hours. An end time
// numerically at or before the start wraps past midnight. Malformed
// windows degrade to zero instead of failing; they only feed display
// and ordering logic.
func DurationHours(window string) float64 {
	parts := strings.Split(window, "-")
	if len(parts) != 2 {
		return 0
	}
	start, ok1 := parseClock(strings.TrimSpace(parts[0]))
	end, ok2 := parseClock(strings.TrimSpace(parts[1]))
	if !ok1 || !ok2 {
		return 0
	}
	minutes := end - start
	if minutes <= 0 {
		minutes += 24 * 60
	}
	return float64(minutes) / 60
}

// parseClock turns "HH:MM" into minutes since midnight.
func parseClock(s string) (int, bool) {
	hm := strings.Split(s, ":")
	if len(hm) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(hm[0])
	m, err2 := strconv.Atoi(hm[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// LicenseGradeValue extracts the numeric grade from a license string
// such as "3" or "3 LIM.". Non-numeric prefixes yield zero.
func LicenseGradeValue(license string) int {
	i := 0
	for i < len(license) && license[i] >= '0' && license[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0
	}
	n, err := strconv.Atoi(license[:i])
	if err != nil {
		return 0
	}
	return n
}

// LicenseAlert checks vehicle/license compatibility on a fully staffed
// event. It returns a warning naming the required grade when no
// assigned operator can drive the most demanding vehicle, and the
// empty string otherwise. Events below 100% fill or without graded
// vehicles are never flagged.
func LicenseAlert(event *model.OperationalEvent, operators map[string]*model.Operator) string {
	if CompletionPercent(event) < 100 {
		return ""
	}

	maxReq := 0
	for i := range event.Vehicles {
		if req := model.RequiredLicenseGrade(event.Vehicles[i].Type); req > maxReq {
			maxReq = req
		}
	}
	if maxReq == 0 {
		return ""
	}

	for i := range event.Requirements {
		for j := range event.Requirements[i].Slots {
			slot := &event.Requirements[i].Slots[j]
			if slot.AssignedID == nil {
				continue
			}
			op, ok := operators[*slot.AssignedID]
			if ok && LicenseGradeValue(op.LicenseGrade) >= maxReq {
				return ""
			}
		}
	}

	return fmt.Sprintf("Attenzione: nessun operatore assegnato ha la patente richiesta per il mezzo selezionato - richiesto: %d° grado", maxReq)
}

// CumulativeHours sums an operator's workload: static base hours plus
// event duration times the number of seats they fill on each event.
func CumulativeHours(baseHours float64, operatorID string, loads []repository.SeatLoad) float64 {
	total := baseHours
	for _, l := range loads {
		if l.OperatorID == operatorID {
			total += DurationHours(l.TimeWindow)
		}
	}
	return total
}
