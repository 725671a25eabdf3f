package dto

// ── event DTOs ──

// VehicleEntryRequest one vehicle row of a create/update request.
type VehicleEntryRequest struct {
	Type  string `json:"type"  binding:"required,max=50"`
	Plate string `json:"plate" binding:"required,max=20"`
	Qty   int    `json:"qty"   binding:"required,min=1,max=20"`
}

// RequirementRequest one (role, qty) need of a create/update request.
type RequirementRequest struct {
	Role            string   `json:"role" binding:"required,oneof=DIR CP VIG ALTRO"`
	Qty             int      `json:"qty"  binding:"required,min=1,max=50"`
	Specializations []string `json:"specializations" binding:"omitempty,dive,max=50"`
}

// CreateEventRequest new operational event.
type CreateEventRequest struct {
	Code                    string                `json:"code"        binding:"required,max=100"`
	Location                string                `json:"location"    binding:"required,max=200"`
	Date                    string                `json:"date"        binding:"required,datetime=2006-01-02"`
	TimeWindow              string                `json:"time_window" binding:"required,max=20"` // "HH:MM - HH:MM"
	VigilanceType           string                `json:"vigilance_type" binding:"omitempty,oneof=STANDARD RINFORZI OLYMPIC_SPEC OLYMPIC_GENERIC"`
	RequiredSpecializations []string              `json:"required_specializations" binding:"omitempty,dive,max=50"`
	Vehicles                []VehicleEntryRequest `json:"vehicles"     binding:"omitempty,dive"`
	Requirements            []RequirementRequest  `json:"requirements" binding:"required,min=1,dive"`
}

// UpdateEventRequest partial event update. Changing a requirement's qty
// reconciles its slots; fills beyond the new qty are discarded.
type UpdateEventRequest struct {
	Code                    *string               `json:"code"        binding:"omitempty,max=100"`
	Location                *string               `json:"location"    binding:"omitempty,max=200"`
	Date                    *string               `json:"date"        binding:"omitempty,datetime=2006-01-02"`
	TimeWindow              *string               `json:"time_window" binding:"omitempty,max=20"`
	VigilanceType           *string               `json:"vigilance_type" binding:"omitempty,oneof=STANDARD RINFORZI OLYMPIC_SPEC OLYMPIC_GENERIC"`
	RequiredSpecializations []string              `json:"required_specializations" binding:"omitempty,dive,max=50"`
	Vehicles                []VehicleEntryRequest `json:"vehicles"     binding:"omitempty,dive"`
	Requirements            []RequirementRequest  `json:"requirements" binding:"omitempty,dive"`
	Version                 int                   `json:"version"      binding:"required,min=1"`
}

// EventListRequest day roster query.
type EventListRequest struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

// SetDayApprovalRequest approves or reopens a whole day.
// AcknowledgeIncomplete must be set to approve a day whose events are
// not all fully staffed.
type SetDayApprovalRequest struct {
	Approved              bool `json:"approved"`
	AcknowledgeIncomplete bool `json:"acknowledge_incomplete"`
}

// ── responses ──

// SlotResponse one seat of a requirement.
type SlotResponse struct {
	SlotIndex        int               `json:"slot_index"`
	Assigned         *OperatorResponse `json:"assigned,omitempty"`
	EntrustedGroup   string            `json:"entrusted_group,omitempty"`
	AssignedByGroup  string            `json:"assigned_by_group,omitempty"`
	EntrustedByGroup string            `json:"entrusted_by_group,omitempty"`
}

// RequirementResponse one requirement with its slots.
type RequirementResponse struct {
	ID              string         `json:"id"`
	Role            string         `json:"role"`
	Qty             int            `json:"qty"`
	Specializations []string       `json:"specializations,omitempty"`
	Filled          int            `json:"filled"`
	Slots           []SlotResponse `json:"slots"`
}

// VehicleEntryResponse one vehicle row.
type VehicleEntryResponse struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Plate         string `json:"plate"`
	Qty           int    `json:"qty"`
	RequiredGrade int    `json:"required_grade,omitempty"`
}

// EventResponse full event view.
type EventResponse struct {
	ID                      string                 `json:"id"`
	Code                    string                 `json:"code"`
	Location                string                 `json:"location"`
	Date                    string                 `json:"date"`
	TimeWindow              string                 `json:"time_window"`
	DurationHours           float64                `json:"duration_hours"`
	Status                  string                 `json:"status"`
	VigilanceType           string                 `json:"vigilance_type"`
	RequiredSpecializations []string               `json:"required_specializations,omitempty"`
	CompletionPercent       int                    `json:"completion_percent"`
	LicenseAlert            string                 `json:"license_alert,omitempty"`
	Vehicles                []VehicleEntryResponse `json:"vehicles,omitempty"`
	Requirements            []RequirementResponse  `json:"requirements"`
	Version                 int                    `json:"version"`
	CreatedAt               string                 `json:"created_at"`
	UpdatedAt               string                 `json:"updated_at"`
}

// DayRosterResponse all events of one date plus the day lock state.
type DayRosterResponse struct {
	Date     string          `json:"date"`
	Approved bool            `json:"approved"`
	Events   []EventResponse `json:"events"`
}

// DayApprovalResponse the per-date lock flag.
type DayApprovalResponse struct {
	Date       string `json:"date"`
	Approved   bool   `json:"approved"`
	ApprovedBy string `json:"approved_by,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// RoleSummaryResponse aggregate staffing per role over one date.
type RoleSummaryResponse struct {
	Date  string            `json:"date"`
	Roles []RoleSummaryItem `json:"roles"`
}

// RoleSummaryItem required vs filled seats for one role.
type RoleSummaryItem struct {
	Role     string `json:"role"`
	Required int    `json:"required"`
	Filled   int    `json:"filled"`
}
