package model

import (
	"strings"
	"time"
)

// Event statuses.
const (
	StatusInCompilazione     = "IN_COMPILAZIONE"
	StatusAttesaApprovazione = "ATTESA_APPROVAZIONE"
	StatusApprovato          = "APPROVATO"
	StatusCritico            = "CRITICO"
	StatusCompletato         = "COMPLETATO"
)

// Vigilance types.
const (
	VigilanceStandard       = "STANDARD"
	VigilanceRinforzi       = "RINFORZI"
	VigilanceOlympicSpec    = "OLYMPIC_SPEC"
	VigilanceOlympicGeneric = "OLYMPIC_GENERIC"
)

// OperationalEvent is one scheduled service — maps to operational_events.
// A single date plus a contiguous, possibly midnight-crossing time window.
type OperationalEvent struct {
	EventID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	Code          string    `gorm:"type:varchar(100);not null"                     json:"code"`
	Location      string    `gorm:"type:varchar(200);not null"                     json:"location"`
	Date          time.Time `gorm:"type:date;not null;index"                       json:"date"`
	TimeWindow    string    `gorm:"type:varchar(20);not null"                      json:"time_window"` // "HH:MM - HH:MM"
	Status        string    `gorm:"type:varchar(30);not null;default:'IN_COMPILAZIONE'" json:"status"`
	VigilanceType string    `gorm:"type:varchar(20);not null;default:'STANDARD'"   json:"vigilance_type"`
	RequiredSpecializations StringArray `gorm:"type:text[]" json:"required_specializations,omitempty"`
	VersionedModel

	Vehicles     []VehicleEntry         `gorm:"foreignKey:EventID" json:"vehicles,omitempty"`
	Requirements []PersonnelRequirement `gorm:"foreignKey:EventID" json:"requirements,omitempty"`
}

// TableName sets the table name.
func (OperationalEvent) TableName() string { return "operational_events" }

// VehicleEntry is a vehicle on an event — maps to vehicle_entries.
// The type drives a minimum-license-grade requirement.
type VehicleEntry struct {
	VehicleEntryID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"vehicle_entry_id"`
	EventID        string `gorm:"type:uuid;not null;index"                       json:"event_id"`
	Type           string `gorm:"type:varchar(50);not null"                      json:"type"`
	Plate          string `gorm:"type:varchar(20);not null"                      json:"plate"`
	Qty            int    `gorm:"type:smallint;not null;default:1"               json:"qty"`
	BaseModel
}

// TableName sets the table name.
func (VehicleEntry) TableName() string { return "vehicle_entries" }

// licenseRequirements is the binding vehicle type → minimum license grade
// table. Heavy vehicles, buses and pumps require grade 3 or 4.
var licenseRequirements = map[string]int{
	"M.PES.":        4,
	"MEZZO PESANTE": 4,
	"AS":            3,
	"ABP":           3,
	"APS":           3,
	"BUS":           3,
}

// RequiredLicenseGrade returns the minimum license grade for a vehicle
// type, or 0 when the type carries no requirement. Lookup is
// case-insensitive.
func RequiredLicenseGrade(vehicleType string) int {
	return licenseRequirements[strings.ToUpper(vehicleType)]
}

// PersonnelRequirement is a (role, qty) need on an event — maps to
// personnel_requirements. Exactly Qty slots exist per requirement; slot
// records replace the four parallel arrays of the original data model so
// the length==qty invariant holds by construction.
type PersonnelRequirement struct {
	RequirementID   string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"requirement_id"`
	EventID         string      `gorm:"type:uuid;not null;index"                       json:"event_id"`
	Role            string      `gorm:"type:varchar(10);not null"                      json:"role"` // DIR | CP | VIG | ALTRO
	Qty             int         `gorm:"type:smallint;not null"                         json:"qty"`
	Specializations StringArray `gorm:"type:text[]"                                    json:"specializations,omitempty"`
	BaseModel

	Slots []RequirementSlot `gorm:"foreignKey:RequirementID" json:"slots,omitempty"`
}

// TableName sets the table name.
func (PersonnelRequirement) TableName() string { return "personnel_requirements" }

// RequirementSlot is one seat of a requirement — maps to requirement_slots.
//
// State machine per seat:
//
//	vacant unowned  (EntrustedGroup nil, owner = priority chain head)
//	vacant entrusted(EntrustedGroup set)
//	filled          (AssignedID set, AssignedByGroup records the filler)
//
// AssignedByGroup authorizes later removal: only the group that performed
// the fill may clear it. EntrustedByGroup records hand-off provenance.
type RequirementSlot struct {
	SlotID           string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"slot_id"`
	RequirementID    string  `gorm:"type:uuid;not null;index"                       json:"requirement_id"`
	SlotIndex        int     `gorm:"type:smallint;not null"                         json:"slot_index"`
	AssignedID       *string `gorm:"type:uuid"                                      json:"assigned_id,omitempty"`
	EntrustedGroup   *string `gorm:"type:varchar(10)"                               json:"entrusted_group,omitempty"`
	AssignedByGroup  *string `gorm:"type:varchar(10)"                               json:"assigned_by_group,omitempty"`
	EntrustedByGroup *string `gorm:"type:varchar(10)"                               json:"entrusted_by_group,omitempty"`
	BaseModel
}

// TableName sets the table name.
func (RequirementSlot) TableName() string { return "requirement_slots" }

// Filled reports whether the seat has an operator.
func (s *RequirementSlot) Filled() bool { return s.AssignedID != nil }

// DayApproval is the per-date lock flag — maps to day_approvals.
// While approved, every mutation on that date's events is a read-only
// no-op and statuses are forced to APPROVATO.
type DayApproval struct {
	DayApprovalID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"day_approval_id"`
	Date          time.Time `gorm:"type:date;not null;uniqueIndex"                 json:"date"`
	Approved      bool      `gorm:"not null;default:false"                         json:"approved"`
	ApprovedBy    *string   `gorm:"type:uuid"                                      json:"approved_by,omitempty"`
	BaseModel
}

// TableName sets the table name.
func (DayApproval) TableName() string { return "day_approvals" }
