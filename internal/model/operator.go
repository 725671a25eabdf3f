package model

import "time"

// Operator qualifications (the role a requirement asks for).
const (
	QualificationDIR   = "DIR"   // dirigente
	QualificationCP    = "CP"    // capo postazione
	QualificationVIG   = "VIG"   // vigile
	QualificationALTRO = "ALTRO" // specialists
)

// GroupExtra marks operators outside the four rotation groups; they are
// selectable on any day regardless of the eligibility pools.
const GroupExtra = "EXTRA"

// Operator is the personnel reference table — maps to operators.
// Seeded as static reference data; availability is the only field staff
// management mutates, and operators are never deleted.
type Operator struct {
	OperatorID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"operator_id"`
	Name          string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Rank          string  `gorm:"type:varchar(50);not null"                      json:"rank"`
	Qualification string  `gorm:"type:varchar(10);not null"                      json:"qualification"` // DIR | CP | VIG | ALTRO
	Group         string  `gorm:"type:varchar(10);not null"                      json:"group"`         // A | B | C | D | EXTRA
	Subgroup      string  `gorm:"type:varchar(10);not null"                      json:"subgroup"`      // A1..D8, or free-form for EXTRA
	Available     bool    `gorm:"not null;default:true"                          json:"available"`
	StatusMessage *string `gorm:"type:varchar(200)"                              json:"status_message,omitempty"`
	// Unavailability window; availability auto-reverts once End passes today.
	UnavailableFrom  *time.Time  `gorm:"type:date" json:"unavailable_from,omitempty"`
	UnavailableUntil *time.Time  `gorm:"type:date" json:"unavailable_until,omitempty"`
	BaseHours        float64     `gorm:"not null;default:0"          json:"base_hours"`
	LicenseGrade     string      `gorm:"type:varchar(20);not null"   json:"license_grade"` // "1".."4", "3 LIM.", ...
	Specializations  StringArray `gorm:"type:text[]"                 json:"specializations,omitempty"`
	Station          string      `gorm:"type:varchar(100);not null"  json:"station"`
	VersionedModel
}

// TableName sets the table name.
func (Operator) TableName() string { return "operators" }

// User is a login account — maps to users.
// The original static credential table becomes seeded rows here.
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null"                      json:"role"`  // REDATTORE | APPROVATORE | COMPILATORE
	Group        string `gorm:"type:varchar(10)"                               json:"group"` // A-D for compilers, empty otherwise
	VersionedModel
}

// TableName sets the table name.
func (User) TableName() string { return "users" }

// Account roles.
const (
	RoleRedattore   = "REDATTORE"
	RoleApprovatore = "APPROVATORE"
	RoleCompilatore = "COMPILATORE"
)
