package dto

// ── staff DTOs ──

// OperatorListRequest staff list query parameters.
type OperatorListRequest struct {
	Group         string `form:"group"         binding:"omitempty,oneof=A B C D EXTRA"`
	Qualification string `form:"qualification" binding:"omitempty,oneof=DIR CP VIG ALTRO"`
	Available     *bool  `form:"available"`
	Keyword       string `form:"keyword"       binding:"omitempty,max=50"`
	PaginationRequest
}

// MarkUnavailableRequest takes an operator off duty for a date range.
type MarkUnavailableRequest struct {
	Reason string `json:"reason" binding:"required,min=2,max=100"`
	From   string `json:"from"   binding:"required,datetime=2006-01-02"`
	Until  string `json:"until"  binding:"required,datetime=2006-01-02"`
}

// ── responses ──

// OperatorResponse one operator with computed workload.
type OperatorResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Rank            string   `json:"rank"`
	Qualification   string   `json:"qualification"`
	Group           string   `json:"group"`
	Subgroup        string   `json:"subgroup"`
	Available       bool     `json:"available"`
	StatusMessage   string   `json:"status_message,omitempty"`
	BaseHours       float64  `json:"base_hours"`
	CumulativeHours float64  `json:"cumulative_hours"`
	LicenseGrade    string   `json:"license_grade"`
	Specializations []string `json:"specializations,omitempty"`
	Station         string   `json:"station"`
}

// OperatorListResponse staff list with total count.
type OperatorListResponse struct {
	Total int64              `json:"total"`
	Items []OperatorResponse `json:"items"`
}
