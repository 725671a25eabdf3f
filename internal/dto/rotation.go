package dto

// ── rotation DTOs ──

// RotationDayRequest single-day rotation lookup. Seed overrides are for
// what-if queries; defaults come from configuration.
type RotationDayRequest struct {
	Date     string `form:"date"      binding:"required,datetime=2006-01-02"`
	SeedDate string `form:"seed_date" binding:"omitempty,datetime=2006-01-02"`
	SeedCode string `form:"seed_code" binding:"omitempty,len=2"`
}

// RotationProjectionRequest multi-day rotation projection.
type RotationProjectionRequest struct {
	From     string `form:"from"      binding:"required,datetime=2006-01-02"`
	Days     int    `form:"days"      binding:"omitempty,min=1,max=120"`
	SeedDate string `form:"seed_date" binding:"omitempty,datetime=2006-01-02"`
	SeedCode string `form:"seed_code" binding:"omitempty,len=2"`
}

// ── responses ──

// RotationDayResponse the rotation state of one date.
type RotationDayResponse struct {
	Date          string   `json:"date"`
	DayCode       string   `json:"day_code"`
	NightCode     string   `json:"night_code"`
	StandardPool  []string `json:"standard_pool"`
	ExtraPool     []string `json:"extra_pool"`
	PriorityChain []string `json:"priority_chain"`
}

// RotationProjectionResponse consecutive rotation days.
type RotationProjectionResponse struct {
	From     string                `json:"from"`
	Days     int                   `json:"days"`
	SeedDate string                `json:"seed_date"`
	SeedCode string                `json:"seed_code"`
	Items    []RotationDayResponse `json:"items"`
}
