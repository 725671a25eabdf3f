package dto

// ── assignment DTOs ──

// AssignRequest fills one seat with an operator.
type AssignRequest struct {
	OperatorID string `json:"operator_id" binding:"required,uuid"`
}

// ── responses ──

// CandidateResponse one selectable operator for a seat, ordered by pool
// tier then cumulative hours.
type CandidateResponse struct {
	Operator OperatorResponse `json:"operator"`
	PoolTier int              `json:"pool_tier"` // 1 standard, 2 extra recall, 3 other
}

// CandidateListResponse candidates for one seat.
type CandidateListResponse struct {
	EventID       string              `json:"event_id"`
	RequirementID string              `json:"requirement_id"`
	SlotIndex     int                 `json:"slot_index"`
	Candidates    []CandidateResponse `json:"candidates"`
}
