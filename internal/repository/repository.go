package repository

import "gorm.io/gorm"

// Repository aggregates every data-access interface.
type Repository struct {
	User        UserRepository
	Operator    OperatorRepository
	Event       EventRepository
	DayApproval DayApprovalRepository
}

// NewRepository wires the GORM implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:        NewUserRepo(db),
		Operator:    NewOperatorRepo(db),
		Event:       NewEventRepo(db),
		DayApproval: NewDayApprovalRepo(db),
	}
}
