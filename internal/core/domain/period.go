package domain

import "time"

// AccountingPeriod is the period authority's view of a calendar range. This
// core only ever reads periods; opening and closing them belongs to the
// period-administration module.
type AccountingPeriod struct {
	PeriodID  string    `json:"periodID"`  // Primary Key (e.g., UUID)
	Name      string    `json:"name"`      // e.g., "2026-01"
	StartDate time.Time `json:"startDate"` // Inclusive
	EndDate   time.Time `json:"endDate"`   // Inclusive
	IsOpen    bool      `json:"isOpen"`    // Whether GL activity is permitted inside the range
}
