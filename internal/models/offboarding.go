package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OffboardingRecord is an exit submission. It shares only the employee code
// string with onboarding records.
type OffboardingRecord struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	EmpID        string          `json:"emp_id"`
	Position     string          `json:"position"`
	Department   string          `json:"department"`
	Feedback     *string         `json:"feedback"`
	FinalSalary  decimal.Decimal `json:"final_salary"`
	Bonus        decimal.Decimal `json:"bonus"`
	Acknowledged bool            `json:"acknowledged"`
	Status       Status          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}
