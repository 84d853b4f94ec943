package worker

import (
	"time"

	"github.com/shopspring/decimal"
)

// Worker is a field worker who can be assigned to work orders and paid
// through the monthly ledger. DailyRate seeds new contributions when no
// explicit rate is given.
type Worker struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	FullName  string          `json:"full_name"`
	DailyRate decimal.Decimal `json:"daily_rate"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
