package settlement

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the net position with one counterparty in one currency, from
// the owner's perspective. Positive means the counterparty owes the owner.
type Balance struct {
	UserID   int64           `json:"user_id"`
	Username string          `json:"username"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// Settlement describes the settlement expense appended by settle-up.
type Settlement struct {
	ExpenseID   int64           `json:"expense_id"`
	PayerID     int64           `json:"payer_id"`
	RecipientID int64           `json:"recipient_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	CreatedAt   time.Time       `json:"created_at"`
}
