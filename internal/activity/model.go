package activity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Action describes what happened to an expense
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
	ActionSettled Action = "settled"
)

// Activity is one append-only audit entry. The expense fields are a snapshot
// taken when the entry was written, so the feed stays meaningful after the
// expense itself is edited or deleted.
type Activity struct {
	ID            int64           `json:"id"`
	ExpenseID     *int64          `json:"expense_id,omitempty"`
	ActorID       *int64          `json:"actor_id,omitempty"`
	Action        Action          `json:"action"`
	ExpenseName   string          `json:"expense_name"`
	ExpenseAmount decimal.Decimal `json:"expense_amount"`
	Currency      string          `json:"currency"`
	SplitMethod   string          `json:"split_method"`
	ExpenseDate   *time.Time      `json:"expense_date,omitempty"`
	InvolvedIDs   []int64         `json:"involved_ids,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`

	// Populated via JOIN
	ActorUsername string `json:"actor_username,omitempty"`
}
