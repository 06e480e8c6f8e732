package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fyulita/FairKeep/internal/split"
)

// Currencies is the fixed set of supported ISO 4217 codes. Balances never
// cross currencies, so the set is closed rather than open-ended.
var Currencies = []string{
	"ARS", "UYU", "CLP", "MXN", "BRL", "USD",
	"EUR", "GBP", "JPY", "PYG", "AUD", "KRW",
}

// Categories is the fixed set of expense categories.
var Categories = []string{
	"Home Supplies", "Food", "Transport", "Entertainment",
	"Periodic Expenses", "Health", "Other",
}

// ValidCurrency reports whether c is one of the supported currency codes
func ValidCurrency(c string) bool {
	for _, v := range Currencies {
		if v == c {
			return true
		}
	}
	return false
}

// ValidCategory reports whether c is one of the known categories
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Expense represents an expense in the system
type Expense struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	ExpenseDate time.Time       `json:"expense_date"`
	SplitMethod split.Method    `json:"split_method"`
	PaidBy      int64           `json:"paid_by"`
	AddedBy     int64           `json:"added_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Populated via JOIN
	PayerUsername string `json:"payer_username,omitempty"`
}

// ExpenseSplit is one participant's persisted stake in an expense. Value
// keeps the raw method input (percentage, share count, manual amount, signed
// excess) so the edit form can be reconstructed.
type ExpenseSplit struct {
	ID         int64           `json:"id"`
	ExpenseID  int64           `json:"expense_id"`
	UserID     int64           `json:"user_id"`
	OwedAmount decimal.Decimal `json:"owed_amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Value      decimal.Decimal `json:"value"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}

// ExpenseWithSplits combines an expense with its splits
type ExpenseWithSplits struct {
	Expense *Expense
	Splits  []*ExpenseSplit
}
