package split

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Method identifies how an expense is divided among its participants.
type Method string

const (
	MethodEqual      Method = "equal"
	MethodManual     Method = "manual"
	MethodPercentage Method = "percentage"
	MethodShares     Method = "shares"
	MethodExcess     Method = "excess"
	MethodFullOwed   Method = "full_owed"
	MethodFullOwe    Method = "full_owe"

	// MethodSettlement marks the synthetic zeroing expense appended by
	// settle-up. It is never produced by a strategy.
	MethodSettlement Method = "settlement"
)

// Split represents one participant's financial stake in an expense: how much
// they owe and how much they paid. Value keeps the raw method-specific input
// (percentage points, share count, manual amount, signed excess) so the
// method's intent can be reconstructed on edit.
type Split struct {
	UserID     int64           `json:"user"`
	OwedAmount decimal.Decimal `json:"owed_amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Value      decimal.Decimal `json:"value"`
}

// ValidationError reports bad or inconsistent split input. The message names
// the violated constraint and is safe to surface to the user verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Strategy is the interface that all split strategies implement. Calculate
// receives the expense amount, the participants in display order, the payer
// and the raw per-participant inputs, and returns one Split per participant.
type Strategy interface {
	// Calculate computes the split amounts for all participants
	Calculate(amount decimal.Decimal, participants []int64, payerID int64, values map[int64]string) ([]Split, error)

	// Method returns the method identifier for this strategy
	Method() Method
}

// Factory creates split strategies based on the requested method
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the appropriate strategy implementation for the method
func (f *Factory) Create(method Method) (Strategy, error) {
	switch method {
	case MethodEqual:
		return &EqualStrategy{}, nil
	case MethodManual:
		return &ManualStrategy{}, nil
	case MethodPercentage:
		return &PercentageStrategy{}, nil
	case MethodShares:
		return &SharesStrategy{}, nil
	case MethodExcess:
		return &ExcessStrategy{}, nil
	case MethodFullOwed:
		return &FullOwedStrategy{}, nil
	case MethodFullOwe:
		return &FullOweStrategy{}, nil
	default:
		return nil, validationErrorf("unknown split method: %s", method)
	}
}

// Compute turns (amount, participants, payer, method, raw inputs) into a
// validated list of splits covering every participant exactly once. It is the
// single entry point used by the expense service; the invariant
// sum(owed) == amount holds exactly for every method by construction, because
// the last relevant participant is always assigned the residual instead of an
// independently rounded share.
func Compute(amount decimal.Decimal, participants []int64, payerID int64, method Method, values map[int64]string) ([]Split, error) {
	if !amount.IsPositive() {
		return nil, validationErrorf("the expense amount must be greater than zero")
	}

	participants = dedupe(participants)
	if len(participants) == 0 {
		return nil, validationErrorf("at least one participant is required")
	}
	if !contains(participants, payerID) {
		return nil, validationErrorf("the payer must be one of the participants")
	}

	// Degenerate case: a personal expense has no counterparties, so method
	// rules are bypassed and the single split carries the whole amount.
	if len(participants) == 1 {
		return []Split{{
			UserID:     participants[0],
			OwedAmount: amount.Round(2),
			PaidAmount: amount.Round(2),
			Value:      decimal.Zero,
		}}, nil
	}

	strategy, err := NewFactory().Create(method)
	if err != nil {
		return nil, err
	}

	return strategy.Calculate(amount, participants, payerID, values)
}

// dedupe removes duplicate participant ids while preserving display order
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// paidAmount returns the paid share for a participant. The payer is always
// singular, so they carry the full amount and everyone else carries zero.
func paidAmount(userID, payerID int64, amount decimal.Decimal) decimal.Decimal {
	if userID == payerID {
		return amount.Round(2)
	}
	return decimal.Zero
}

// parseValue parses a raw non-negative numeric input for a participant.
// A missing entry defaults to zero, matching the form's initial state.
func parseValue(values map[int64]string, userID int64) (decimal.Decimal, error) {
	raw, ok := values[userID]
	if !ok || raw == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, validationErrorf("invalid value %q for participant %d", raw, userID)
	}
	if v.IsNegative() {
		return decimal.Zero, validationErrorf("value for participant %d cannot be negative", userID)
	}
	return v, nil
}

// parseSignedValue parses a raw signed numeric input (excess adjustments)
func parseSignedValue(values map[int64]string, userID int64) (decimal.Decimal, error) {
	raw, ok := values[userID]
	if !ok || raw == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, validationErrorf("invalid value %q for participant %d", raw, userID)
	}
	return v, nil
}
