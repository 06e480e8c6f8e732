package ledger

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/fyulita/FairKeep/internal/split"
)

// ErrNothingToSettle is returned when settle-up is requested for a pair whose
// balance is already zero.
var ErrNothingToSettle = errors.New("nothing to settle: the balance is already zero")

// SettlementRecord is the zeroing transaction for one (counterparty, currency)
// pair. It is persisted as a synthetic expense with method "settlement" so the
// balance aggregator needs only one code path.
type SettlementRecord struct {
	PayerID     int64
	RecipientID int64
	Amount      decimal.Decimal
	Currency    string
	Splits      []split.Split
}

// BuildSettlement produces the record that zeroes the current balance between
// owner and counterparty in one currency. The direction is fixed by the sign
// of the balance at the moment of settlement: positive means the counterparty
// owes the owner and therefore pays. Settlement is not partial payment; it
// always clears the full outstanding amount for the pair in one action.
func BuildSettlement(ownerID, counterpartyID int64, currency string, balance decimal.Decimal) (*SettlementRecord, error) {
	if balance.IsZero() {
		return nil, ErrNothingToSettle
	}

	amount := balance.Abs().Round(2)
	payerID, recipientID := counterpartyID, ownerID
	if balance.IsNegative() {
		payerID, recipientID = ownerID, counterpartyID
	}

	return &SettlementRecord{
		PayerID:     payerID,
		RecipientID: recipientID,
		Amount:      amount,
		Currency:    currency,
		Splits: []split.Split{
			{UserID: payerID, OwedAmount: decimal.Zero, PaidAmount: amount, Value: decimal.Zero},
			{UserID: recipientID, OwedAmount: amount, PaidAmount: decimal.Zero, Value: decimal.Zero},
		},
	}, nil
}

// Entry converts a settlement record into the history entry the aggregator
// consumes, as it will appear once persisted.
func (r *SettlementRecord) Entry(expenseID int64) Entry {
	return Entry{
		ExpenseID: expenseID,
		Currency:  r.Currency,
		Amount:    r.Amount,
		PayerID:   r.PayerID,
		Splits:    r.Splits,
	}
}
