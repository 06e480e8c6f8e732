// Package ledger derives per-currency pairwise balances from expense history
// and builds the zeroing settlement records consumed by settle-up. Everything
// here is pure: callers pass explicit history snapshots and the functions hold
// no state, so they are safe to invoke repeatedly and concurrently.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fyulita/FairKeep/internal/split"
)

// Entry is an expense with the minimal information needed for balance
// calculations.
type Entry struct {
	ExpenseID int64
	Currency  string
	Amount    decimal.Decimal
	PayerID   int64
	Splits    []split.Split
}

// PairKey identifies one (counterparty, currency) balance bucket. Balances in
// different currencies are tracked independently and never converted or
// summed across currencies.
type PairKey struct {
	UserID   int64
	Currency string
}

// MalformedExpenseError reports a persisted expense whose splits violate the
// core invariants (owed or paid amounts not summing to the expense amount).
// Such an expense is excluded from balance math and reported, so one corrupt
// record cannot poison the rest of the ledger view.
type MalformedExpenseError struct {
	ExpenseID int64
	Reason    string
}

func (e *MalformedExpenseError) Error() string {
	return fmt.Sprintf("malformed expense %d: %s", e.ExpenseID, e.Reason)
}

// pairTotals is one participant's normalized stake in a single expense,
// with duplicate split rows for the same user summed together.
type pairTotals struct {
	owed decimal.Decimal
	paid decimal.Decimal
}

// AggregateBalances computes the signed net balance between owner and every
// co-participant, per currency. Positive means the counterparty owes the
// owner; negative means the owner owes the counterparty. The result depends
// only on the set of entries, not their order, and re-running over the same
// history yields identical balances.
//
// A pair touched by history keeps its map entry even when the balance nets
// out to zero ("settled"), while a pair with no shared history has no entry
// at all.
func AggregateBalances(entries []Entry, ownerID int64) (map[PairKey]decimal.Decimal, []*MalformedExpenseError) {
	balances := make(map[PairKey]decimal.Decimal)
	var malformed []*MalformedExpenseError

	for _, entry := range entries {
		totals, err := normalize(entry)
		if err != nil {
			malformed = append(malformed, err)
			continue
		}

		if entry.PayerID == ownerID {
			// every co-participant owes the owner their share
			for userID, t := range totals {
				if userID == ownerID {
					continue
				}
				key := PairKey{UserID: userID, Currency: entry.Currency}
				balances[key] = balances[key].Add(t.owed)
			}
		} else if mine, ok := totals[ownerID]; ok {
			// the owner owes their share to whoever paid; a third-party
			// payer creates no debt between the owner and other non-payers
			key := PairKey{UserID: entry.PayerID, Currency: entry.Currency}
			balances[key] = balances[key].Sub(mine.owed)
		}
	}

	return balances, malformed
}

// normalize groups an entry's splits by user and checks the sum invariants.
func normalize(entry Entry) (map[int64]pairTotals, *MalformedExpenseError) {
	totals := make(map[int64]pairTotals, len(entry.Splits))
	totalOwed := decimal.Zero
	totalPaid := decimal.Zero

	for _, s := range entry.Splits {
		t := totals[s.UserID]
		t.owed = t.owed.Add(s.OwedAmount)
		t.paid = t.paid.Add(s.PaidAmount)
		totals[s.UserID] = t
		totalOwed = totalOwed.Add(s.OwedAmount)
		totalPaid = totalPaid.Add(s.PaidAmount)
	}

	if !totalOwed.Equal(entry.Amount) {
		return nil, &MalformedExpenseError{
			ExpenseID: entry.ExpenseID,
			Reason:    fmt.Sprintf("owed amounts sum to %s, expense amount is %s", totalOwed, entry.Amount),
		}
	}
	if !totalPaid.Equal(entry.Amount) {
		return nil, &MalformedExpenseError{
			ExpenseID: entry.ExpenseID,
			Reason:    fmt.Sprintf("paid amounts sum to %s, expense amount is %s", totalPaid, entry.Amount),
		}
	}
	if _, ok := totals[entry.PayerID]; !ok {
		return nil, &MalformedExpenseError{
			ExpenseID: entry.ExpenseID,
			Reason:    "payer is not a participant",
		}
	}

	return totals, nil
}
