package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyulita/FairKeep/internal/split"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// expense builds a history entry from (payer, amount, currency) and a set of
// owed shares; the payer's split carries the full paid amount.
func expense(id, payerID int64, amount, currency string, owed map[int64]string) Entry {
	amt := dec(amount)
	entry := Entry{ExpenseID: id, Currency: currency, Amount: amt, PayerID: payerID}
	for userID, share := range owed {
		paid := decimal.Zero
		if userID == payerID {
			paid = amt
		}
		entry.Splits = append(entry.Splits, split.Split{
			UserID:     userID,
			OwedAmount: dec(share),
			PaidAmount: paid,
		})
	}
	return entry
}

func requireBalance(t *testing.T, balances map[PairKey]decimal.Decimal, userID int64, currency, want string) {
	t.Helper()
	got, ok := balances[PairKey{UserID: userID, Currency: currency}]
	require.True(t, ok, "no balance entry for user %d in %s", userID, currency)
	assert.True(t, got.Equal(dec(want)), "balance with user %d: got %s, want %s", userID, got, want)
}

func TestAggregateBalancesEqualExpense(t *testing.T) {
	// amount=120.00 USD, participants A=1 B=2 C=3, equal, payer A
	history := []Entry{
		expense(1, 1, "120.00", "USD", map[int64]string{1: "40.00", 2: "40.00", 3: "40.00"}),
	}

	balances, malformed := AggregateBalances(history, 1)
	require.Empty(t, malformed)
	requireBalance(t, balances, 2, "USD", "40.00")
	requireBalance(t, balances, 3, "USD", "40.00")
}

func TestAggregateBalancesAntisymmetry(t *testing.T) {
	history := []Entry{
		expense(1, 1, "120.00", "USD", map[int64]string{1: "40.00", 2: "40.00", 3: "40.00"}),
		expense(2, 2, "30.00", "USD", map[int64]string{1: "15.00", 2: "15.00"}),
		expense(3, 3, "99.99", "EUR", map[int64]string{1: "33.33", 2: "33.33", 3: "33.33"}),
	}

	forA, _ := AggregateBalances(history, 1)
	forB, _ := AggregateBalances(history, 2)

	aWithB := forA[PairKey{UserID: 2, Currency: "USD"}]
	bWithA := forB[PairKey{UserID: 1, Currency: "USD"}]
	assert.True(t, aWithB.Equal(bWithA.Neg()), "balance(A,B) = %s, balance(B,A) = %s", aWithB, bWithA)

	aWithBEur := forA[PairKey{UserID: 2, Currency: "EUR"}]
	bWithAEur := forB[PairKey{UserID: 1, Currency: "EUR"}]
	assert.True(t, aWithBEur.Equal(bWithAEur.Neg()))
}

func TestAggregateBalancesIdempotent(t *testing.T) {
	history := []Entry{
		expense(1, 1, "120.00", "USD", map[int64]string{1: "40.00", 2: "40.00", 3: "40.00"}),
		expense(2, 2, "30.00", "USD", map[int64]string{1: "15.00", 2: "15.00"}),
	}

	first, _ := AggregateBalances(history, 1)
	second, _ := AggregateBalances(history, 1)

	require.Equal(t, len(first), len(second))
	for key, v := range first {
		assert.True(t, v.Equal(second[key]), "pair %v diverged between runs", key)
	}
}

func TestAggregateBalancesOrderIndependent(t *testing.T) {
	a := expense(1, 1, "120.00", "USD", map[int64]string{1: "40.00", 2: "40.00", 3: "40.00"})
	b := expense(2, 2, "30.00", "USD", map[int64]string{1: "15.00", 2: "15.00"})
	c := expense(3, 3, "60.00", "USD", map[int64]string{1: "20.00", 2: "20.00", 3: "20.00"})

	forward, _ := AggregateBalances([]Entry{a, b, c}, 1)
	reversed, _ := AggregateBalances([]Entry{c, b, a}, 1)

	require.Equal(t, len(forward), len(reversed))
	for key, v := range forward {
		assert.True(t, v.Equal(reversed[key]))
	}
}

func TestAggregateBalancesCurrenciesAreIndependent(t *testing.T) {
	history := []Entry{
		expense(1, 1, "100.00", "USD", map[int64]string{1: "50.00", 2: "50.00"}),
		expense(2, 2, "100.00", "EUR", map[int64]string{1: "50.00", 2: "50.00"}),
	}

	balances, _ := AggregateBalances(history, 1)
	requireBalance(t, balances, 2, "USD", "50.00")
	requireBalance(t, balances, 2, "EUR", "-50.00")
}

func TestAggregateBalancesThirdPartyPayer(t *testing.T) {
	// user 3 paid; users 1 and 2 each owe user 3, but nothing accrues
	// between 1 and 2
	history := []Entry{
		expense(1, 3, "90.00", "USD", map[int64]string{1: "30.00", 2: "30.00", 3: "30.00"}),
	}

	balances, _ := AggregateBalances(history, 1)
	requireBalance(t, balances, 3, "USD", "-30.00")
	_, ok := balances[PairKey{UserID: 2, Currency: "USD"}]
	assert.False(t, ok, "no balance entry should exist between two non-payers")
}

func TestAggregateBalancesSettledVersusNoHistory(t *testing.T) {
	// mutual expenses cancel out exactly: the pair stays reportable as
	// settled (zero entry), unlike a pair that never shared an expense
	history := []Entry{
		expense(1, 1, "50.00", "USD", map[int64]string{1: "25.00", 2: "25.00"}),
		expense(2, 2, "50.00", "USD", map[int64]string{1: "25.00", 2: "25.00"}),
	}

	balances, _ := AggregateBalances(history, 1)
	requireBalance(t, balances, 2, "USD", "0.00")
	_, ok := balances[PairKey{UserID: 99, Currency: "USD"}]
	assert.False(t, ok)
}

func TestAggregateBalancesExcludesMalformedExpense(t *testing.T) {
	bad := expense(7, 1, "100.00", "USD", map[int64]string{1: "40.00", 2: "40.00"}) // owed sums to 80
	good := expense(8, 1, "50.00", "USD", map[int64]string{1: "25.00", 2: "25.00"})

	balances, malformed := AggregateBalances([]Entry{bad, good}, 1)

	require.Len(t, malformed, 1)
	assert.Equal(t, int64(7), malformed[0].ExpenseID)
	requireBalance(t, balances, 2, "USD", "25.00")
}

func TestAggregateBalancesDuplicateSplitRowsAreMerged(t *testing.T) {
	entry := Entry{
		ExpenseID: 1,
		Currency:  "USD",
		Amount:    dec("60.00"),
		PayerID:   1,
		Splits: []split.Split{
			{UserID: 1, OwedAmount: dec("30.00"), PaidAmount: dec("60.00")},
			{UserID: 2, OwedAmount: dec("20.00"), PaidAmount: decimal.Zero},
			{UserID: 2, OwedAmount: dec("10.00"), PaidAmount: decimal.Zero},
		},
	}

	balances, malformed := AggregateBalances([]Entry{entry}, 1)
	require.Empty(t, malformed)
	requireBalance(t, balances, 2, "USD", "30.00")
}

func TestAggregateBalancesUnknownParticipantStillCounts(t *testing.T) {
	// balances are keyed by id, not resolved display data: an id missing
	// from the user directory still accrues
	history := []Entry{
		expense(1, 1, "80.00", "USD", map[int64]string{1: "40.00", 424242: "40.00"}),
	}

	balances, _ := AggregateBalances(history, 1)
	requireBalance(t, balances, 424242, "USD", "40.00")
}
