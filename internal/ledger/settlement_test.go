package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopspring/decimal"
)

func TestBuildSettlementDirection(t *testing.T) {
	t.Run("counterparty owes owner", func(t *testing.T) {
		rec, err := BuildSettlement(1, 2, "USD", dec("40.00"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), rec.PayerID)
		assert.Equal(t, int64(1), rec.RecipientID)
		assert.True(t, rec.Amount.Equal(dec("40.00")))
	})

	t.Run("owner owes counterparty", func(t *testing.T) {
		rec, err := BuildSettlement(1, 2, "USD", dec("-15.50"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), rec.PayerID)
		assert.Equal(t, int64(2), rec.RecipientID)
		assert.True(t, rec.Amount.Equal(dec("15.50")))
	})
}

func TestBuildSettlementZeroBalance(t *testing.T) {
	_, err := BuildSettlement(1, 2, "USD", decimal.Zero)
	require.ErrorIs(t, err, ErrNothingToSettle)
}

func TestSettlementZeroesTheBalance(t *testing.T) {
	history := []Entry{
		expense(1, 1, "120.00", "USD", map[int64]string{1: "40.00", 2: "40.00", 3: "40.00"}),
		expense(2, 2, "30.00", "USD", map[int64]string{1: "15.00", 2: "15.00"}),
	}

	before, _ := AggregateBalances(history, 1)
	balance := before[PairKey{UserID: 2, Currency: "USD"}]
	require.True(t, balance.Equal(dec("25.00")))

	rec, err := BuildSettlement(1, 2, "USD", balance)
	require.NoError(t, err)

	after, malformed := AggregateBalances(append(history, rec.Entry(3)), 1)
	require.Empty(t, malformed)
	requireBalance(t, after, 2, "USD", "0.00")
}

func TestSettlementLeavesOtherPairsUntouched(t *testing.T) {
	history := []Entry{
		expense(1, 1, "120.00", "USD", map[int64]string{1: "40.00", 2: "40.00", 3: "40.00"}),
		expense(2, 1, "100.00", "EUR", map[int64]string{1: "50.00", 2: "50.00"}),
	}

	before, _ := AggregateBalances(history, 1)
	rec, err := BuildSettlement(1, 2, "USD", before[PairKey{UserID: 2, Currency: "USD"}])
	require.NoError(t, err)

	after, _ := AggregateBalances(append(history, rec.Entry(3)), 1)

	requireBalance(t, after, 2, "USD", "0.00")
	requireBalance(t, after, 2, "EUR", "50.00")
	requireBalance(t, after, 3, "USD", "40.00")
}

func TestSettlementFromBothPerspectives(t *testing.T) {
	history := []Entry{
		expense(1, 2, "80.00", "USD", map[int64]string{1: "40.00", 2: "40.00"}),
	}

	forA, _ := AggregateBalances(history, 1)
	rec, err := BuildSettlement(1, 2, "USD", forA[PairKey{UserID: 2, Currency: "USD"}])
	require.NoError(t, err)

	// owner owed 40, so the owner pays
	assert.Equal(t, int64(1), rec.PayerID)

	settled := append(history, rec.Entry(2))
	afterA, _ := AggregateBalances(settled, 1)
	afterB, _ := AggregateBalances(settled, 2)
	requireBalance(t, afterA, 2, "USD", "0.00")
	requireBalance(t, afterB, 1, "USD", "0.00")
}

func TestSettlementRecordIsWellFormed(t *testing.T) {
	rec, err := BuildSettlement(5, 9, "ARS", dec("123.45"))
	require.NoError(t, err)

	entry := rec.Entry(1)
	_, malformed := AggregateBalances([]Entry{entry}, 5)
	assert.Empty(t, malformed, "a settlement must satisfy the same invariants as any expense")
}
