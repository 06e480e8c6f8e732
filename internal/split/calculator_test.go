package split

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// sumOwed adds up the owed amounts of a split set.
func sumOwed(splits []Split) decimal.Decimal {
	total := decimal.Zero
	for _, s := range splits {
		total = total.Add(s.OwedAmount)
	}
	return total
}

func sumPaid(splits []Split) decimal.Decimal {
	total := decimal.Zero
	for _, s := range splits {
		total = total.Add(s.PaidAmount)
	}
	return total
}

func owedByUser(t *testing.T, splits []Split, userID int64) decimal.Decimal {
	t.Helper()
	for _, s := range splits {
		if s.UserID == userID {
			return s.OwedAmount
		}
	}
	t.Fatalf("no split for user %d", userID)
	return decimal.Zero
}

func TestEqualSplit(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		participants []int64
		wantOwed     []string
	}{
		{"exact division", "120.00", []int64{1, 2, 3}, []string{"40.00", "40.00", "40.00"}},
		{"last absorbs residual", "100.00", []int64{1, 2, 3}, []string{"33.33", "33.33", "33.34"}},
		{"two participants", "0.01", []int64{1, 2}, []string{"0.01", "0.00"}},
		{"residual can be negative-adjusted", "100.00", []int64{1, 2, 3, 4, 5, 6}, []string{"16.67", "16.67", "16.67", "16.67", "16.67", "16.65"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := Compute(dec(tt.amount), tt.participants, tt.participants[0], MethodEqual, nil)
			require.NoError(t, err)
			require.Len(t, splits, len(tt.participants))

			for i, want := range tt.wantOwed {
				assert.True(t, splits[i].OwedAmount.Equal(dec(want)),
					"participant %d: owed %s, want %s", i, splits[i].OwedAmount, want)
			}
			assert.True(t, sumOwed(splits).Equal(dec(tt.amount)), "owed sum %s != amount", sumOwed(splits))
			assert.True(t, sumPaid(splits).Equal(dec(tt.amount)), "paid sum %s != amount", sumPaid(splits))
		})
	}
}

func TestEqualSplitPayerCarriesFullPaidAmount(t *testing.T) {
	splits, err := Compute(dec("120.00"), []int64{1, 2, 3}, 1, MethodEqual, nil)
	require.NoError(t, err)

	require.Len(t, splits, 3)
	assert.True(t, splits[0].PaidAmount.Equal(dec("120.00")))
	assert.True(t, splits[1].PaidAmount.IsZero())
	assert.True(t, splits[2].PaidAmount.IsZero())
}

func TestManualSplitBalancer(t *testing.T) {
	values := map[int64]string{1: "30.00", 2: "15.50"}

	splits, err := Compute(dec("50.00"), []int64{1, 2, 3}, 1, MethodManual, values)
	require.NoError(t, err)

	assert.True(t, owedByUser(t, splits, 1).Equal(dec("30.00")))
	assert.True(t, owedByUser(t, splits, 2).Equal(dec("15.50")))
	assert.True(t, owedByUser(t, splits, 3).Equal(dec("4.50")), "balancer owes amount minus the others")
	assert.True(t, sumOwed(splits).Equal(dec("50.00")))
}

func TestManualSplitBalancerClampedToZero(t *testing.T) {
	// others already cover the full amount: the balancer owes nothing and the
	// submission gate decides whether the combination is acceptable
	values := map[int64]string{1: "40.00", 2: "10.00"}

	splits, err := Compute(dec("50.00"), []int64{1, 2, 3}, 1, MethodManual, values)
	require.NoError(t, err)
	assert.True(t, owedByUser(t, splits, 3).IsZero())
}

func TestManualSplitIgnoresBalancerInput(t *testing.T) {
	values := map[int64]string{1: "20.00", 2: "99.99"}

	splits, err := Compute(dec("50.00"), []int64{1, 2}, 1, MethodManual, values)
	require.NoError(t, err)
	assert.True(t, owedByUser(t, splits, 2).Equal(dec("30.00")), "balancer is recomputed, not taken from input")
}

func TestPercentageSplit(t *testing.T) {
	values := map[int64]string{1: "50", 2: "25"}

	splits, err := Compute(dec("200.00"), []int64{1, 2, 3}, 2, MethodPercentage, values)
	require.NoError(t, err)

	assert.True(t, owedByUser(t, splits, 1).Equal(dec("100.00")))
	assert.True(t, owedByUser(t, splits, 2).Equal(dec("50.00")))
	assert.True(t, owedByUser(t, splits, 3).Equal(dec("50.00")))
	assert.True(t, splits[2].Value.Equal(dec("25")), "balancer percentage is the remainder against 100")
	assert.True(t, sumOwed(splits).Equal(dec("200.00")))
}

func TestPercentageSplitBalancerAbsorbsRounding(t *testing.T) {
	// 33.33% of 100.00 twice leaves 33.34 for the balancer
	values := map[int64]string{1: "33.33", 2: "33.33"}

	splits, err := Compute(dec("100.00"), []int64{1, 2, 3}, 1, MethodPercentage, values)
	require.NoError(t, err)

	assert.True(t, owedByUser(t, splits, 1).Equal(dec("33.33")))
	assert.True(t, owedByUser(t, splits, 2).Equal(dec("33.33")))
	assert.True(t, owedByUser(t, splits, 3).Equal(dec("33.34")))
	assert.True(t, sumOwed(splits).Equal(dec("100.00")))
}

func TestSharesSplit(t *testing.T) {
	values := map[int64]string{1: "1", 2: "1", 3: "2"}

	splits, err := Compute(dec("100.00"), []int64{1, 2, 3}, 1, MethodShares, values)
	require.NoError(t, err)

	assert.True(t, owedByUser(t, splits, 1).Equal(dec("25.00")))
	assert.True(t, owedByUser(t, splits, 2).Equal(dec("25.00")))
	assert.True(t, owedByUser(t, splits, 3).Equal(dec("50.00")))
}

func TestSharesSplitDefaultsToOneShare(t *testing.T) {
	splits, err := Compute(dec("90.00"), []int64{1, 2, 3}, 1, MethodShares, nil)
	require.NoError(t, err)

	for _, s := range splits {
		assert.True(t, s.OwedAmount.Equal(dec("30.00")))
		assert.True(t, s.Value.Equal(dec("1")))
	}
}

func TestSharesSplitRejectsInvalidShares(t *testing.T) {
	tests := []struct {
		name   string
		values map[int64]string
	}{
		{"fractional", map[int64]string{1: "1.5"}},
		{"zero", map[int64]string{1: "0"}},
		{"negative", map[int64]string{1: "-2"}},
		{"garbage", map[int64]string{1: "two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(dec("90.00"), []int64{1, 2}, 1, MethodShares, tt.values)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestExcessSplit(t *testing.T) {
	values := map[int64]string{1: "10.00", 2: "-10.00", 3: "0"}

	splits, err := Compute(dec("90.00"), []int64{1, 2, 3}, 1, MethodExcess, values)
	require.NoError(t, err)

	// equal base is (90 - 0) / 3 = 30.00
	assert.True(t, owedByUser(t, splits, 1).Equal(dec("40.00")))
	assert.True(t, owedByUser(t, splits, 2).Equal(dec("20.00")))
	assert.True(t, owedByUser(t, splits, 3).Equal(dec("30.00")))
	assert.True(t, sumOwed(splits).Equal(dec("90.00")))
}

func TestExcessSplitAggregateBound(t *testing.T) {
	values := map[int64]string{1: "80.00", 2: "30.00"}

	_, err := Compute(dec("100.00"), []int64{1, 2, 3}, 1, MethodExcess, values)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "excess")
}

func TestExcessSplitSingleValueMayExceedAmount(t *testing.T) {
	// only the aggregate is bounded
	values := map[int64]string{1: "150.00", 2: "-100.00"}

	splits, err := Compute(dec("100.00"), []int64{1, 2}, 1, MethodExcess, values)
	require.NoError(t, err)
	assert.True(t, sumOwed(splits).Equal(dec("100.00")))
}

func TestFullOwedSplit(t *testing.T) {
	splits, err := Compute(dec("100.00"), []int64{1, 2, 3}, 1, MethodFullOwed, nil)
	require.NoError(t, err)

	assert.True(t, owedByUser(t, splits, 1).IsZero(), "payer owes nothing")
	assert.True(t, owedByUser(t, splits, 2).Equal(dec("50.00")))
	assert.True(t, owedByUser(t, splits, 3).Equal(dec("50.00")))
	assert.True(t, sumOwed(splits).Equal(dec("100.00")))
}

func TestFullOweSplit(t *testing.T) {
	// the counterparty paid and the current user owes everything
	splits, err := Compute(dec("75.00"), []int64{1, 2}, 2, MethodFullOwe, nil)
	require.NoError(t, err)

	assert.True(t, owedByUser(t, splits, 1).Equal(dec("75.00")))
	assert.True(t, owedByUser(t, splits, 2).IsZero())
	assert.True(t, splits[1].PaidAmount.Equal(dec("75.00")))
}

func TestFullOwedRoundingResidual(t *testing.T) {
	splits, err := Compute(dec("100.00"), []int64{1, 2, 3, 4}, 1, MethodFullOwed, nil)
	require.NoError(t, err)

	assert.True(t, owedByUser(t, splits, 2).Equal(dec("33.33")))
	assert.True(t, owedByUser(t, splits, 3).Equal(dec("33.33")))
	assert.True(t, owedByUser(t, splits, 4).Equal(dec("33.34")))
}

func TestPersonalExpenseBypassesMethodRules(t *testing.T) {
	for _, method := range []Method{MethodEqual, MethodManual, MethodPercentage, MethodShares, MethodExcess} {
		splits, err := Compute(dec("42.50"), []int64{7}, 7, method, nil)
		require.NoError(t, err, "method %s", method)
		require.Len(t, splits, 1)
		assert.True(t, splits[0].OwedAmount.Equal(dec("42.50")))
		assert.True(t, splits[0].PaidAmount.Equal(dec("42.50")))
	}
}

func TestComputeInputValidation(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		participants []int64
		payerID      int64
		method       Method
		values       map[int64]string
	}{
		{"zero amount", "0", []int64{1, 2}, 1, MethodEqual, nil},
		{"negative amount", "-10.00", []int64{1, 2}, 1, MethodEqual, nil},
		{"no participants", "10.00", nil, 1, MethodEqual, nil},
		{"payer not a participant", "10.00", []int64{1, 2}, 3, MethodEqual, nil},
		{"unknown method", "10.00", []int64{1, 2}, 1, Method("ratio"), nil},
		{"unparseable manual value", "10.00", []int64{1, 2}, 1, MethodManual, map[int64]string{1: "abc"}},
		{"negative manual value", "10.00", []int64{1, 2}, 1, MethodManual, map[int64]string{1: "-5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(dec(tt.amount), tt.participants, tt.payerID, tt.method, tt.values)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestComputeDeduplicatesParticipants(t *testing.T) {
	splits, err := Compute(dec("60.00"), []int64{1, 2, 2, 3, 1}, 1, MethodEqual, nil)
	require.NoError(t, err)
	require.Len(t, splits, 3)
	assert.True(t, sumOwed(splits).Equal(dec("60.00")))
}
