package split

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSplitsManualOverAllocation(t *testing.T) {
	splits := []Split{
		{UserID: 1, OwedAmount: dec("30.00"), Value: dec("30.00")},
		{UserID: 2, OwedAmount: dec("30.00"), Value: dec("30.00")},
	}

	err := ValidateSplits(splits, dec("50.00"), MethodManual)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "manual amounts")
}

func TestValidateSplitsManualUnderAllocationIsAllowed(t *testing.T) {
	// under-allocating is fine: the balancer auto-fills the remainder
	splits := []Split{
		{UserID: 1, OwedAmount: dec("10.00"), Value: dec("10.00")},
		{UserID: 2, OwedAmount: dec("40.00"), Value: dec("40.00")},
	}

	assert.NoError(t, ValidateSplits(splits, dec("50.00"), MethodManual))
}

func TestValidateSplitsPercentageOver100(t *testing.T) {
	splits := []Split{
		{UserID: 1, OwedAmount: dec("60.00"), Value: dec("60")},
		{UserID: 2, OwedAmount: dec("55.00"), Value: dec("55")},
	}

	err := ValidateSplits(splits, dec("100.00"), MethodPercentage)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "percentages")
}

func TestValidateSplitsExcessAggregateBound(t *testing.T) {
	splits := []Split{
		{UserID: 1, OwedAmount: dec("90.00"), Value: dec("80.00")},
		{UserID: 2, OwedAmount: dec("40.00"), Value: dec("30.00")},
	}

	err := ValidateSplits(splits, dec("100.00"), MethodExcess)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	// the bound is only enforced once the amount is known
	assert.NoError(t, ValidateSplits(splits, decimal.Zero, MethodExcess))
}

func TestValidateSplitsRejectsNegativeOwed(t *testing.T) {
	splits := []Split{
		{UserID: 1, OwedAmount: dec("110.00")},
		{UserID: 2, OwedAmount: dec("-10.00")},
	}

	err := ValidateSplits(splits, dec("100.00"), MethodEqual)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "negative")
}

func TestValidateSplitsAcceptsComputedOutput(t *testing.T) {
	for _, method := range []Method{MethodEqual, MethodManual, MethodPercentage, MethodShares, MethodExcess, MethodFullOwed, MethodFullOwe} {
		values := map[int64]string{}
		if method == MethodManual {
			values = map[int64]string{1: "20.00", 2: "30.00"}
		}
		if method == MethodPercentage {
			values = map[int64]string{1: "25", 2: "25"}
		}

		splits, err := Compute(dec("100.00"), []int64{1, 2, 3}, 1, method, values)
		require.NoError(t, err, "method %s", method)
		assert.NoError(t, ValidateSplits(splits, dec("100.00"), method), "method %s", method)
	}
}
