package split

import "github.com/shopspring/decimal"

// =============================================================================
// EXCESS SPLIT STRATEGY
// Each participant carries a signed excess on top of an equal base share
// =============================================================================

// ExcessStrategy implements the Strategy interface for excess adjustments
type ExcessStrategy struct{}

// Method returns the split method identifier
func (s *ExcessStrategy) Method() Method {
	return MethodExcess
}

// Calculate derives an equal base of (amount - sum(excess)) / n and adds each
// participant's signed excess on top. Only the aggregate is bounded: a single
// excess may exceed the amount as long as |sum(excess)| stays within it. The
// last participant absorbs the rounding remainder.
func (s *ExcessStrategy) Calculate(amount decimal.Decimal, participants []int64, payerID int64, values map[int64]string) ([]Split, error) {
	n := len(participants)
	excesses := make([]decimal.Decimal, n)
	totalExcess := decimal.Zero

	for i, userID := range participants {
		excess, err := parseSignedValue(values, userID)
		if err != nil {
			return nil, err
		}
		excesses[i] = excess
		totalExcess = totalExcess.Add(excess)
	}

	if totalExcess.Abs().GreaterThan(amount) {
		return nil, validationErrorf("the total excess adjustments cannot exceed the expense amount")
	}

	base := amount.Sub(totalExcess).Div(decimal.NewFromInt(int64(n)))

	splits := make([]Split, n)
	allocated := decimal.Zero
	for i, userID := range participants {
		owed := base.Add(excesses[i]).Round(2)
		if i == n-1 {
			owed = amount.Sub(allocated)
		} else {
			allocated = allocated.Add(owed)
		}
		splits[i] = Split{
			UserID:     userID,
			OwedAmount: owed,
			PaidAmount: paidAmount(userID, payerID, amount),
			Value:      excesses[i],
		}
	}

	return splits, nil
}
