package split

import "github.com/shopspring/decimal"

// =============================================================================
// EQUAL SPLIT STRATEGY
// Divides the expense equally among all participants
// =============================================================================

// EqualStrategy implements the Strategy interface for equal splits
type EqualStrategy struct{}

// Method returns the split method identifier
func (s *EqualStrategy) Method() Method {
	return MethodEqual
}

// Calculate gives each of the first n-1 participants a rounded equal share;
// the last participant receives the exact residual so the sum never drifts
// from the expense amount.
func (s *EqualStrategy) Calculate(amount decimal.Decimal, participants []int64, payerID int64, values map[int64]string) ([]Split, error) {
	n := len(participants)
	share := amount.Div(decimal.NewFromInt(int64(n))).Round(2)

	splits := make([]Split, n)
	allocated := decimal.Zero
	for i, userID := range participants {
		owed := share
		if i == n-1 {
			owed = amount.Sub(allocated)
		} else {
			allocated = allocated.Add(share)
		}
		splits[i] = Split{
			UserID:     userID,
			OwedAmount: owed,
			PaidAmount: paidAmount(userID, payerID, amount),
			Value:      decimal.Zero,
		}
	}

	return splits, nil
}
