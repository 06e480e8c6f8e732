package split

import "github.com/shopspring/decimal"

// =============================================================================
// MANUAL SPLIT STRATEGY
// Each participant owes a user-entered amount; the last participant in
// display order is the balancer and always owes the remainder
// =============================================================================

// ManualStrategy implements the Strategy interface for manual amount splits
type ManualStrategy struct{}

// Method returns the split method identifier
func (s *ManualStrategy) Method() Method {
	return MethodManual
}

// Calculate uses the entered amount for every participant except the balancer
// (the last one), whose owed amount is recomputed as amount - sum(others),
// clamped to zero. Any raw input supplied for the balancer is ignored.
func (s *ManualStrategy) Calculate(amount decimal.Decimal, participants []int64, payerID int64, values map[int64]string) ([]Split, error) {
	n := len(participants)
	splits := make([]Split, n)

	allocated := decimal.Zero
	for i, userID := range participants[:n-1] {
		owed, err := parseValue(values, userID)
		if err != nil {
			return nil, err
		}
		owed = owed.Round(2)
		allocated = allocated.Add(owed)
		splits[i] = Split{
			UserID:     userID,
			OwedAmount: owed,
			PaidAmount: paidAmount(userID, payerID, amount),
			Value:      owed,
		}
	}

	balancer := participants[n-1]
	remainder := amount.Sub(allocated)
	if remainder.IsNegative() {
		remainder = decimal.Zero
	}
	splits[n-1] = Split{
		UserID:     balancer,
		OwedAmount: remainder,
		PaidAmount: paidAmount(balancer, payerID, amount),
		Value:      remainder,
	}

	return splits, nil
}
