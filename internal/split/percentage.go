package split

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// =============================================================================
// PERCENTAGE SPLIT STRATEGY
// Divides the expense based on specified percentages for each participant;
// the balancer's percentage is the remainder against 100
// =============================================================================

// PercentageStrategy implements the Strategy interface for percentage splits
type PercentageStrategy struct{}

// Method returns the split method identifier
func (s *PercentageStrategy) Method() Method {
	return MethodPercentage
}

// Calculate applies the same balancing rule as the manual strategy but against
// a target of 100 instead of the amount: the last participant's percentage is
// 100 - sum(others), clamped to zero. Owed amounts are percentage/100 * amount
// rounded per participant, with the last participant absorbing the rounding
// remainder so the sum equals the amount exactly.
func (s *PercentageStrategy) Calculate(amount decimal.Decimal, participants []int64, payerID int64, values map[int64]string) ([]Split, error) {
	n := len(participants)
	splits := make([]Split, n)

	allocatedPct := decimal.Zero
	allocated := decimal.Zero
	for i, userID := range participants[:n-1] {
		pct, err := parseValue(values, userID)
		if err != nil {
			return nil, err
		}
		owed := amount.Mul(pct).Div(oneHundred).Round(2)
		allocatedPct = allocatedPct.Add(pct)
		allocated = allocated.Add(owed)
		splits[i] = Split{
			UserID:     userID,
			OwedAmount: owed,
			PaidAmount: paidAmount(userID, payerID, amount),
			Value:      pct,
		}
	}

	balancer := participants[n-1]
	balancerPct := oneHundred.Sub(allocatedPct)
	if balancerPct.IsNegative() {
		balancerPct = decimal.Zero
	}
	remainder := amount.Sub(allocated)
	if remainder.IsNegative() {
		remainder = decimal.Zero
	}
	splits[n-1] = Split{
		UserID:     balancer,
		OwedAmount: remainder,
		PaidAmount: paidAmount(balancer, payerID, amount),
		Value:      balancerPct,
	}

	return splits, nil
}
