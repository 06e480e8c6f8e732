package split

import "github.com/shopspring/decimal"

// =============================================================================
// SHARES SPLIT STRATEGY
// Divides the expense proportionally to per-participant share counts
// =============================================================================

// SharesStrategy implements the Strategy interface for share-based splits
type SharesStrategy struct{}

// Method returns the split method identifier
func (s *SharesStrategy) Method() Method {
	return MethodShares
}

// Calculate divides the amount in proportion to each participant's share
// count. Shares must be positive integers; a missing entry defaults to one
// share, matching the form's initial state. The last participant absorbs the
// rounding remainder.
func (s *SharesStrategy) Calculate(amount decimal.Decimal, participants []int64, payerID int64, values map[int64]string) ([]Split, error) {
	n := len(participants)
	shares := make([]decimal.Decimal, n)
	totalShares := decimal.Zero

	for i, userID := range participants {
		share := decimal.NewFromInt(1)
		if raw, ok := values[userID]; ok && raw != "" {
			parsed, err := parseValue(values, userID)
			if err != nil {
				return nil, err
			}
			share = parsed
		}
		if !share.IsInteger() || share.LessThan(decimal.NewFromInt(1)) {
			return nil, validationErrorf("shares must be positive whole numbers")
		}
		shares[i] = share
		totalShares = totalShares.Add(share)
	}

	splits := make([]Split, n)
	allocated := decimal.Zero
	for i, userID := range participants {
		owed := amount.Mul(shares[i]).Div(totalShares).Round(2)
		if i == n-1 {
			owed = amount.Sub(allocated)
		} else {
			allocated = allocated.Add(owed)
		}
		splits[i] = Split{
			UserID:     userID,
			OwedAmount: owed,
			PaidAmount: paidAmount(userID, payerID, amount),
			Value:      shares[i],
		}
	}

	return splits, nil
}
