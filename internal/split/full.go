package split

import "github.com/shopspring/decimal"

// =============================================================================
// FULL OWED / FULL OWE STRATEGIES
// The payer is owed the entire amount back: non-payers split the full amount
// equally and the payer owes nothing. full_owe is the mirror-image method
// where the counterparty is the payer; the arithmetic is identical, the
// stored method preserves the "you owe the full amount" intent for edits.
// =============================================================================

// FullOwedStrategy implements the Strategy interface for "payer is owed the
// full amount" splits
type FullOwedStrategy struct{}

// Method returns the split method identifier
func (s *FullOwedStrategy) Method() Method {
	return MethodFullOwed
}

// Calculate splits the entire amount equally among the non-payers
func (s *FullOwedStrategy) Calculate(amount decimal.Decimal, participants []int64, payerID int64, values map[int64]string) ([]Split, error) {
	return calculateFullAmount(amount, participants, payerID)
}

// FullOweStrategy implements the Strategy interface for "you owe the full
// amount" splits
type FullOweStrategy struct{}

// Method returns the split method identifier
func (s *FullOweStrategy) Method() Method {
	return MethodFullOwe
}

// Calculate splits the entire amount equally among the non-payers
func (s *FullOweStrategy) Calculate(amount decimal.Decimal, participants []int64, payerID int64, values map[int64]string) ([]Split, error) {
	return calculateFullAmount(amount, participants, payerID)
}

func calculateFullAmount(amount decimal.Decimal, participants []int64, payerID int64) ([]Split, error) {
	nonPayers := 0
	for _, userID := range participants {
		if userID != payerID {
			nonPayers++
		}
	}

	share := amount.Div(decimal.NewFromInt(int64(nonPayers))).Round(2)

	splits := make([]Split, len(participants))
	allocated := decimal.Zero
	seen := 0
	for i, userID := range participants {
		owed := decimal.Zero
		if userID != payerID {
			seen++
			if seen == nonPayers {
				// last non-payer is the balancer
				owed = amount.Sub(allocated)
			} else {
				owed = share
				allocated = allocated.Add(share)
			}
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
