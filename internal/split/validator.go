package split

import "github.com/shopspring/decimal"

// ValidateSplits is the pre-submission gate over a computed split set. It
// re-runs the sum checks unconditionally, independent of the interactive
// auto-balancing: the live form only balances the last of N fields, so with
// more than two non-balancer participants the user can still construct an
// invalid combination. Returns a ValidationError naming the violated sum;
// callers must refuse submission and surface the message verbatim.
func ValidateSplits(splits []Split, amount decimal.Decimal, method Method) error {
	switch method {
	case MethodManual:
		totalOwed := decimal.Zero
		for _, s := range splits {
			totalOwed = totalOwed.Add(s.OwedAmount)
		}
		if totalOwed.GreaterThan(amount) {
			return validationErrorf("the sum of manual amounts cannot exceed the total amount")
		}
	case MethodPercentage:
		totalPct := decimal.Zero
		for _, s := range splits {
			totalPct = totalPct.Add(s.Value)
		}
		if totalPct.GreaterThan(oneHundred) {
			return validationErrorf("the sum of percentages cannot exceed 100")
		}
	case MethodExcess:
		// only enforceable once the amount is known
		if amount.IsPositive() {
			totalExcess := decimal.Zero
			for _, s := range splits {
				totalExcess = totalExcess.Add(s.Value)
			}
			if totalExcess.Abs().GreaterThan(amount) {
				return validationErrorf("the total excess adjustments cannot exceed the expense amount")
			}
		}
	}

	for _, s := range splits {
		if s.OwedAmount.IsNegative() {
			return validationErrorf("owed amounts cannot be negative")
		}
	}

	return nil
}
