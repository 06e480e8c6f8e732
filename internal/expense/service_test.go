package expense

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyulita/FairKeep/internal/split"
)

func validRequest() *CreateExpenseRequest {
	return &CreateExpenseRequest{
		Name:        "Groceries",
		Category:    "Food",
		Amount:      "120.00",
		Currency:    "USD",
		ExpenseDate: "2026-08-15",
		SplitMethod: "equal",
		PaidBy:      1,
		Participants: []ParticipantValue{
			{UserID: 1}, {UserID: 2}, {UserID: 3},
		},
	}
}

func TestBuildExpenseComputesSplits(t *testing.T) {
	exp, splits, err := buildExpense(1, validRequest())
	require.NoError(t, err)

	assert.Equal(t, "Groceries", exp.Name)
	assert.Equal(t, split.MethodEqual, exp.SplitMethod)
	assert.Equal(t, "2026-08-15", exp.ExpenseDate.Format("2006-01-02"))
	require.Len(t, splits, 3)
	for _, sp := range splits {
		assert.Equal(t, "40", sp.OwedAmount.String())
	}
}

func TestBuildExpenseRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateExpenseRequest)
	}{
		{"empty name", func(r *CreateExpenseRequest) { r.Name = "" }},
		{"unknown category", func(r *CreateExpenseRequest) { r.Category = "Gadgets" }},
		{"unsupported currency", func(r *CreateExpenseRequest) { r.Currency = "XXX" }},
		{"unparseable amount", func(r *CreateExpenseRequest) { r.Amount = "12,50" }},
		{"zero amount", func(r *CreateExpenseRequest) { r.Amount = "0" }},
		{"bad date", func(r *CreateExpenseRequest) { r.ExpenseDate = "15/08/2026" }},
		{"unknown method", func(r *CreateExpenseRequest) { r.SplitMethod = "ratio" }},
		{"settlement method", func(r *CreateExpenseRequest) { r.SplitMethod = "settlement" }},
		{"payer not participant", func(r *CreateExpenseRequest) { r.PaidBy = 99 }},
		{"no participants", func(r *CreateExpenseRequest) { r.Participants = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, _, err := buildExpense(1, req)
			var verr *split.ValidationError
			require.ErrorAs(t, err, &verr, "expected a validation error, got %v", err)
		})
	}
}

func TestBuildExpenseSingleParticipantStoredAsEqual(t *testing.T) {
	req := validRequest()
	req.SplitMethod = "percentage"
	req.Participants = []ParticipantValue{{UserID: 1, Value: "100"}}

	exp, splits, err := buildExpense(1, req)
	require.NoError(t, err)
	assert.Equal(t, split.MethodEqual, exp.SplitMethod)
	require.Len(t, splits, 1)
	assert.True(t, splits[0].OwedAmount.Equal(exp.Amount))
	assert.True(t, splits[0].PaidAmount.Equal(exp.Amount))
}

func TestBuildExpenseManualValuesFlowThrough(t *testing.T) {
	req := validRequest()
	req.SplitMethod = "manual"
	req.Amount = "50.00"
	req.Participants = []ParticipantValue{
		{UserID: 1, Value: "30.00"},
		{UserID: 2, Value: "15.50"},
		{UserID: 3},
	}

	_, splits, err := buildExpense(1, req)
	require.NoError(t, err)
	require.Len(t, splits, 3)
	assert.Equal(t, "4.5", splits[2].OwedAmount.String())
}

func TestValidCurrencyAndCategory(t *testing.T) {
	assert.True(t, ValidCurrency("ARS"))
	assert.True(t, ValidCurrency("JPY"))
	assert.False(t, ValidCurrency("usd"))
	assert.False(t, ValidCurrency(""))

	assert.True(t, ValidCategory("Home Supplies"))
	assert.False(t, ValidCategory("home supplies"))
}

func TestSnapshotActivityInvolvesEveryParticipantOnce(t *testing.T) {
	exp, splits, err := buildExpense(1, validRequest())
	require.NoError(t, err)

	act := snapshotActivity(exp, splits, 2, "created")
	assert.ElementsMatch(t, []int64{1, 2, 3}, act.InvolvedIDs)
	require.NotNil(t, act.ActorID)
	assert.Equal(t, int64(2), *act.ActorID)
}
