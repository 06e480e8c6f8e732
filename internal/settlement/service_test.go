package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBalanceMessage(t *testing.T) {
	owesYou := decimal.RequireFromString("40.00")
	youOwe := decimal.RequireFromString("-15.50")

	assert.Equal(t, "bob owes you 40.00 USD", balanceMessage("bob", "USD", owesYou))
	assert.Equal(t, "You owe bob 15.50 EUR", balanceMessage("bob", "EUR", youOwe))
	assert.Equal(t, "You and bob are settled up", balanceMessage("bob", "USD", decimal.Zero))
}
