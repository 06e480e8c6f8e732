package settlement

// SettleUpRequest represents the request to settle a pairwise balance.
// ConfirmedAmount is the balance the caller saw when they decided to settle;
// the commit fails if the stored history no longer produces it.
type SettleUpRequest struct {
	UserID          int64  `json:"user_id" validate:"required"`
	Currency        string `json:"currency" validate:"required,len=3"`
	ConfirmedAmount string `json:"confirmed_amount" validate:"required"`
}

// BalanceResponse represents one pairwise balance
type BalanceResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
	Message  string `json:"message"` // e.g., "John owes you 40.00 USD"
}

// BalancesResponse is the full balance sheet for the caller
type BalancesResponse struct {
	Balances            []*BalanceResponse `json:"balances"`
	MalformedExpenseIDs []int64            `json:"malformed_expense_ids,omitempty"`
}

// SettlementResponse represents the recorded settlement
type SettlementResponse struct {
	ExpenseID   int64  `json:"expense_id"`
	PayerID     int64  `json:"payer_id"`
	RecipientID int64  `json:"recipient_id"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	CreatedAt   string `json:"created_at"`
}

// ToResponse converts a Settlement model to a SettlementResponse DTO
func (s *Settlement) ToResponse() *SettlementResponse {
	return &SettlementResponse{
		ExpenseID:   s.ExpenseID,
		PayerID:     s.PayerID,
		RecipientID: s.RecipientID,
		Amount:      s.Amount.StringFixed(2),
		Currency:    s.Currency,
		CreatedAt:   s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
