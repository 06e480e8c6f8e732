package expense

// ParticipantValue is one participant in an incoming expense, in display
// order. Value is the raw method-specific input as the client typed it:
// a manual amount, percentage points, a share count or a signed excess.
// It is empty for methods that take no per-participant input.
type ParticipantValue struct {
	UserID int64  `json:"user_id" validate:"required"`
	Value  string `json:"value,omitempty"`
}

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	Name         string             `json:"name" validate:"required,min=1,max=255"`
	Category     string             `json:"category" validate:"required"`
	Amount       string             `json:"amount" validate:"required"`
	Currency     string             `json:"currency" validate:"required,len=3"`
	ExpenseDate  string             `json:"expense_date" validate:"required"`
	SplitMethod  string             `json:"split_method" validate:"required"`
	PaidBy       int64              `json:"paid_by" validate:"required"`
	Participants []ParticipantValue `json:"participants" validate:"required,min=1"`
}

// UpdateExpenseRequest fully replaces an expense: the splits are recomputed
// from scratch, never patched in place.
type UpdateExpenseRequest = CreateExpenseRequest

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	Amount        string           `json:"amount"`
	Currency      string           `json:"currency"`
	ExpenseDate   string           `json:"expense_date"`
	SplitMethod   string           `json:"split_method"`
	PaidBy        int64            `json:"paid_by"`
	PayerUsername string           `json:"payer_username,omitempty"`
	AddedBy       int64            `json:"added_by"`
	CreatedAt     string           `json:"created_at"`
	UpdatedAt     string           `json:"updated_at"`
	Splits        []*SplitResponse `json:"splits,omitempty"`
}

// SplitResponse represents the response for one participant's split
type SplitResponse struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	Username   string `json:"username,omitempty"`
	OwedAmount string `json:"owed_amount"`
	PaidAmount string `json:"paid_amount"`
	Value      string `json:"value"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:            e.ID,
		Name:          e.Name,
		Category:      e.Category,
		Amount:        e.Amount.StringFixed(2),
		Currency:      e.Currency,
		ExpenseDate:   e.ExpenseDate.Format("2006-01-02"),
		SplitMethod:   string(e.SplitMethod),
		PaidBy:        e.PaidBy,
		PayerUsername: e.PayerUsername,
		AddedBy:       e.AddedBy,
		CreatedAt:     e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:     e.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts an ExpenseSplit model to a SplitResponse DTO
func (s *ExpenseSplit) ToResponse() *SplitResponse {
	return &SplitResponse{
		ID:         s.ID,
		UserID:     s.UserID,
		Username:   s.Username,
		OwedAmount: s.OwedAmount.StringFixed(2),
		PaidAmount: s.PaidAmount.StringFixed(2),
		Value:      s.Value.String(),
	}
}
