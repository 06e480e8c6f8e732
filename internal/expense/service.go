package expense

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fyulita/FairKeep/internal/activity"
	"github.com/fyulita/FairKeep/internal/split"
)

// Common errors
var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrNotParticipant  = errors.New("you are not a participant of this expense")
)

// Service handles expense business logic
type Service struct {
	repo *Repository
}

// NewService creates a new expense service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create computes the splits for the requested method, validates them and
// persists expense, splits and audit entry atomically.
func (s *Service) Create(ctx context.Context, actorID int64, req *CreateExpenseRequest) (*ExpenseWithSplits, error) {
	exp, splits, err := buildExpense(actorID, req)
	if err != nil {
		return nil, err
	}

	act := snapshotActivity(exp, splits, actorID, activity.ActionCreated)
	return s.repo.Create(ctx, exp, splits, act)
}

// Update fully replaces an expense: the splits are recomputed from the
// request, never patched row by row.
func (s *Service) Update(ctx context.Context, id, actorID int64, req *UpdateExpenseRequest) (*ExpenseWithSplits, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrExpenseNotFound
	}
	if existing.SplitMethod == split.MethodSettlement {
		return nil, &split.ValidationError{Message: "settlement records cannot be edited"}
	}
	if err := s.requireParticipant(ctx, id, actorID); err != nil {
		return nil, err
	}

	exp, splits, err := buildExpense(existing.AddedBy, req)
	if err != nil {
		return nil, err
	}
	exp.ID = id

	act := snapshotActivity(exp, splits, actorID, activity.ActionUpdated)
	return s.repo.Update(ctx, exp, splits, act)
}

// GetByID retrieves an expense with its splits, visible to participants only
func (s *Service) GetByID(ctx context.Context, id, userID int64) (*ExpenseWithSplits, error) {
	exp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, ErrExpenseNotFound
	}

	splits, err := s.repo.GetSplitsByExpenseID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !splitsInclude(splits, userID) {
		return nil, ErrNotParticipant
	}

	return &ExpenseWithSplits{Expense: exp, Splits: splits}, nil
}

// List retrieves the expenses a user participates in
func (s *Service) List(ctx context.Context, userID int64, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListForUser(ctx, userID, perPage, offset)
}

// Delete removes an expense. Any participant may delete; the audit entry
// keeps the snapshot so the feed still tells who removed what.
func (s *Service) Delete(ctx context.Context, id, actorID int64) error {
	exp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if exp == nil {
		return ErrExpenseNotFound
	}

	splits, err := s.repo.GetSplitsByExpenseID(ctx, id)
	if err != nil {
		return err
	}
	if !splitsInclude(splits, actorID) {
		return ErrNotParticipant
	}

	act := &activity.Activity{
		ActorID:       &actorID,
		Action:        activity.ActionDeleted,
		ExpenseName:   exp.Name,
		ExpenseAmount: exp.Amount,
		Currency:      exp.Currency,
		SplitMethod:   string(exp.SplitMethod),
		ExpenseDate:   &exp.ExpenseDate,
	}
	for _, sp := range splits {
		act.InvolvedIDs = append(act.InvolvedIDs, sp.UserID)
	}

	return s.repo.Delete(ctx, id, act)
}

// ExportCSV streams every expense the user participates in as CSV rows.
func (s *Service) ExportCSV(ctx context.Context, userID int64, w io.Writer) error {
	expenses, err := s.repo.ListWithSplitsForUser(ctx, userID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"date", "name", "category", "amount", "currency", "split_method", "paid_by", "your_share", "you_paid"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, ews := range expenses {
		exp := ews.Expense
		owed, paid := decimal.Zero, decimal.Zero
		for _, sp := range ews.Splits {
			if sp.UserID == userID {
				owed, paid = sp.OwedAmount, sp.PaidAmount
			}
		}
		row := []string{
			exp.ExpenseDate.Format("2006-01-02"),
			exp.Name,
			exp.Category,
			exp.Amount.StringFixed(2),
			exp.Currency,
			string(exp.SplitMethod),
			exp.PayerUsername,
			owed.StringFixed(2),
			paid.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func (s *Service) requireParticipant(ctx context.Context, expenseID, userID int64) error {
	splits, err := s.repo.GetSplitsByExpenseID(ctx, expenseID)
	if err != nil {
		return err
	}
	if !splitsInclude(splits, userID) {
		return ErrNotParticipant
	}
	return nil
}

func splitsInclude(splits []*ExpenseSplit, userID int64) bool {
	for _, sp := range splits {
		if sp.UserID == userID {
			return true
		}
	}
	return false
}

// buildExpense validates the raw request and computes the splits. All input
// problems come back as *split.ValidationError so handlers can map them to a
// 400 with the message intact.
func buildExpense(addedBy int64, req *CreateExpenseRequest) (*Expense, []split.Split, error) {
	if req.Name == "" {
		return nil, nil, &split.ValidationError{Message: "the expense name is required"}
	}
	if !ValidCategory(req.Category) {
		return nil, nil, &split.ValidationError{Message: "unknown category: " + req.Category}
	}
	if !ValidCurrency(req.Currency) {
		return nil, nil, &split.ValidationError{Message: "unsupported currency: " + req.Currency}
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, nil, &split.ValidationError{Message: "invalid amount: " + req.Amount}
	}

	expenseDate, err := time.Parse("2006-01-02", req.ExpenseDate)
	if err != nil {
		return nil, nil, &split.ValidationError{Message: "invalid expense date, expected YYYY-MM-DD"}
	}

	method := split.Method(req.SplitMethod)
	if method == split.MethodSettlement {
		return nil, nil, &split.ValidationError{Message: "settlements are created through settle-up, not the expense form"}
	}

	participants := make([]int64, 0, len(req.Participants))
	values := make(map[int64]string, len(req.Participants))
	for _, p := range req.Participants {
		participants = append(participants, p.UserID)
		if p.Value != "" {
			values[p.UserID] = p.Value
		}
	}

	splits, err := split.Compute(amount, participants, req.PaidBy, method, values)
	if err != nil {
		return nil, nil, err
	}
	if err := split.ValidateSplits(splits, amount, method); err != nil {
		return nil, nil, err
	}

	// Single-participant expenses are stored as equal regardless of the
	// requested method.
	if len(splits) == 1 {
		method = split.MethodEqual
	}

	exp := &Expense{
		Name:        req.Name,
		Category:    req.Category,
		Amount:      amount.Round(2),
		Currency:    req.Currency,
		ExpenseDate: expenseDate,
		SplitMethod: method,
		PaidBy:      req.PaidBy,
		AddedBy:     addedBy,
	}
	return exp, splits, nil
}

func snapshotActivity(exp *Expense, splits []split.Split, actorID int64, action activity.Action) *activity.Activity {
	act := &activity.Activity{
		ActorID:       &actorID,
		Action:        action,
		ExpenseName:   exp.Name,
		ExpenseAmount: exp.Amount,
		Currency:      exp.Currency,
		SplitMethod:   string(exp.SplitMethod),
		ExpenseDate:   &exp.ExpenseDate,
	}
	involved := map[int64]bool{actorID: true}
	act.InvolvedIDs = append(act.InvolvedIDs, actorID)
	for _, sp := range splits {
		if !involved[sp.UserID] {
			involved[sp.UserID] = true
			act.InvolvedIDs = append(act.InvolvedIDs, sp.UserID)
		}
	}
	return act
}
