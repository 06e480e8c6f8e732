package settlement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fyulita/FairKeep/internal/activity"
	"github.com/fyulita/FairKeep/internal/expense"
	"github.com/fyulita/FairKeep/internal/ledger"
	"github.com/fyulita/FairKeep/internal/split"
)

// Common errors
var (
	// ErrBalanceChanged means the stored history no longer produces the
	// balance the caller confirmed. The client must refresh and retry.
	ErrBalanceChanged   = errors.New("the balance changed since you last looked, refresh and try again")
	ErrCannotSettleSelf = errors.New("cannot settle up with yourself")
	ErrUserNotFound     = errors.New("user not found")
)

// Service handles balance reporting and settle-up
type Service struct {
	repo       *Repository
	activities *activity.Repository
}

// NewService creates a new settlement service
func NewService(repo *Repository, activities *activity.Repository) *Service {
	return &Service{repo: repo, activities: activities}
}

// Balances aggregates the caller's full expense history into pairwise
// per-currency balances. Expenses whose splits no longer satisfy the sum
// invariants are excluded from the totals and reported by id.
func (s *Service) Balances(ctx context.Context, userID int64) (*BalancesResponse, error) {
	entries, err := s.repo.ListEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	balances, malformed := ledger.AggregateBalances(entries, userID)

	keys := make([]ledger.PairKey, 0, len(balances))
	ids := make([]int64, 0, len(balances))
	for key := range balances {
		keys = append(keys, key)
		ids = append(ids, key.UserID)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].UserID != keys[j].UserID {
			return keys[i].UserID < keys[j].UserID
		}
		return keys[i].Currency < keys[j].Currency
	})

	names, err := s.repo.Usernames(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &BalancesResponse{Balances: make([]*BalanceResponse, 0, len(keys))}
	for _, key := range keys {
		amount := balances[key]
		username := names[key.UserID]
		if username == "" {
			username = fmt.Sprintf("user %d", key.UserID)
		}
		resp.Balances = append(resp.Balances, &BalanceResponse{
			UserID:   key.UserID,
			Username: username,
			Currency: key.Currency,
			Amount:   amount.StringFixed(2),
			Message:  balanceMessage(username, key.Currency, amount),
		})
	}
	for _, m := range malformed {
		resp.MalformedExpenseIDs = append(resp.MalformedExpenseIDs, m.ExpenseID)
	}

	return resp, nil
}

// SettleUp zeroes the balance with one counterparty in one currency by
// appending a settlement expense. The balance is recomputed inside a
// serializable transaction and compared against the amount the caller
// confirmed; a concurrent edit makes the commit fail instead of settling a
// stale figure. Serialization aborts are retried once.
func (s *Service) SettleUp(ctx context.Context, userID int64, req *SettleUpRequest) (*Settlement, error) {
	if req.UserID == userID {
		return nil, ErrCannotSettleSelf
	}
	if !expense.ValidCurrency(req.Currency) {
		return nil, &split.ValidationError{Message: "unsupported currency: " + req.Currency}
	}

	confirmed, err := decimal.NewFromString(req.ConfirmedAmount)
	if err != nil {
		return nil, &split.ValidationError{Message: "invalid confirmed amount: " + req.ConfirmedAmount}
	}

	settlement, err := s.settleOnce(ctx, userID, req.UserID, req.Currency, confirmed)
	if IsSerializationFailure(err) {
		settlement, err = s.settleOnce(ctx, userID, req.UserID, req.Currency, confirmed)
	}
	return settlement, err
}

func (s *Service) settleOnce(ctx context.Context, userID, counterpartyID int64, currency string, confirmed decimal.Decimal) (*Settlement, error) {
	tx, err := s.repo.DB().BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	entries, err := s.repo.ListEntriesTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	balances, _ := ledger.AggregateBalances(entries, userID)
	balance := balances[ledger.PairKey{UserID: counterpartyID, Currency: currency}]

	if !balance.Equal(confirmed) {
		return nil, ErrBalanceChanged
	}

	rec, err := ledger.BuildSettlement(userID, counterpartyID, currency, balance)
	if err != nil {
		return nil, err
	}

	counterpartyName, err := s.repo.DisplayNameTx(ctx, tx, counterpartyID)
	if err != nil {
		return nil, err
	}

	settlement, err := s.repo.InsertSettlementTx(ctx, tx, rec, "Settle with "+counterpartyName, userID)
	if err != nil {
		return nil, err
	}

	act := &activity.Activity{
		ExpenseID:     &settlement.ExpenseID,
		ActorID:       &userID,
		Action:        activity.ActionSettled,
		ExpenseName:   "Settle with " + counterpartyName,
		ExpenseAmount: settlement.Amount,
		Currency:      settlement.Currency,
		SplitMethod:   string(split.MethodSettlement),
		ExpenseDate:   &settlement.CreatedAt,
		InvolvedIDs:   []int64{userID, counterpartyID},
	}
	if err := s.activities.Insert(ctx, tx, act); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	return settlement, nil
}

func balanceMessage(username, currency string, amount decimal.Decimal) string {
	switch {
	case amount.IsPositive():
		return fmt.Sprintf("%s owes you %s %s", username, amount.StringFixed(2), currency)
	case amount.IsNegative():
		return fmt.Sprintf("You owe %s %s %s", username, amount.Neg().StringFixed(2), currency)
	default:
		return fmt.Sprintf("You and %s are settled up", username)
	}
}
