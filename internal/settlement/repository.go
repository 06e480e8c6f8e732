package settlement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/fyulita/FairKeep/internal/ledger"
	"github.com/fyulita/FairKeep/internal/split"
)

// querier is satisfied by both *sql.DB and *sql.Tx so the same history reads
// serve the balances endpoint and the settle-up transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository reads expense history and writes settlement expenses
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the underlying handle for transaction control
func (r *Repository) DB() *sql.DB {
	return r.db
}

// ListEntries loads the full expense history involving a user as ledger
// entries, splits included, ordered by expense id.
func (r *Repository) ListEntries(ctx context.Context, userID int64) ([]ledger.Entry, error) {
	return listEntries(ctx, r.db, userID)
}

// ListEntriesTx is ListEntries inside an open transaction, so settle-up sees
// the history it is about to append to.
func (r *Repository) ListEntriesTx(ctx context.Context, tx *sql.Tx, userID int64) ([]ledger.Entry, error) {
	return listEntries(ctx, tx, userID)
}

func listEntries(ctx context.Context, q querier, userID int64) ([]ledger.Entry, error) {
	query := `
		SELECT e.id, e.amount, e.currency, e.paid_by, s.user_id, s.owed_amount, s.paid_amount
		FROM expenses e
		JOIN expense_splits s ON s.expense_id = e.id
		WHERE e.id IN (SELECT expense_id FROM expense_splits WHERE user_id = $1)
		ORDER BY e.id, s.id
	`

	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expense history: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry
	var current *ledger.Entry
	for rows.Next() {
		var (
			entry ledger.Entry
			sp    split.Split
		)
		if err := rows.Scan(
			&entry.ExpenseID,
			&entry.Amount,
			&entry.Currency,
			&entry.PayerID,
			&sp.UserID,
			&sp.OwedAmount,
			&sp.PaidAmount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}

		if current == nil || current.ExpenseID != entry.ExpenseID {
			entries = append(entries, entry)
			current = &entries[len(entries)-1]
		}
		current.Splits = append(current.Splits, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}

	return entries, nil
}

// Usernames resolves display data for a set of user ids
func (r *Repository) Usernames(ctx context.Context, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}

	query := `SELECT id, username FROM users WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve usernames: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string, len(ids))
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan username: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

// DisplayNameTx resolves a user's display name inside a transaction
func (r *Repository) DisplayNameTx(ctx context.Context, tx *sql.Tx, userID int64) (string, error) {
	var username, first, last string
	query := `SELECT username, first_name, last_name FROM users WHERE id = $1`
	if err := tx.QueryRowContext(ctx, query, userID).Scan(&username, &first, &last); err != nil {
		if err == sql.ErrNoRows {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to resolve user %d: %w", userID, err)
	}
	if first != "" {
		if last != "" {
			return first + " " + last, nil
		}
		return first, nil
	}
	return username, nil
}

// InsertSettlementTx appends the zeroing settlement expense with its two
// splits inside the open transaction.
func (r *Repository) InsertSettlementTx(ctx context.Context, tx *sql.Tx, rec *ledger.SettlementRecord, name string, addedBy int64) (*Settlement, error) {
	query := `
		INSERT INTO expenses (name, category, amount, currency, expense_date, split_method, paid_by, added_by)
		VALUES ($1, 'Other', $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	settlement := &Settlement{
		PayerID:     rec.PayerID,
		RecipientID: rec.RecipientID,
		Amount:      rec.Amount,
		Currency:    rec.Currency,
	}
	err := tx.QueryRowContext(ctx, query,
		name,
		rec.Amount,
		rec.Currency,
		time.Now().UTC(),
		split.MethodSettlement,
		rec.PayerID,
		addedBy,
	).Scan(&settlement.ExpenseID, &settlement.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create settlement expense: %w", err)
	}

	splitQuery := `
		INSERT INTO expense_splits (expense_id, user_id, owed_amount, paid_amount, value)
		VALUES ($1, $2, $3, $4, 0)
	`
	for _, sp := range rec.Splits {
		if _, err := tx.ExecContext(ctx, splitQuery, settlement.ExpenseID, sp.UserID, sp.OwedAmount, sp.PaidAmount); err != nil {
			return nil, fmt.Errorf("failed to create settlement split: %w", err)
		}
	}

	return settlement, nil
}

// IsSerializationFailure reports whether err is a Postgres serialization
// failure (SQLSTATE 40001), the signal to retry the transaction.
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "40001"
}
