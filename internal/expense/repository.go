package expense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fyulita/FairKeep/internal/activity"
	"github.com/fyulita/FairKeep/internal/split"
)

// Repository handles expense and split data persistence
type Repository struct {
	db         *sql.DB
	activities *activity.Repository
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB, activities *activity.Repository) *Repository {
	return &Repository{db: db, activities: activities}
}

// Create inserts an expense, its splits and the audit entry in one
// transaction, so a failed split insert never leaves a half-written expense.
func (r *Repository) Create(ctx context.Context, exp *Expense, splits []split.Split, act *activity.Activity) (*ExpenseWithSplits, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (name, category, amount, currency, expense_date, split_method, paid_by, added_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, query,
		exp.Name,
		exp.Category,
		exp.Amount,
		exp.Currency,
		exp.ExpenseDate,
		exp.SplitMethod,
		exp.PaidBy,
		exp.AddedBy,
	).Scan(&exp.ID, &exp.CreatedAt, &exp.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	rows, err := insertSplits(ctx, tx, exp.ID, splits)
	if err != nil {
		return nil, err
	}

	act.ExpenseID = &exp.ID
	if err := r.activities.Insert(ctx, tx, act); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	return &ExpenseWithSplits{Expense: exp, Splits: rows}, nil
}

// Update replaces an expense and all its splits in one transaction.
func (r *Repository) Update(ctx context.Context, exp *Expense, splits []split.Split, act *activity.Activity) (*ExpenseWithSplits, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE expenses
		SET name = $2, category = $3, amount = $4, currency = $5, expense_date = $6,
		    split_method = $7, paid_by = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, query,
		exp.ID,
		exp.Name,
		exp.Category,
		exp.Amount,
		exp.Currency,
		exp.ExpenseDate,
		exp.SplitMethod,
		exp.PaidBy,
	).Scan(&exp.CreatedAt, &exp.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_splits WHERE expense_id = $1`, exp.ID); err != nil {
		return nil, fmt.Errorf("failed to clear splits: %w", err)
	}

	rows, err := insertSplits(ctx, tx, exp.ID, splits)
	if err != nil {
		return nil, err
	}

	act.ExpenseID = &exp.ID
	if err := r.activities.Insert(ctx, tx, act); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense update: %w", err)
	}

	return &ExpenseWithSplits{Expense: exp, Splits: rows}, nil
}

// Delete removes an expense (splits cascade) and records the audit entry.
// The entry's snapshot fields survive; its expense reference is left unset.
func (r *Repository) Delete(ctx context.Context, id int64, act *activity.Activity) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrExpenseNotFound
	}

	if err := r.activities.Insert(ctx, tx, act); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit expense delete: %w", err)
	}
	return nil
}

func insertSplits(ctx context.Context, tx *sql.Tx, expenseID int64, splits []split.Split) ([]*ExpenseSplit, error) {
	query := `
		INSERT INTO expense_splits (expense_id, user_id, owed_amount, paid_amount, value)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	rows := make([]*ExpenseSplit, 0, len(splits))
	for _, s := range splits {
		row := &ExpenseSplit{
			ExpenseID:  expenseID,
			UserID:     s.UserID,
			OwedAmount: s.OwedAmount,
			PaidAmount: s.PaidAmount,
			Value:      s.Value,
		}
		err := tx.QueryRowContext(ctx, query, expenseID, s.UserID, s.OwedAmount, s.PaidAmount, s.Value).Scan(&row.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create split: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// GetByID retrieves an expense by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT e.id, e.name, e.category, e.amount, e.currency, e.expense_date,
		       e.split_method, e.paid_by, e.added_by, e.created_at, e.updated_at, u.username
		FROM expenses e
		JOIN users u ON e.paid_by = u.id
		WHERE e.id = $1
	`

	exp := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&exp.ID,
		&exp.Name,
		&exp.Category,
		&exp.Amount,
		&exp.Currency,
		&exp.ExpenseDate,
		&exp.SplitMethod,
		&exp.PaidBy,
		&exp.AddedBy,
		&exp.CreatedAt,
		&exp.UpdatedAt,
		&exp.PayerUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return exp, nil
}

// GetSplitsByExpenseID retrieves all splits for an expense in insertion order
func (r *Repository) GetSplitsByExpenseID(ctx context.Context, expenseID int64) ([]*ExpenseSplit, error) {
	query := `
		SELECT s.id, s.expense_id, s.user_id, s.owed_amount, s.paid_amount, s.value, u.username
		FROM expense_splits s
		JOIN users u ON s.user_id = u.id
		WHERE s.expense_id = $1
		ORDER BY s.id
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []*ExpenseSplit
	for rows.Next() {
		s := &ExpenseSplit{}
		if err := rows.Scan(
			&s.ID,
			&s.ExpenseID,
			&s.UserID,
			&s.OwedAmount,
			&s.PaidAmount,
			&s.Value,
			&s.Username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, s)
	}

	return splits, nil
}

// ListForUser retrieves the expenses a user participates in, newest first
func (r *Repository) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(DISTINCT e.id)
		FROM expenses e
		JOIN expense_splits s ON s.expense_id = e.id
		WHERE s.user_id = $1
	`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT DISTINCT e.id, e.name, e.category, e.amount, e.currency, e.expense_date,
		       e.split_method, e.paid_by, e.added_by, e.created_at, e.updated_at, u.username
		FROM expenses e
		JOIN expense_splits s ON s.expense_id = e.id
		JOIN users u ON e.paid_by = u.id
		WHERE s.user_id = $1
		ORDER BY e.expense_date DESC, e.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		exp := &Expense{}
		if err := rows.Scan(
			&exp.ID,
			&exp.Name,
			&exp.Category,
			&exp.Amount,
			&exp.Currency,
			&exp.ExpenseDate,
			&exp.SplitMethod,
			&exp.PaidBy,
			&exp.AddedBy,
			&exp.CreatedAt,
			&exp.UpdatedAt,
			&exp.PayerUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
	}

	return expenses, total, nil
}

// ListWithSplitsForUser retrieves every expense a user participates in with
// all splits attached. Used by the CSV export, which is not paginated.
func (r *Repository) ListWithSplitsForUser(ctx context.Context, userID int64) ([]*ExpenseWithSplits, error) {
	expenses, _, err := r.ListForUser(ctx, userID, 10000, 0)
	if err != nil {
		return nil, err
	}

	result := make([]*ExpenseWithSplits, 0, len(expenses))
	for _, exp := range expenses {
		splits, err := r.GetSplitsByExpenseID(ctx, exp.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, &ExpenseWithSplits{Expense: exp, Splits: splits})
	}
	return result, nil
}
