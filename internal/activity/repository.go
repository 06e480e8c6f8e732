package activity

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so activity entries can be
// written inside the same transaction that mutates the expense.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository handles activity data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new activity repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes an activity entry and its involved-user rows using q, which
// may be a transaction.
func (r *Repository) Insert(ctx context.Context, q DBTX, a *Activity) error {
	query := `
		INSERT INTO activities (expense_id, actor_id, action, expense_name, expense_amount, currency, split_method, expense_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := q.QueryRowContext(ctx, query,
		a.ExpenseID,
		a.ActorID,
		a.Action,
		a.ExpenseName,
		a.ExpenseAmount,
		a.Currency,
		a.SplitMethod,
		a.ExpenseDate,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	for _, userID := range a.InvolvedIDs {
		_, err := q.ExecContext(ctx,
			`INSERT INTO activity_users (activity_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			a.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to link activity to user %d: %w", userID, err)
		}
	}

	return nil
}

// ListByUserID retrieves the activity entries involving a user, newest first
func (r *Repository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Activity, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM activities a
		JOIN activity_users au ON au.activity_id = a.id
		WHERE au.user_id = $1
	`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	query := `
		SELECT a.id, a.expense_id, a.actor_id, a.action, a.expense_name, a.expense_amount,
		       a.currency, a.split_method, a.expense_date, a.created_at,
		       COALESCE(u.username, '')
		FROM activities a
		JOIN activity_users au ON au.activity_id = a.id
		LEFT JOIN users u ON a.actor_id = u.id
		WHERE au.user_id = $1
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*Activity
	for rows.Next() {
		a := &Activity{}
		if err := rows.Scan(
			&a.ID,
			&a.ExpenseID,
			&a.ActorID,
			&a.Action,
			&a.ExpenseName,
			&a.ExpenseAmount,
			&a.Currency,
			&a.SplitMethod,
			&a.ExpenseDate,
			&a.CreatedAt,
			&a.ActorUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}

	return activities, total, nil
}
