package contact

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles contact request persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new contact repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateRequest inserts a pending contact request
func (r *Repository) CreateRequest(ctx context.Context, fromUser, toUser int64) (*Request, error) {
	query := `
		INSERT INTO contact_requests (from_user, to_user, status)
		VALUES ($1, $2, $3)
		RETURNING id, from_user, to_user, status, created_at, updated_at
	`

	req := &Request{}
	err := r.db.QueryRowContext(ctx, query, fromUser, toUser, RequestStatusPending).Scan(
		&req.ID,
		&req.FromUser,
		&req.ToUser,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact request: %w", err)
	}

	return req, nil
}

// GetRequestBetween retrieves the request between two users in either
// direction, if one exists.
func (r *Repository) GetRequestBetween(ctx context.Context, userA, userB int64) (*Request, error) {
	query := `
		SELECT id, from_user, to_user, status, created_at, updated_at
		FROM contact_requests
		WHERE (from_user = $1 AND to_user = $2) OR (from_user = $2 AND to_user = $1)
	`

	req := &Request{}
	err := r.db.QueryRowContext(ctx, query, userA, userB).Scan(
		&req.ID,
		&req.FromUser,
		&req.ToUser,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact request: %w", err)
	}

	return req, nil
}

// GetRequestByID retrieves a contact request by its ID
func (r *Repository) GetRequestByID(ctx context.Context, id int64) (*Request, error) {
	query := `
		SELECT cr.id, cr.from_user, cr.to_user, cr.status, cr.created_at, cr.updated_at,
		       f.username, t.username
		FROM contact_requests cr
		JOIN users f ON cr.from_user = f.id
		JOIN users t ON cr.to_user = t.id
		WHERE cr.id = $1
	`

	req := &Request{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID,
		&req.FromUser,
		&req.ToUser,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
		&req.FromUsername,
		&req.ToUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact request: %w", err)
	}

	return req, nil
}

// ListRequestsForUser retrieves the requests a user sent or received
func (r *Repository) ListRequestsForUser(ctx context.Context, userID int64) ([]*Request, error) {
	query := `
		SELECT cr.id, cr.from_user, cr.to_user, cr.status, cr.created_at, cr.updated_at,
		       f.username, t.username
		FROM contact_requests cr
		JOIN users f ON cr.from_user = f.id
		JOIN users t ON cr.to_user = t.id
		WHERE cr.from_user = $1 OR cr.to_user = $1
		ORDER BY cr.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact requests: %w", err)
	}
	defer rows.Close()

	var requests []*Request
	for rows.Next() {
		req := &Request{}
		if err := rows.Scan(
			&req.ID,
			&req.FromUser,
			&req.ToUser,
			&req.Status,
			&req.CreatedAt,
			&req.UpdatedAt,
			&req.FromUsername,
			&req.ToUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contact request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, nil
}

// UpdateRequestStatus sets the status of a contact request
func (r *Repository) UpdateRequestStatus(ctx context.Context, id int64, status RequestStatus) (*Request, error) {
	query := `
		UPDATE contact_requests
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, from_user, to_user, status, created_at, updated_at
	`

	req := &Request{}
	err := r.db.QueryRowContext(ctx, query, id, status).Scan(
		&req.ID,
		&req.FromUser,
		&req.ToUser,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update contact request: %w", err)
	}

	return req, nil
}

// ListContacts retrieves the users connected to userID through an accepted
// request, in either direction.
func (r *Repository) ListContacts(ctx context.Context, userID int64) ([]*Contact, error) {
	query := `
		SELECT u.id, u.username, u.first_name, u.last_name
		FROM contact_requests cr
		JOIN users u ON u.id = CASE WHEN cr.from_user = $1 THEN cr.to_user ELSE cr.from_user END
		WHERE (cr.from_user = $1 OR cr.to_user = $1) AND cr.status = $2
		ORDER BY u.username
	`

	rows, err := r.db.QueryContext(ctx, query, userID, RequestStatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*Contact
	for rows.Next() {
		c := &Contact{}
		if err := rows.Scan(&c.UserID, &c.Username, &c.FirstName, &c.LastName); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		c.DisplayName = displayName(c)
		contacts = append(contacts, c)
	}

	return contacts, nil
}

func displayName(c *Contact) string {
	if c.FirstName != "" {
		if c.LastName != "" {
			return c.FirstName + " " + c.LastName
		}
		return c.FirstName
	}
	return c.Username
}
