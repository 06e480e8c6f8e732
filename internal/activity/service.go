package activity

import "context"

// Service handles activity business logic
type Service struct {
	repo *Repository
}

// NewService creates a new activity service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Record writes an activity entry using q, which may be the transaction that
// carries the expense mutation the entry describes.
func (s *Service) Record(ctx context.Context, q DBTX, a *Activity) error {
	return s.repo.Insert(ctx, q, a)
}

// ListForUser retrieves the activity feed for a user
func (s *Service) ListForUser(ctx context.Context, userID int64, page, perPage int) ([]*Activity, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByUserID(ctx, userID, perPage, offset)
}
