package contact

import (
	"context"
	"errors"

	"github.com/fyulita/FairKeep/internal/user"
)

// Common errors
var (
	ErrRequestNotFound   = errors.New("contact request not found")
	ErrRequestExists     = errors.New("a contact request between these users already exists")
	ErrCannotContactSelf = errors.New("cannot send a contact request to yourself")
	ErrNotRecipient      = errors.New("only the recipient can answer a contact request")
	ErrAlreadyAnswered   = errors.New("this contact request was already answered")
)

// Service handles contact business logic
type Service struct {
	repo  *Repository
	users *user.Repository
}

// NewService creates a new contact service
func NewService(repo *Repository, users *user.Repository) *Service {
	return &Service{repo: repo, users: users}
}

// SendRequest creates a pending contact request from fromUser to toUser
func (s *Service) SendRequest(ctx context.Context, fromUser, toUser int64) (*Request, error) {
	if fromUser == toUser {
		return nil, ErrCannotContactSelf
	}

	recipient, err := s.users.GetByID(ctx, toUser)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, user.ErrUserNotFound
	}

	existing, err := s.repo.GetRequestBetween(ctx, fromUser, toUser)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrRequestExists
	}

	return s.repo.CreateRequest(ctx, fromUser, toUser)
}

// ListRequests retrieves the requests a user sent or received
func (s *Service) ListRequests(ctx context.Context, userID int64) ([]*Request, error) {
	return s.repo.ListRequestsForUser(ctx, userID)
}

// Accept marks a pending request as accepted. Only the recipient may accept.
func (s *Service) Accept(ctx context.Context, requestID, userID int64) (*Request, error) {
	return s.answer(ctx, requestID, userID, RequestStatusAccepted)
}

// Reject marks a pending request as rejected. Only the recipient may reject.
func (s *Service) Reject(ctx context.Context, requestID, userID int64) (*Request, error) {
	return s.answer(ctx, requestID, userID, RequestStatusRejected)
}

func (s *Service) answer(ctx context.Context, requestID, userID int64, status RequestStatus) (*Request, error) {
	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	if req.ToUser != userID {
		return nil, ErrNotRecipient
	}
	if req.Status != RequestStatusPending {
		return nil, ErrAlreadyAnswered
	}

	return s.repo.UpdateRequestStatus(ctx, requestID, status)
}

// ListContacts retrieves a user's accepted contacts
func (s *Service) ListContacts(ctx context.Context, userID int64) ([]*Contact, error) {
	return s.repo.ListContacts(ctx, userID)
}
