package contact

import "time"

// RequestStatus represents the status of a contact request
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

// Request represents a contact request between two users. An accepted
// request makes the two users contacts of each other.
type Request struct {
	ID        int64         `json:"id"`
	FromUser  int64         `json:"from_user"`
	ToUser    int64         `json:"to_user"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Populated via JOIN
	FromUsername string `json:"from_username,omitempty"`
	ToUsername   string `json:"to_username,omitempty"`
}

// Contact is one entry in a user's accepted-contact list
type Contact struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	DisplayName string `json:"display_name"`
}
