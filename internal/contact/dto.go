package contact

// SendRequestRequest represents the request to send a contact request
type SendRequestRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
}

// RequestResponse represents a contact request
type RequestResponse struct {
	ID           int64         `json:"id"`
	FromUser     int64         `json:"from_user"`
	FromUsername string        `json:"from_username,omitempty"`
	ToUser       int64         `json:"to_user"`
	ToUsername   string        `json:"to_username,omitempty"`
	Status       RequestStatus `json:"status"`
	CreatedAt    string        `json:"created_at"`
}

// ToResponse converts a Request model to a RequestResponse DTO
func (r *Request) ToResponse() *RequestResponse {
	return &RequestResponse{
		ID:           r.ID,
		FromUser:     r.FromUser,
		FromUsername: r.FromUsername,
		ToUser:       r.ToUser,
		ToUsername:   r.ToUsername,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
