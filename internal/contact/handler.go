package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fyulita/FairKeep/internal/user"
	"github.com/fyulita/FairKeep/pkg/middleware"
	"github.com/fyulita/FairKeep/pkg/response"
)

// Handler handles HTTP requests for contact operations
type Handler struct {
	service *Service
}

// NewHandler creates a new contact handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for contact endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListContacts)
	r.Get("/requests", h.ListRequests)
	r.Post("/requests", h.SendRequest)
	r.Post("/requests/{id}/accept", h.Accept)
	r.Post("/requests/{id}/reject", h.Reject)

	return r
}

// SendRequest handles POST /contacts/requests
// @Summary      Send a contact request
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        request body SendRequestRequest true "Contact request"
// @Success      201 {object} response.APIResponse{data=RequestResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /contacts/requests [post]
func (h *Handler) SendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req SendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	created, err := h.service.SendRequest(r.Context(), userID, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, ErrCannotContactSelf):
			response.BadRequest(w, err.Error())
		case errors.Is(err, user.ErrUserNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrRequestExists):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to send contact request")
		}
		return
	}

	response.JSON(w, http.StatusCreated, created.ToResponse())
}

// ListRequests handles GET /contacts/requests
// @Summary      List contact requests
// @Description  Get the contact requests the caller sent or received
// @Tags         contacts
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]RequestResponse}
// @Router       /contacts/requests [get]
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	requests, err := h.service.ListRequests(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to list contact requests")
		return
	}

	requestResponses := make([]*RequestResponse, len(requests))
	for i, req := range requests {
		requestResponses[i] = req.ToResponse()
	}

	response.JSON(w, http.StatusOK, requestResponses)
}

// Accept handles POST /contacts/requests/{id}/accept
// @Summary      Accept a contact request
// @Tags         contacts
// @Produce      json
// @Param        id path int true "Request ID"
// @Success      200 {object} response.APIResponse{data=RequestResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /contacts/requests/{id}/accept [post]
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	h.answer(w, r, h.service.Accept)
}

// Reject handles POST /contacts/requests/{id}/reject
// @Summary      Reject a contact request
// @Tags         contacts
// @Produce      json
// @Param        id path int true "Request ID"
// @Success      200 {object} response.APIResponse{data=RequestResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /contacts/requests/{id}/reject [post]
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.answer(w, r, h.service.Reject)
}

func (h *Handler) answer(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id, userID int64) (*Request, error)) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid request ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	updated, err := fn(r.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotRecipient):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrAlreadyAnswered):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to answer contact request")
		}
		return
	}

	response.JSON(w, http.StatusOK, updated.ToResponse())
}

// ListContacts handles GET /contacts
// @Summary      List contacts
// @Description  Get the caller's accepted contacts
// @Tags         contacts
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]Contact}
// @Router       /contacts [get]
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	contacts, err := h.service.ListContacts(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to list contacts")
		return
	}

	response.JSON(w, http.StatusOK, contacts)
}
