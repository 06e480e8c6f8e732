package activity

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fyulita/FairKeep/pkg/middleware"
	"github.com/fyulita/FairKeep/pkg/response"
)

// Handler handles HTTP requests for the activity feed
type Handler struct {
	service *Service
}

// NewHandler creates a new activity handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for activity endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	return r
}

// ActivityResponse represents one audit entry in the feed
type ActivityResponse struct {
	ID            int64  `json:"id"`
	ExpenseID     *int64 `json:"expense_id,omitempty"`
	ActorID       *int64 `json:"actor_id,omitempty"`
	ActorUsername string `json:"actor_username,omitempty"`
	Action        Action `json:"action"`
	ExpenseName   string `json:"expense_name"`
	ExpenseAmount string `json:"expense_amount"`
	Currency      string `json:"currency"`
	SplitMethod   string `json:"split_method,omitempty"`
	ExpenseDate   string `json:"expense_date,omitempty"`
	CreatedAt     string `json:"created_at"`
}

func toResponse(a *Activity) *ActivityResponse {
	resp := &ActivityResponse{
		ID:            a.ID,
		ExpenseID:     a.ExpenseID,
		ActorID:       a.ActorID,
		ActorUsername: a.ActorUsername,
		Action:        a.Action,
		ExpenseName:   a.ExpenseName,
		ExpenseAmount: a.ExpenseAmount.StringFixed(2),
		Currency:      a.Currency,
		SplitMethod:   a.SplitMethod,
		CreatedAt:     a.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if a.ExpenseDate != nil {
		resp.ExpenseDate = a.ExpenseDate.Format("2006-01-02")
	}
	return resp
}

// List handles GET /activities
// @Summary      List activity entries
// @Description  Get the audit trail of expense changes involving the caller
// @Tags         activities
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]ActivityResponse}
// @Router       /activities [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	activities, total, err := h.service.ListForUser(r.Context(), userID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list activities")
		return
	}

	activityResponses := make([]*ActivityResponse, len(activities))
	for i, a := range activities {
		activityResponses[i] = toResponse(a)
	}

	totalPages := (total + perPage - 1) / perPage
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}

	response.JSONWithMeta(w, http.StatusOK, activityResponses, meta)
}
