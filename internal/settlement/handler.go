package settlement

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fyulita/FairKeep/internal/ledger"
	"github.com/fyulita/FairKeep/internal/split"
	"github.com/fyulita/FairKeep/pkg/middleware"
	"github.com/fyulita/FairKeep/pkg/response"
)

// Handler handles HTTP requests for balances and settle-up
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetBalances handles GET /balances
// @Summary      Get balances
// @Description  Get the caller's net balance per (counterparty, currency), with any malformed expenses excluded and reported
// @Tags         balances
// @Produce      json
// @Success      200 {object} response.APIResponse{data=BalancesResponse}
// @Router       /balances [get]
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	balances, err := h.service.Balances(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to compute balances")
		return
	}

	response.JSON(w, http.StatusOK, balances)
}

// SettleUp handles POST /settlements
// @Summary      Settle up with a user
// @Description  Zero the balance with a user in one currency by recording a settlement payment
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body SettleUpRequest true "Settle-up request"
// @Success      201 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse "The balance changed since the caller confirmed it"
// @Failure      422 {object} response.APIResponse "Nothing to settle"
// @Router       /settlements [post]
func (h *Handler) SettleUp(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req SettleUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	settlement, err := h.service.SettleUp(r.Context(), userID, &req)
	if err != nil {
		var verr *split.ValidationError
		switch {
		case errors.As(err, &verr):
			response.BadRequest(w, verr.Message)
		case errors.Is(err, ErrCannotSettleSelf):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ledger.ErrNothingToSettle):
			response.UnprocessableEntity(w, err.Error())
		case errors.Is(err, ErrBalanceChanged):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to settle up")
		}
		return
	}

	response.JSON(w, http.StatusCreated, settlement.ToResponse())
}
