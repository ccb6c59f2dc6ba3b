package settlement

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/snapsplit/snapsplit/internal/expense"
	"github.com/snapsplit/snapsplit/pkg/middleware"
	"github.com/snapsplit/snapsplit/pkg/response"
)

// Handler handles HTTP requests for settlement operations
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/expense/{expenseId}", h.GetForExpense)
	r.Post("/{id}/mark-paid", h.MarkPaid)

	return r
}

// GetForExpense handles GET /settlements/expense/{expenseId}
// @Summary      Get settlements for an expense
// @Description  Return persisted settlements, computing and saving them on first access
// @Tags         settlements
// @Produce      json
// @Param        expenseId path string true "Expense ID"
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/expense/{expenseId} [get]
func (h *Handler) GetForExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	expenseID, err := uuid.Parse(chi.URLParam(r, "expenseId"))
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	settlements, err := h.service.GetOrCompute(r.Context(), expenseID, userID)
	if err != nil {
		switch {
		case errors.Is(err, expense.ErrExpenseNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, expense.ErrNotMember):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "Failed to get settlements")
		}
		return
	}

	settlementResponses := make([]*SettlementResponse, len(settlements))
	for i, s := range settlements {
		settlementResponses[i] = s.ToResponse()
	}

	response.JSON(w, http.StatusOK, settlementResponses)
}

// MarkPaid handles POST /settlements/{id}/mark-paid
// @Summary      Mark a settlement as paid
// @Description  Either party of a settlement can mark it as paid
// @Tags         settlements
// @Produce      json
// @Param        id path string true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/{id}/mark-paid [post]
func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	settlementID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid settlement ID")
		return
	}

	settlement, err := h.service.MarkPaid(r.Context(), settlementID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSettlementNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotInvolved):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrAlreadyPaid):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to mark settlement as paid")
		}
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}
