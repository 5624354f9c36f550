package budgets

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/finflow-go/apperror"
	"github.com/user/finflow-go/auth"
)

// Handlers exposes the budget Service over HTTP.
type Handlers struct {
	service Service
}

// NewHandlers creates new budget handlers.
func NewHandlers(service Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the budget routes on a router that already has the
// JWT middleware applied.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList())
	r.Post("/", h.HandleUpsert())
	r.Delete("/{id}", h.HandleDelete())
}

// HandleUpsert godoc
// @Summary Create or replace a budget
// @Description Upserts the budget keyed on (user, category, month). Posting the same key twice keeps one row with the latest amount.
// @Tags Budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param budgetBody body budgets.UpsertBudgetRequest true "Budget details; month defaults to the current month"
// @Success 200 {object} budgets.Budget
// @Failure 400 {object} apperror.ErrorResponse "Invalid input or non-expense category"
// @Failure 401 {object} apperror.ErrorResponse "Missing or invalid token"
// @Router /budgets [post]
func (h *Handlers) HandleUpsert() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user ID not found in context", nil))
			return
		}

		var req UpsertBudgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		budget, err := h.service.Upsert(r.Context(), userID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, budget)
	}
}

// HandleList godoc
// @Summary List budgets for a month
// @Tags Budgets
// @Produce json
// @Security BearerAuth
// @Param month query string false "Month in YYYY-MM form; defaults to the current month"
// @Success 200 {array} budgets.Budget
// @Failure 400 {object} apperror.ErrorResponse "Malformed month"
// @Failure 401 {object} apperror.ErrorResponse "Missing or invalid token"
// @Router /budgets [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user ID not found in context", nil))
			return
		}

		budgets, err := h.service.List(r.Context(), userID, r.URL.Query().Get("month"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, budgets)
	}
}

// HandleDelete godoc
// @Summary Delete a budget
// @Description Deletes a budget owned by the caller. A budget of another user yields the same 404 as a missing one.
// @Tags Budgets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Budget ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} apperror.ErrorResponse "Budget not found"
// @Router /budgets/{id} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user ID not found in context", nil))
			return
		}

		budgetID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid budget id", nil))
			return
		}

		if err := h.service.Delete(r.Context(), userID, budgetID); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, map[string]string{"message": "budget deleted"})
	}
}
