package transactions

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/finflow-go/apperror"
	"github.com/user/finflow-go/auth"
)

// Handlers exposes the transaction Service over HTTP.
type Handlers struct {
	service Service
}

// NewHandlers creates new transaction handlers.
func NewHandlers(service Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the transaction routes on a router that already has
// the JWT middleware applied. The fixed report paths are registered before
// the {id} routes so chi does not swallow them as path parameters.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList())
	r.Post("/", h.HandleCreate())
	r.Get("/current-month", h.HandleCurrentMonth())
	r.Get("/weekly-report", h.HandleWeeklyReport())
	r.Get("/monthly-category-report", h.HandleMonthlyCategoryReport())
	r.Get("/{id}", h.HandleGet())
	r.Put("/{id}", h.HandleUpdate())
	r.Delete("/{id}", h.HandleDelete())
}

// HandleCreate godoc
// @Summary Record a transaction
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transactionBody body transactions.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} transactions.Transaction
// @Failure 400 {object} apperror.ErrorResponse "Invalid input or unknown category"
// @Failure 401 {object} apperror.ErrorResponse "Missing or invalid token"
// @Router /transactions [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user ID not found in context", nil))
			return
		}

		var req CreateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		t, err := h.service.Create(r.Context(), userID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusCreated, t)
	}
}

// HandleList godoc
// @Summary List transactions
// @Description Returns the caller's most recent 100 transactions, newest first.
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} transactions.Transaction
// @Failure 401 {object} apperror.ErrorResponse "Missing or invalid token"
// @Router /transactions [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user ID not found in context", nil))
			return
		}

		txs, err := h.service.List(r.Context(), userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, txs)
	}
}

// HandleGet godoc
// @Summary Get a transaction
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} transactions.Transaction
// @Failure 404 {object} apperror.ErrorResponse "Transaction not found"
// @Router /transactions/{id} [get]
func (h *Handlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user ID not found in context", nil))
			return
		}

		transactionID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid transaction id", nil))
			return
		}

		t, err := h.service.Get(r.Context(), userID, transactionID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, t)
	}
}

// HandleUpdate godoc
// @Summary Update a transaction
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param transactionBody body transactions.UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} transactions.Transaction
// @Failure 400 {object} apperror.ErrorResponse "Invalid input"
// @Failure 404 {object} apperror.ErrorResponse "Transaction not found"
// @Router /transactions/{id} [put]
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user ID not found in context", nil))
			return
		}

		transactionID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid transaction id", nil))
			return
		}

		var req UpdateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		t, err := h.service.Update(r.Context(), userID, transactionID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, t)
	}
}

// HandleDelete godoc
// @Summary Delete a transaction
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} apperror.ErrorResponse "Transaction not found"
// @Router /transactions/{id} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user ID not found in context", nil))
			return
		}

		transactionID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid transaction id", nil))
			return
		}

		if err := h.service.Delete(r.Context(), userID, transactionID); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
	}
}

// HandleCurrentMonth godoc
// @Summary List current-month transactions
// @Description Lists the caller's transactions in the current calendar month (UTC), optionally filtered by category type.
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param type query string false "INCOME or EXPENSE"
// @Success 200 {array} transactions.Transaction
// @Failure 400 {object} apperror.ErrorResponse "Unknown type filter"
// @Router /transactions/current-month [get]
func (h *Handlers) HandleCurrentMonth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user ID not found in context", nil))
			return
		}

		txs, err := h.service.CurrentMonth(r.Context(), userID, r.URL.Query().Get("type"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, txs)
	}
}

// HandleWeeklyReport godoc
// @Summary Weekly expense report
// @Description Expense totals per day for the current ISO week (Monday to Sunday, UTC). Always returns seven rows.
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} transactions.DayTotal
// @Failure 401 {object} apperror.ErrorResponse "Missing or invalid token"
// @Router /transactions/weekly-report [get]
func (h *Handlers) HandleWeeklyReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user ID not found in context", nil))
			return
		}

		report, err := h.service.WeeklyReport(r.Context(), userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, report)
	}
}

// HandleMonthlyCategoryReport godoc
// @Summary Monthly expense-by-category report
// @Description Expense totals per category for the current calendar month (UTC), largest first.
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} transactions.CategoryTotal
// @Failure 401 {object} apperror.ErrorResponse "Missing or invalid token"
// @Router /transactions/monthly-category-report [get]
func (h *Handlers) HandleMonthlyCategoryReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user ID not found in context", nil))
			return
		}

		report, err := h.service.MonthlyCategoryReport(r.Context(), userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, report)
	}
}
