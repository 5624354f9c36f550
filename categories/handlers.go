package categories

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/finflow-go/apperror"
	"github.com/user/finflow-go/auth"
)

// Handlers exposes the category Service over HTTP.
type Handlers struct {
	service Service
}

// NewHandlers creates new category handlers.
func NewHandlers(service Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the category routes on a router that already has
// the JWT middleware applied.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList())
	r.Post("/", h.HandleCreate())
	r.Put("/{id}", h.HandleUpdate())
	r.Delete("/{id}", h.HandleDelete())
}

// HandleList godoc
// @Summary List categories
// @Description Lists the caller's categories plus shared system categories, optionally filtered by type.
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param type query string false "INCOME or EXPENSE"
// @Success 200 {array} categories.Category
// @Failure 400 {object} apperror.ErrorResponse "Unknown type filter"
// @Failure 401 {object} apperror.ErrorResponse "Missing or invalid token"
// @Router /categories [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user ID not found in context", nil))
			return
		}

		cats, err := h.service.List(r.Context(), userID, r.URL.Query().Get("type"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, cats)
	}
}

// HandleCreate godoc
// @Summary Create a category
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param categoryBody body categories.CreateCategoryRequest true "Category details"
// @Success 201 {object} categories.Category
// @Failure 400 {object} apperror.ErrorResponse "Invalid input"
// @Failure 409 {object} apperror.ErrorResponse "Category already exists"
// @Router /categories [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user ID not found in context", nil))
			return
		}

		var req CreateCategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		cat, err := h.service.Create(r.Context(), userID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusCreated, cat)
	}
}

// HandleUpdate godoc
// @Summary Update a category
// @Description Updates a category owned by the caller. Shared categories are read-only.
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param categoryBody body categories.UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} categories.Category
// @Failure 400 {object} apperror.ErrorResponse "Invalid input"
// @Failure 404 {object} apperror.ErrorResponse "Category not found"
// @Router /categories/{id} [put]
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user ID not found in context", nil))
			return
		}

		categoryID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid category id", nil))
			return
		}

		var req UpdateCategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		cat, err := h.service.Update(r.Context(), userID, categoryID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, cat)
	}
}

// HandleDelete godoc
// @Summary Delete a category
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} apperror.ErrorResponse "Category not found"
// @Failure 409 {object} apperror.ErrorResponse "Category still referenced"
// @Router /categories/{id} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user ID not found in context", nil))
			return
		}

		categoryID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid category id", nil))
			return
		}

		if err := h.service.Delete(r.Context(), userID, categoryID); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
	}
}
