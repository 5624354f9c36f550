package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/user/finflow-go/apperror"
)

// Handlers exposes the AuthService over HTTP.
type Handlers struct {
	service *AuthService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *AuthService) *Handlers {
	return &Handlers{service: service}
}

// HandleRegister godoc
// @Summary User registration
// @Description Registers a new user, seeds their default categories and opens a session.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "User registration details"
// @Success 201 {object} auth.AuthResponse "User created, tokens issued"
// @Failure 400 {object} apperror.ErrorResponse "Invalid input or missing fields"
// @Failure 409 {object} apperror.ErrorResponse "Username, email or phone already taken"
// @Failure 500 {object} apperror.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		resp, err := h.service.Register(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusCreated, resp)
	}
}

// HandleLogin godoc
// @Summary User login
// @Description Logs in with a username, email or phone plus password and returns a token pair.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User login credentials"
// @Success 200 {object} auth.AuthResponse "Login successful"
// @Failure 400 {object} apperror.ErrorResponse "Invalid input or missing fields"
// @Failure 401 {object} apperror.ErrorResponse "Invalid credentials"
// @Failure 500 {object} apperror.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		resp, err := h.service.Login(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

// HandleRefreshToken godoc
// @Summary Refresh tokens
// @Description Rotates the session: the presented refresh token is exchanged for a new pair and becomes unusable.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.TokenResponse "Tokens rotated"
// @Failure 401 {object} apperror.ErrorResponse "Missing or malformed Authorization header"
// @Failure 403 {object} apperror.ErrorResponse "Unknown, replayed or expired refresh token"
// @Failure 500 {object} apperror.ErrorResponse "Internal server error"
// @Router /auth/refresh [post]
// The refresh token travels in the Authorization header as a Bearer
// credential; there is no request body.
func (h *Handlers) HandleRefreshToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString, appErr := bearerToken(r)
		if appErr != nil {
			WriteError(w, r, appErr)
			return
		}

		resp, err := h.service.Refresh(r.Context(), tokenString)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

// HandleLogout godoc
// @Summary Log out
// @Description Invalidates the user's session. Idempotent.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Logged out"
// @Failure 401 {object} apperror.ErrorResponse "Missing or invalid access token"
// @Failure 500 {object} apperror.ErrorResponse "Internal server error"
// @Router /auth/logout [post]
func (h *Handlers) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("user ID not found in context", nil))
			return
		}

		if err := h.service.Logout(r.Context(), userID); err != nil {
			WriteError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	}
}

// bearerToken extracts the credential from an "Authorization: Bearer x" header.
func bearerToken(r *http.Request) (string, *apperror.AppError) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", apperror.NewAuthError("Authorization header is missing", nil)
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", apperror.NewAuthError("Authorization header format must be Bearer {token}", nil)
	}
	return parts[1], nil
}

// WriteJSON serializes data to the response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteError converts any error into the standard error response. Errors
// that are not AppErrors are wrapped as internal errors so no stack detail
// reaches the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}
	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
