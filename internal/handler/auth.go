package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shelfmark/shelfmark/internal/auth"
	"github.com/shelfmark/shelfmark/internal/handler/dto"
	"github.com/shelfmark/shelfmark/internal/service"
)

// AuthHandler handles registration, login and profile endpoints.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
	isDev  bool
}

// NewAuthHandler creates a new AuthHandler. isDev controls whether
// internal error detail is included in 500 responses.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger, isDev bool) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
		isDev:  isDev,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body"})
		return
	}

	result, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleAuthError(w, err, "Server error during registration")
		return
	}

	h.logger.Info("user_registered",
		"user_id", result.User.ID,
	)

	writeJSON(w, http.StatusCreated, dto.AuthResponse{
		Message: "User registered successfully",
		Token:   result.Token,
		User:    dto.ToUserView(result.User),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body"})
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleAuthError(w, err, "Server error during login")
		return
	}

	h.logger.Info("user_logged_in",
		"user_id", result.User.ID,
	)

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Message: "Login successful",
		Token:   result.Token,
		User:    dto.ToUserView(result.User),
	})
}

// Profile handles GET /auth/profile. The auth gate has already resolved
// the caller; the user ID is threaded from the request identity.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or missing authentication token"})
		return
	}

	user, err := h.svc.Profile(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Message: "User not found"})
			return
		}
		h.writeInternalError(w, err, "Server error while fetching profile")
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileResponse{
		User: dto.ToProfileView(user),
	})
}

// handleAuthError maps register/login service errors to HTTP responses.
func (h *AuthHandler) handleAuthError(w http.ResponseWriter, err error, internalMsg string) {
	if ve, ok := service.AsValidationError(err); ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Message: "Validation failed",
			Errors:  ve.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrEmailTaken):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Message: "User already exists with this email",
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{
			Message: "Invalid email or password",
		})
	default:
		h.writeInternalError(w, err, internalMsg)
	}
}

// writeInternalError logs the cause and returns a 500. Detail is
// exposed to the caller only in development.
func (h *AuthHandler) writeInternalError(w http.ResponseWriter, err error, msg string) {
	h.logger.Error("internal_error", "error", err)

	resp := dto.ErrorResponse{Message: msg}
	if h.isDev {
		resp.Detail = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, resp)
}
