package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spendwise/spendwise/internal/handler/dto"
	"github.com/spendwise/spendwise/internal/middleware"
	"github.com/spendwise/spendwise/internal/service"
)

// CookieConfig describes how the session cookie is issued.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// AuthHandler handles registration, login, and logout.
type AuthHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
	cookie   CookieConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts *service.AccountService, logger *slog.Logger, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		logger:   logger,
		cookie:   cookie,
	}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON")
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "Username, email, and password are required")
		case errors.Is(err, service.ErrDuplicateUser):
			writeError(w, http.StatusBadRequest, "DUPLICATE_USER", "Username or email already exists")
		default:
			h.logger.Error("registration failed",
				slog.String("error", err.Error()),
				slog.String("request_id", middleware.GetRequestID(r.Context())),
			)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		}
		return
	}

	h.logger.Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)

	writeJSON(w, http.StatusCreated, dto.MessageResponse{Message: "User registered successfully"})
}

// Login handles POST /api/login. On success the session token travels only in
// an HTTP-only cookie, never in the response body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON")
		return
	}

	token, subject, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "Username and password are required")
		case errors.Is(err, service.ErrInvalidCredentials):
			// Same response for unknown username and wrong password.
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
		default:
			h.logger.Error("login failed",
				slog.String("error", err.Error()),
				slog.String("request_id", middleware.GetRequestID(r.Context())),
			)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		}
		return
	}

	http.SetCookie(w, h.sessionCookie(token, h.cookie.TTL))

	h.logger.Info("user logged in",
		slog.Int64("user_id", subject.UserID),
		slog.String("session_id", subject.SessionID),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Message:  "Login successful",
		UserID:   subject.UserID,
		Username: subject.Username,
	})
}

// Logout handles POST /api/logout. Runs behind the session middleware, so the
// cookie is present and valid by the time we get here. A store failure is a
// 500, not a silent success.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookie.Name)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	if err := h.accounts.Logout(r.Context(), cookie.Value); err != nil {
		h.logger.Error("logout failed",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not log out")
		return
	}

	// Expire the cookie client-side as well.
	http.SetCookie(w, h.sessionCookie("", -time.Hour))

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

// sessionCookie builds the session cookie. A non-positive ttl expires it.
func (h *AuthHandler) sessionCookie(token string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl.Seconds())
	} else {
		cookie.MaxAge = -1
	}
	return cookie
}
