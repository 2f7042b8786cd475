package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/splitledger/splitledger/internal/api/middleware"
	"github.com/splitledger/splitledger/internal/apperr"
	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// AuthHandler serves registration, login, and the current-user lookup.
type AuthHandler struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         auth.UserStorage
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users auth.UserStorage) *AuthHandler {
	return &AuthHandler{authenticator: authenticator, jwtManager: jwtManager, users: users}
}

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		respondError(w, apperr.BadRequest(apperr.CodeValidation, "a valid email is required"))
		return
	}
	if req.DisplayName == "" {
		respondError(w, apperr.BadRequest(apperr.CodeValidation, "display_name is required"))
		return
	}

	user, err := h.authenticator.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakPassword):
			respondError(w, apperr.BadRequest(apperr.CodeValidation, err.Error()))
		case errors.Is(err, auth.ErrEmailExists):
			respondError(w, apperr.New(apperr.CodeEmailExists, "email already registered", http.StatusConflict))
		default:
			respondError(w, err)
		}
		return
	}

	h.issueToken(w, user, http.StatusCreated)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.authenticator.Authenticate(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)), req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, apperr.Unauthorized("invalid email or password"))
			return
		}
		respondError(w, err)
		return
	}

	h.issueToken(w, user, http.StatusOK)
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, apperr.NotFound(apperr.CodeUserNotFound, "user not found"))
			return
		}
		respondError(w, apperr.Internal("failed to load user", err))
		return
	}
	respondJSON(w, http.StatusOK, userResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	})
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, user *models.User, status int) {
	token, err := h.jwtManager.Generate(user)
	if err != nil {
		respondError(w, apperr.Internal("failed to issue token", err))
		return
	}
	respondJSON(w, status, authResponse{
		Token: token,
		User: userResponse{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
		},
	})
}
