package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/platform/user"
)

// UserService defines the user operations needed by AuthHandler
type UserService interface {
	Register(ctx context.Context, email, displayName, password string) (*user.User, error)
	Login(ctx context.Context, email, password string) (*user.User, error)
}

// TokenIssuer defines the JWT operations needed by AuthHandler
type TokenIssuer interface {
	GenerateToken(userID uuid.UUID, email string) (string, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	users  UserService
	tokens TokenIssuer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users UserService, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// UserInfo represents user information without sensitive data
type UserInfo struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" {
		respondError(w, "email is required", http.StatusBadRequest)
		return
	}
	if req.Password == "" {
		respondError(w, "password is required", http.StatusBadRequest)
		return
	}

	registered, err := h.users.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		switch err {
		case user.ErrUserAlreadyExists:
			respondError(w, "user with this email already exists", http.StatusConflict)
		case user.ErrPasswordTooShort:
			respondError(w, "password must be at least 8 characters", http.StatusBadRequest)
		case user.ErrInvalidEmail:
			respondError(w, "invalid email address", http.StatusBadRequest)
		default:
			respondError(w, "failed to register user", http.StatusInternalServerError)
		}
		return
	}

	token, err := h.tokens.GenerateToken(registered.ID, registered.Email)
	if err != nil {
		respondError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	respondJSON(w, AuthResponse{
		Token: token,
		User: &UserInfo{
			ID:          registered.ID.String(),
			Email:       registered.Email,
			DisplayName: registered.DisplayName,
		},
	}, http.StatusCreated)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	u, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if err == user.ErrInvalidPassword {
			respondError(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		respondError(w, "failed to log in", http.StatusInternalServerError)
		return
	}

	token, err := h.tokens.GenerateToken(u.ID, u.Email)
	if err != nil {
		respondError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	respondJSON(w, AuthResponse{
		Token: token,
		User: &UserInfo{
			ID:          u.ID.String(),
			Email:       u.Email,
			DisplayName: u.DisplayName,
		},
	}, http.StatusOK)
}
