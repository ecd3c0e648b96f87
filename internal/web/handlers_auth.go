package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/modifymusic/modify/internal/auth"
	"github.com/modifymusic/modify/internal/db"
)

type contextKey string

const claimsKey contextKey = "claims"

// claimsFrom returns the authenticated claims placed by RequireAuth.
// Only call from handlers behind the middleware.
func claimsFrom(ctx context.Context) *auth.Claims {
	return ctx.Value(claimsKey).(*auth.Claims)
}

// RequireAuth extracts and verifies the bearer token, rejecting requests
// without a valid one.
func (h *Handlers) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, "access token required")
			return
		}

		claims, err := h.auth.ParseToken(token)
		if err != nil {
			respondError(w, http.StatusForbidden, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Signup handles POST /api/auth/signup.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := auth.ValidateSignup(req.Username, req.Email, req.Password); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("hashing password failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	user := db.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	err = h.users.Create(r.Context(), &user)
	if errors.Is(err, db.ErrAlreadyExists) {
		respondError(w, http.StatusConflict, "user already exists")
		return
	}
	if err != nil {
		log.Printf("creating user failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := h.auth.IssueToken(user.ID, user.Username, user.Email)
	if err != nil {
		log.Printf("issuing token failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"token":   token,
		"user":    userPayload{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

// Login handles POST /api/auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, db.ErrNotFound) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		log.Printf("loading user failed: %v", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.auth.IssueToken(user.ID, user.Username, user.Email)
	if err != nil {
		log.Printf("issuing token failed: %v", err)
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    userPayload{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

// Verify handles GET /api/auth/verify.
func (h *Handlers) Verify(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{
		"valid": true,
		"user":  userPayload{ID: claims.UserID, Username: claims.Username, Email: claims.Email},
	})
}
