package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sundialhq/sundial/internal/api/middleware"
	"github.com/sundialhq/sundial/internal/domain"
)

type UserHandler struct {
	store domain.UserStore
}

func NewUserHandler(store domain.UserStore) *UserHandler {
	return &UserHandler{store: store}
}

type createUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type createUserResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	APIKey string `json:"api_key"`
}

// Create bootstraps a user account and returns its API key. The key is
// shown exactly once; only its hash is stored.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate API key")
		return
	}

	user := &domain.User{
		Email:      req.Email,
		Name:       req.Name,
		APIKeyHash: middleware.HashAPIKey(apiKey),
	}
	if err := h.store.Create(r.Context(), user); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, createUserResponse{
		ID:     user.ID.String(),
		Email:  user.Email,
		APIKey: apiKey,
	})
}

// Me returns the authenticated user.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func generateAPIKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "sk_" + hex.EncodeToString(buf), nil
}
