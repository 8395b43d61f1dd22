package handlers

import (
	"net/http"

	"github.com/bookbazaar/backend/apperr"
	"github.com/bookbazaar/backend/store"
)

type UsersHandler struct {
	DB store.UserStore
}

// Profile returns the user for ?email=, password excluded.
func (h *UsersHandler) Profile(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, apperr.InvalidInput("email is required"))
		return
	}
	user, err := h.DB.UserByEmail(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeError(w, apperr.NotFound("user not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user": UserResponse{Name: user.Name, Email: user.Email, Role: user.Role},
	})
}
