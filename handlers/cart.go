package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bookbazaar/backend/apperr"
	"github.com/bookbazaar/backend/models"
	"github.com/bookbazaar/backend/store"
)

type CartHandler struct {
	DB    store.CartStore
	Users store.UserStore
	Books store.BookStore
}

type AddToCartRequest struct {
	Email       string `json:"email"`
	ReferenceID string `json:"reference_id"`
}

// Add snapshots the book into the cart. The snapshot is never refreshed; a
// later price change on the listing does not reach existing carts.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidInput("invalid json"))
		return
	}
	if req.Email == "" || req.ReferenceID == "" {
		writeError(w, apperr.InvalidInput("email and reference_id are required"))
		return
	}

	user, err := h.Users.UserByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeError(w, apperr.NotFound("user not found"))
		return
	}

	book, err := h.Books.BookByReferenceID(r.Context(), req.ReferenceID)
	if err != nil {
		writeError(w, err)
		return
	}
	if book == nil {
		writeError(w, apperr.NotFound("book not found"))
		return
	}

	exists, err := h.DB.CartEntryExists(r.Context(), req.Email, req.ReferenceID)
	if err != nil {
		writeError(w, err)
		return
	}
	if exists {
		writeError(w, apperr.Conflict("book already in cart"))
		return
	}

	entry := &models.CartEntry{
		Email:       req.Email,
		ReferenceID: req.ReferenceID,
		BookName:    book.BookName,
		AuthorName:  book.AuthorName,
		FinalPrice:  book.FinalPrice,
		BookImages:  book.BookImages,
		AddedAt:     time.Now(),
	}
	if err := h.DB.AddCartEntry(r.Context(), entry); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Book added to cart successfully"})
}

func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, apperr.InvalidInput("email is required"))
		return
	}
	entries, err := h.DB.CartByEmail(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []models.CartEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart_items": entries})
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	referenceID := r.URL.Query().Get("reference_id")
	if email == "" || referenceID == "" {
		writeError(w, apperr.InvalidInput("email and reference_id are required"))
		return
	}
	removed, err := h.DB.RemoveCartEntry(r.Context(), email, referenceID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !removed {
		writeError(w, apperr.NotFound("book not found in cart"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Book removed from cart successfully"})
}
