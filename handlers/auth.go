package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookbazaar/backend/apperr"
	"github.com/bookbazaar/backend/models"
	"github.com/bookbazaar/backend/store"
)

// Accounts are gmail-only for now; the pattern is deliberate, not a generic
// email check.
var gmailRe = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@gmail\.com$`)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("gmailaddr", func(fl validator.FieldLevel) bool {
		return gmailRe.MatchString(fl.Field().String())
	})
	return v
}

type AuthHandler struct {
	DB       store.UserStore
	validate *validator.Validate
}

func NewAuthHandler(db store.UserStore) *AuthHandler {
	return &AuthHandler{DB: db, validate: newValidator()}
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,gmailaddr"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// validateSignup turns validator failures into InvalidInput errors naming
// the violated rule. Runs before any persistence.
func (h *AuthHandler) validateSignup(req *SignupRequest) error {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.InvalidInput("invalid signup request")
	}
	for _, fe := range verrs {
		switch {
		case fe.Field() == "Email":
			return apperr.InvalidInput("email must end with @gmail.com")
		case fe.Field() == "Password":
			return apperr.InvalidInput("password must be at least 8 characters long")
		}
	}
	return apperr.InvalidInput("name, email, password and role are required")
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidInput("invalid json"))
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := h.validateSignup(&req); err != nil {
		writeError(w, err)
		return
	}

	existing, err := h.DB.UserByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing != nil {
		writeError(w, apperr.Conflict("email already exists"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, err)
		return
	}
	user := &models.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hash),
		Role:      req.Role,
		CreatedAt: time.Now(),
	}
	if err := h.DB.CreateUser(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Signup successful"})
}

// Login deliberately answers unknown-email and wrong-password the same way.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidInput("invalid json"))
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if !gmailRe.MatchString(req.Email) {
		writeError(w, apperr.InvalidInput("email must end with @gmail.com"))
		return
	}

	user, err := h.DB.UserByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    UserResponse{Name: user.Name, Email: user.Email, Role: user.Role},
	})
}
