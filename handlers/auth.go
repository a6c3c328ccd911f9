package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/camden-git/genealogybackend/models"
	"github.com/camden-git/genealogybackend/repository"
	"github.com/camden-git/genealogybackend/services"
	"gorm.io/gorm"
)

type AuthHandler struct {
	UserRepo repository.UserRepository
	Tokens   *TokenIssuer
}

func NewAuthHandler(userRepo repository.UserRepository, tokens *TokenIssuer) *AuthHandler {
	return &AuthHandler{UserRepo: userRepo, Tokens: tokens}
}

type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	User      userResponse `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type RegisterPayload struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"` // bcrypt ignores bytes past 72
}

// LoginPage is where unauthenticated requests are redirected to.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Authentication required. POST email and password to /login.",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}
	payload.Email = strings.TrimSpace(payload.Email)
	if err := services.Validate(payload); err != nil {
		writeServiceError(w, err, "log in")
		return
	}

	user, err := h.UserRepo.GetByEmail(payload.Email)
	if err != nil || !user.CheckPassword(payload.Password) {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error looking up user '%s' during login: %v", payload.Email, err)
		}
		WriteAPIError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		return
	}

	token, expiresAt, err := h.Tokens.Issue(user)
	if err != nil {
		log.Printf("Error issuing token for user %d: %v", user.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to generate token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		User:      newUserResponse(user),
		ExpiresAt: expiresAt,
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.TrimSpace(payload.Email)
	if err := services.Validate(payload); err != nil {
		writeServiceError(w, err, "register")
		return
	}

	if _, err := h.UserRepo.GetByEmail(payload.Email); err == nil {
		writeEmailTaken(w)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		writeServiceError(w, err, "register")
		return
	}

	newUser := &models.User{Name: payload.Name, Email: payload.Email}
	if err := newUser.SetPassword(payload.Password); err != nil {
		writeServiceError(w, err, "hash password")
		return
	}
	if err := h.UserRepo.Create(newUser); err != nil {
		// a concurrent registration can still trip the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeEmailTaken(w)
			return
		}
		writeServiceError(w, err, "create user")
		return
	}

	writeJSON(w, http.StatusCreated, newUserResponse(newUser))
}

func writeEmailTaken(w http.ResponseWriter) {
	WriteValidationError(w, &services.ValidationError{Fields: map[string]string{
		"email": "The email has already been taken.",
	}})
}

// Logout clears the session cookie; bearer tokens are discarded client-side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUserOrRedirect(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}
