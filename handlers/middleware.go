package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/camden-git/genealogybackend/models"
	"github.com/camden-git/genealogybackend/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// UserContextKey is the key used to store the user object in the request context.
	UserContextKey ContextKey = "user"

	// TokenCookieName holds the session token for browser clients.
	TokenCookieName = "token"
	// LoginPath is where unauthenticated requests are sent.
	LoginPath = "/login"

	tokenIssuer = "genealogybackend"
)

// TokenIssuer signs and verifies HS256 session tokens whose subject is the user ID.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl}
}

// Issue returns a signed token for user and its expiry.
func (t *TokenIssuer) Issue(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(t.ttl)
	claims := &jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    tokenIssuer,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies tokenString and returns the user ID it was issued for.
func (t *TokenIssuer) Parse(tokenString string) (uint, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, errors.New("invalid token")
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return 0, fmt.Errorf("invalid user ID in token subject '%s'", claims.Subject)
	}
	return uint(userID), nil
}

// tokenFromRequest reads a bearer token, falling back to the session cookie.
func tokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := r.Cookie(TokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// AuthMiddleware resolves the current user from the request token and puts it
// in the request context. Requests without a valid identity are redirected to
// the login page; they never receive a 403.
func AuthMiddleware(tokens *TokenIssuer, userRepo repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r)
			if tokenString == "" {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			userID, err := tokens.Parse(tokenString)
			if err != nil {
				log.Printf("Rejected token on %s %s: %v", r.Method, r.URL.Path, err)
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			user, err := userRepo.GetByID(userID)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					log.Printf("Error loading user %d for request: %v", userID, err)
					WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to load current user")
					return
				}
				// user was deleted after the token was issued
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the user AuthMiddleware stored in the context.
func CurrentUser(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	return user, ok && user != nil
}

// currentUserOrRedirect is the guard handlers use; it redirects like the middleware.
func currentUserOrRedirect(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := CurrentUser(r)
	if !ok {
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return nil, false
	}
	return user, true
}
