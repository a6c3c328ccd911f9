package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/camden-git/genealogybackend/handlers"
	"github.com/camden-git/genealogybackend/models"
	"github.com/camden-git/genealogybackend/repository"
	"github.com/camden-git/genealogybackend/testutil"
)

// staleUsers misses every email lookup, like a registration racing another
// one for the same address.
type staleUsers struct {
	repository.UserRepository
}

func (staleUsers) GetByEmail(string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestRegisterRaceOnTakenEmailIsAValidationError(t *testing.T) {
	cfg := testutil.Config(t)
	db := testutil.NewDB(t, cfg)
	existing := testutil.CreateUser(t, db, "Ada")

	users := staleUsers{UserRepository: repository.NewGormUserRepository(db)}
	h := handlers.NewAuthHandler(users, handlers.NewTokenIssuer(cfg.JWTSecret, time.Hour))

	body, err := json.Marshal(map[string]string{
		"name": "Ada", "email": existing.Email, "password": "long-enough",
	})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body)))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	var apiErr handlers.APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	require.Len(t, apiErr.Errors, 1)
	assert.Equal(t, "email", apiErr.Errors[0].Field)
	assert.Equal(t, int64(1), testutil.Count(t, db, &models.User{}, "email = ?", existing.Email))
}
