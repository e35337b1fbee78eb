package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/buzzline/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

func newAuthFixture() (*AuthHandler, *MockUserRepository) {
	userRepo := new(MockUserRepository)
	return NewAuthHandler(userRepo, nil, testJWTSecret), userRepo
}

const validRegisterBody = `{
	"name": "Alice Doe",
	"password": "supersecret",
	"email": "alice@example.com",
	"user_name": "alice",
	"gender": "female",
	"mobile": "+15550001111",
	"isPublic": true
}`

func TestRegister(t *testing.T) {
	e := newTestEcho()

	t.Run("creates a user with a hashed password", func(t *testing.T) {
		h, userRepo := newAuthFixture()

		userRepo.On("GetUserByEmail", "alice@example.com").Return(nil, models.ErrUserNotFound)
		userRepo.On("GetUserByUsername", "alice").Return(nil, models.ErrUserNotFound)
		userRepo.On("CreateUser", mock.MatchedBy(func(u *models.User) bool {
			if u.Password == "supersecret" {
				return false
			}
			// Password registrations must leave the firebase link unset
			// so the unique index on it never sees two empty values.
			if u.FirebaseUID != nil {
				return false
			}
			return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("supersecret")) == nil
		})).Return(nil)

		c, rec := newJSONContext(e, http.MethodPost, "/register", validRegisterBody)

		err := h.Register(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)
		userRepo.AssertExpectations(t)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		h, userRepo := newAuthFixture()

		userRepo.On("GetUserByEmail", "alice@example.com").Return(&models.User{ID: 1, Email: "alice@example.com"}, nil)

		c, rec := newJSONContext(e, http.MethodPost, "/register", validRegisterBody)

		err := h.Register(c)

		assert.Equal(t, http.StatusConflict, statusOf(err, rec))
		userRepo.AssertNotCalled(t, "CreateUser", mock.Anything)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		h, userRepo := newAuthFixture()

		userRepo.On("GetUserByEmail", "alice@example.com").Return(nil, models.ErrUserNotFound)
		userRepo.On("GetUserByUsername", "alice").Return(&models.User{ID: 1, Username: "alice"}, nil)

		c, rec := newJSONContext(e, http.MethodPost, "/register", validRegisterBody)

		err := h.Register(c)

		assert.Equal(t, http.StatusConflict, statusOf(err, rec))
		userRepo.AssertNotCalled(t, "CreateUser", mock.Anything)
	})

	t.Run("racing duplicate insert surfaces as conflict", func(t *testing.T) {
		h, userRepo := newAuthFixture()

		userRepo.On("GetUserByEmail", "alice@example.com").Return(nil, models.ErrUserNotFound)
		userRepo.On("GetUserByUsername", "alice").Return(nil, models.ErrUserNotFound)
		userRepo.On("CreateUser", mock.Anything).Return(models.ErrUserExists)

		c, rec := newJSONContext(e, http.MethodPost, "/register", validRegisterBody)

		err := h.Register(c)

		assert.Equal(t, http.StatusConflict, statusOf(err, rec))
	})

	t.Run("short password is rejected", func(t *testing.T) {
		h, userRepo := newAuthFixture()

		body := `{
			"name": "Alice Doe",
			"password": "short",
			"email": "alice@example.com",
			"user_name": "alice",
			"gender": "female",
			"mobile": "+15550001111",
			"isPublic": true
		}`
		c, rec := newJSONContext(e, http.MethodPost, "/register", body)

		err := h.Register(c)

		assert.Equal(t, http.StatusBadRequest, statusOf(err, rec))
		userRepo.AssertNotCalled(t, "CreateUser", mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	e := newTestEcho()

	hash, _ := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	stored := &models.User{ID: 1, Email: "alice@example.com", Password: string(hash)}

	t.Run("valid credentials yield a signed token", func(t *testing.T) {
		h, userRepo := newAuthFixture()

		userRepo.On("GetUserByEmail", "alice@example.com").Return(stored, nil)

		c, rec := newJSONContext(e, http.MethodPost, "/login", `{"email":"alice@example.com","password":"supersecret"}`)

		err := h.Login(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]string
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		claims := &models.JwtCustomClaims{}
		token, err := jwt.ParseWithClaims(resp["token"], claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(testJWTSecret), nil
		})
		assert.NoError(t, err)
		assert.True(t, token.Valid)
		assert.Equal(t, uint(1), claims.UserID)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		h, userRepo := newAuthFixture()

		userRepo.On("GetUserByEmail", "alice@example.com").Return(stored, nil)

		c, rec := newJSONContext(e, http.MethodPost, "/login", `{"email":"alice@example.com","password":"wrongpass"}`)

		err := h.Login(c)

		assert.Equal(t, http.StatusUnauthorized, statusOf(err, rec))
	})

	t.Run("unknown email is unauthorized", func(t *testing.T) {
		h, userRepo := newAuthFixture()

		userRepo.On("GetUserByEmail", "nobody@example.com").Return(nil, models.ErrUserNotFound)

		c, rec := newJSONContext(e, http.MethodPost, "/login", `{"email":"nobody@example.com","password":"whatever"}`)

		err := h.Login(c)

		assert.Equal(t, http.StatusUnauthorized, statusOf(err, rec))
	})
}

func TestFirebaseLoginUnconfigured(t *testing.T) {
	e := newTestEcho()
	h, _ := newAuthFixture()

	c, rec := newJSONContext(e, http.MethodPost, "/firebase-login", `{"idToken":"abc"}`)

	err := h.FirebaseLogin(c)

	assert.Equal(t, http.StatusServiceUnavailable, statusOf(err, rec))
}
