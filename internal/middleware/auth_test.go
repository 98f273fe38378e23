package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"improvemycity/config"
	"improvemycity/internal/middleware"
	"improvemycity/internal/model"
	"improvemycity/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserStore) FindByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) FindByID(id uuid.UUID) (*model.User, error) {
	args := m.Called(id)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) EmailExists(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func setupRouter(users *MockUserStore) (*gin.Engine, *service.AuthService) {
	gin.SetMode(gin.TestMode)

	authService := service.NewAuthService(users, config.JWTConfig{
		Secret:          "test-signing-secret",
		ExpirationHours: 1,
	}, "admin-key")

	r := gin.New()
	r.GET("/protected", middleware.Authenticate(authService), func(c *gin.Context) {
		user := middleware.Identity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": user.ID.String()})
	})
	r.GET("/admin", middleware.Authenticate(authService), middleware.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return r, authService
}

// registerUser creates a user through the service so the returned token is
// signed the same way the middleware verifies it.
func registerUser(t *testing.T, users *MockUserStore, authService *service.AuthService, role model.Role) (*model.User, string) {
	t.Helper()

	users.On("EmailExists", mock.AnythingOfType("string")).Return(false, nil)

	var created *model.User
	users.On("Create", mock.AnythingOfType("*model.User")).Run(func(args mock.Arguments) {
		created = args.Get(0).(*model.User)
	}).Return(nil)

	req := &model.RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
		Role:     role,
	}
	if role == model.RoleAdmin {
		req.AdminKey = "admin-key"
	}

	user, token, err := authService.Register(req)
	require.NoError(t, err)

	users.On("FindByID", user.ID).Return(created, nil)
	return user, token
}

func doRequest(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	r, _ := setupRouter(new(MockUserStore))

	w := doRequest(r, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsMalformedHeader(t *testing.T) {
	r, _ := setupRouter(new(MockUserStore))

	w := doRequest(r, "/protected", "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsInvalidToken(t *testing.T) {
	r, _ := setupRouter(new(MockUserStore))

	w := doRequest(r, "/protected", "Bearer not.a.valid.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateAttachesIdentity(t *testing.T) {
	users := new(MockUserStore)
	r, authService := setupRouter(users)
	user, token := registerUser(t, users, authService, model.RoleCitizen)

	w := doRequest(r, "/protected", "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID.String())
}

func TestRequireAdminRejectsCitizen(t *testing.T) {
	users := new(MockUserStore)
	r, authService := setupRouter(users)
	_, token := registerUser(t, users, authService, model.RoleCitizen)

	w := doRequest(r, "/admin", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	users := new(MockUserStore)
	r, authService := setupRouter(users)
	_, token := registerUser(t, users, authService, model.RoleAdmin)

	w := doRequest(r, "/admin", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}
