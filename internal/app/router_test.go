package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/devconnect/devconnect/internal/auth"
	"github.com/devconnect/devconnect/internal/observability"
	"github.com/devconnect/devconnect/internal/platform/validate"
	"github.com/devconnect/devconnect/jobs"
	_ "github.com/devconnect/devconnect/testing"
)

type userRepo struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, auth.ErrUserNotFound
}

func (r *userRepo) Insert(ctx context.Context, u *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func newTestApp(t *testing.T, cfg *Config) (http.Handler, *auth.Service) {
	t.Helper()
	tokens := auth.NewTokenService(auth.TokenConfig{Secret: []byte("secret"), TTL: time.Hour})
	svc := auth.NewService(&userRepo{users: map[string]*auth.User{}}, auth.NewBcryptHasher(bcrypt.MinCost), tokens)
	router := NewRouter(RouterParams{
		Config:      cfg,
		AuthHandler: auth.NewHandler(nil, svc, validate.New(), auth.Middleware(tokens, nil)),
		JobHandler:  jobs.NewHandler(nil, nil),
		Metrics:     observability.NewMetrics(),
	})
	return router, svc
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "203.0.113.7:1234"
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

func TestInTestMode(t *testing.T) {
	RefreshTestMode()
	assert.True(t, InTestMode())
}

func TestRouterInfrastructureRoutes(t *testing.T) {
	h, _ := newTestApp(t, &Config{})

	res := send(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"status":"ok"}`, res.Body.String())
	assert.Equal(t, "nosniff", res.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", res.Header().Get("X-Frame-Options"))

	res = send(h, http.MethodGet, "/jobs/health", "")
	assert.Equal(t, http.StatusOK, res.Code)

	res = send(h, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.JSONEq(t, `{"errors":[{"msg":"Not found"}]}`, res.Body.String())

	res = send(h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `devconnect_http_requests_total{code="200",route="/healthz"}`)
}

func TestRouterAuthRoutesAndAliases(t *testing.T) {
	h, _ := newTestApp(t, nil)

	res := send(h, http.MethodPost, "/register", `{"name":"Ann","email":"ann@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, res.Code)

	res = send(h, http.MethodPost, "/api/auth", `{"email":"ann@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, res.Code)

	res = send(h, http.MethodPost, "/api/users", `{"name":"Ann","email":"ann@x.com","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.JSONEq(t, `{"errors":[{"msg":"User already exists"}]}`, res.Body.String())

	res = send(h, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.JSONEq(t, `{"errors":[{"msg":"No token, authorization denied"}]}`, res.Body.String())
}

func TestRouterAuthRateLimit(t *testing.T) {
	h, _ := newTestApp(t, &Config{RateLimitAuth: 2})

	for range 2 {
		res := send(h, http.MethodPost, "/login", `{}`)
		require.Equal(t, http.StatusBadRequest, res.Code)
	}
	res := send(h, http.MethodPost, "/login", `{}`)
	assert.Equal(t, http.StatusTooManyRequests, res.Code)
	assert.JSONEq(t, `{"errors":[{"msg":"Too many requests, please try again later"}]}`, res.Body.String())

	res = send(h, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRouterGlobalRateLimit(t *testing.T) {
	h, _ := newTestApp(t, &Config{RateLimitGlobal: 3})

	for range 3 {
		require.Equal(t, http.StatusOK, send(h, http.MethodGet, "/healthz", "").Code)
	}
	res := send(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusTooManyRequests, res.Code)
	assert.Equal(t, "application/json", res.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"errors":[{"msg":"Too many requests, please try again later"}]}`, res.Body.String())
}

func TestUserAuthors(t *testing.T) {
	_, svc := newTestApp(t, nil)
	_, err := UserAuthors{Users: svc}.Author(context.Background(), "missing")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}
