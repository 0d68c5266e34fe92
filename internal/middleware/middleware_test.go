package middleware

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/2gazb/BargainDrivingServer/internal/config"
	"github.com/2gazb/BargainDrivingServer/internal/model"
	"github.com/2gazb/BargainDrivingServer/internal/repository"
	"github.com/2gazb/BargainDrivingServer/internal/token"
)

// fakeUserStore serves a fixed set of users and counts reads so tests
// can assert that rejected requests never hit the credential store.
type fakeUserStore struct {
	users map[string]model.User
	reads int
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	f.reads++
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUserStore) FindByID(_ context.Context, id uint64) (model.User, error) {
	f.reads++
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUserStore) FindByUsernameAndRole(ctx context.Context, username string, role model.Role) (model.User, error) {
	u, err := f.FindByUsername(ctx, username)
	if err != nil || u.Role != role {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) CountByUsername(_ context.Context, username string) (int, error) {
	f.reads++
	if _, ok := f.users[username]; ok {
		return 1, nil
	}
	return 0, nil
}

func (f *fakeUserStore) Insert(_ context.Context, u model.User) (model.User, error) {
	return u, nil
}

func (f *fakeUserStore) Update(_ context.Context, u model.User) (model.User, error) {
	return u, nil
}

func (f *fakeUserStore) ListAll(_ context.Context) ([]model.User, error) {
	f.reads++
	return nil, nil
}

func newTestSigner(t *testing.T) *token.Signer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return token.NewSigner(key, "test_kid", time.Hour, 24*time.Hour)
}

func invoke(mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, bool) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	reached := false
	err := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, reached
}

func TestJWTAuth_MissingBearer(t *testing.T) {
	mw := JWTAuth(newTestSigner(t))
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rec, reached := invoke(mw, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestJWTAuth_GarbledToken(t *testing.T) {
	mw := JWTAuth(newTestSigner(t))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nonsense")

	rec, reached := invoke(mw, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "malformed")
	assert.False(t, reached)
}

func TestJWTAuth_ValidTokenStoresClaims(t *testing.T) {
	signer := newTestSigner(t)
	u := model.User{ID: 7, Username: "dev@example.com", Role: model.RoleAdmin}
	raw, err := signer.SignAccess(u)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got token.AccessClaims
	err = JWTAuth(signer)(func(c echo.Context) error {
		claims, ok := CurrentClaims(c)
		require.True(t, ok)
		got = claims
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), got.ID)
	assert.Equal(t, model.RoleAdmin, got.Role())
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	signer := token.NewSigner(key, "test_kid", time.Hour, 24*time.Hour)
	signer.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })

	raw, err := signer.SignAccess(model.User{ID: 7, Username: "dev@example.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec, reached := invoke(JWTAuth(signer), req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
	assert.False(t, reached)
}

func TestRequireRole_AllowsAndRejects(t *testing.T) {
	signer := newTestSigner(t)
	gate := RequireRole(model.RoleSuperadmin)

	cases := []struct {
		role model.Role
		want int
	}{
		{model.RoleSuperadmin, http.StatusOK},
		{model.RoleAdmin, http.StatusUnauthorized},
		{model.RoleMobile, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		raw, err := signer.SignAccess(model.User{ID: 1, Username: "u", Role: tc.role})
		require.NoError(t, err)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		chain := JWTAuth(signer)(gate(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		}))
		require.NoError(t, chain(c))
		assert.Equal(t, tc.want, rec.Code, "role %s", tc.role.Name())
	}
}

// Privilege failures are rejected from claims alone; the credential
// store must not be read on the way to the 401.
func TestRequireRole_RejectsWithoutStoreRead(t *testing.T) {
	signer := newTestSigner(t)
	store := &fakeUserStore{users: map[string]model.User{}}

	raw, err := signer.SignAccess(model.User{ID: 9, Username: "mobile-device", Role: model.RoleMobile})
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	chain := JWTAuth(signer)(RequireRole(model.RoleSuperadmin)(func(c echo.Context) error {
		_, _ = store.ListAll(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}))
	require.NoError(t, chain(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, store.reads)
}

func TestRequireRole_MissingClaims(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, reached := invoke(RequireRole(model.RoleSuperadmin), req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

// The limiter runs before JWTAuth, so the user-keyed strategies must
// resolve the caller from the bearer token itself.
func TestRateKey_UserStrategyBeforeJWTAuth(t *testing.T) {
	signer := newTestSigner(t)
	cfg := config.RateLimitConfig{KeyStrategy: "user", Prefix: "rl"}

	raw, err := signer.SignAccess(model.User{ID: 9, Username: "mobile-device", Role: model.RoleMobile})
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	c := e.NewContext(req, httptest.NewRecorder())
	assert.Equal(t, "rl:user:9", rateKey(cfg, c, signer))

	// No bearer token, tampered token: both bucket under anon.
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, "rl:user:anon", rateKey(cfg, c, signer))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw+"x")
	c = e.NewContext(req, httptest.NewRecorder())
	assert.Equal(t, "rl:user:anon", rateKey(cfg, c, signer))
}

func TestCredentialAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.MinCost)
	require.NoError(t, err)
	store := &fakeUserStore{users: map[string]model.User{
		"admin@example.com": {ID: 3, Username: "admin@example.com", Password: string(hash), Role: model.RoleAdmin},
	}}
	mw := CredentialAuth(store)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"valid credentials", `{"username":"admin@example.com","password":"pw123456"}`, http.StatusOK},
		{"wrong password", `{"username":"admin@example.com","password":"nope1234"}`, http.StatusUnauthorized},
		{"unknown user", `{"username":"ghost@example.com","password":"pw123456"}`, http.StatusUnauthorized},
		{"missing fields", `{}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := mw(func(c echo.Context) error {
				u, ok := c.Get(CurrentUserKey).(model.User)
				require.True(t, ok)
				assert.Equal(t, uint64(3), u.ID)
				return c.NoContent(http.StatusOK)
			})(c)
			require.NoError(t, err)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
