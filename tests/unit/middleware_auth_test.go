package unit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"unispace/internal/config"
	"unispace/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "unit-test-secret"

func mustMakeJWT(t *testing.T, secret string, sub int64, role string, method jwt.SigningMethod) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(15 * time.Minute).Unix(),
	}

	tok := jwt.NewWithClaims(method, claims)
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign jwt: %v", err)
	}
	return signed
}

// AuthJWTを通過したらcontextの値をそのまま返すhandler
func newJWTTestServer(cfg config.Config) *echo.Echo {
	e := echo.New()
	g := e.Group("/me")
	g.Use(middleware.AuthJWT(cfg))
	g.GET("", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"user_id": c.Get(middleware.CtxUserIDKey),
			"role":    c.Get(middleware.CtxUserRoleKey),
		})
	})
	return e
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	e := newJWTTestServer(config.Config{JWTSecret: testSecret})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_NotBearer(t *testing.T) {
	e := newJWTTestServer(config.Config{JWTSecret: testSecret})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_WrongSecret(t *testing.T) {
	e := newJWTTestServer(config.Config{JWTSecret: testSecret})

	token := mustMakeJWT(t, "other-secret", 1, "USER", jwt.SigningMethodHS256)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ValidToken_SetsContext(t *testing.T) {
	e := newJWTTestServer(config.Config{JWTSecret: testSecret})

	token := mustMakeJWT(t, testSecret, 42, "USER", jwt.SigningMethodHS256)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":42`)
	assert.Contains(t, rec.Body.String(), `"role":"USER"`)
}

func TestAdminRoleGuard_UserRole_Forbidden(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	e := echo.New()
	g := e.Group("/admin")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())
	g.GET("/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	token := mustMakeJWT(t, testSecret, 1, "USER", jwt.SigningMethodHS256)
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoleGuard_AdminRole_Passes(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	e := echo.New()
	g := e.Group("/admin")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())
	g.GET("/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	token := mustMakeJWT(t, testSecret, 1, "ADMIN", jwt.SigningMethodHS256)
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
