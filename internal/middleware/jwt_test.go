package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/voxera-dev/voxera-api/internal/middleware"
)

const jwtTestSecret = "unit-test-secret"

func signedToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": float64(7)}).SignedString([]byte(jwtTestSecret))
	require.NoError(t, err)
	return token
}

func newProtectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", middleware.JWTProtected(jwtTestSecret), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestJWTProtectedAcceptsBearerHeader(t *testing.T) {
	app := newProtectedApp()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJWTProtectedRejectsMissingToken(t *testing.T) {
	app := newProtectedApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedIgnoresQueryTokenOnPlainRequests(t *testing.T) {
	app := newProtectedApp()

	req := httptest.NewRequest(http.MethodGet, "/protected?token="+signedToken(t), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedAcceptsQueryTokenOnWebsocketUpgrade(t *testing.T) {
	app := newProtectedApp()

	req := httptest.NewRequest(http.MethodGet, "/protected?token="+signedToken(t), nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJWTProtectedRejectsForgedToken(t *testing.T) {
	app := newProtectedApp()

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": float64(7)}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
