package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

func signToken(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Use(JWTProtected(testSecret))
	app.Get("/me", func(c *fiber.Ctx) error {
		id, ok := CurrentUserID(c)
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendString(strconv.FormatUint(uint64(id), 10) + ":" + CurrentUserRole(c))
	})
	return app
}

func callWithToken(t *testing.T, app *fiber.App, header string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set(fiber.HeaderAuthorization, header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestJWTProtectedAcceptsTeacherToken(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "7",
		"role": "Teacher",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	resp, body := callWithToken(t, protectedApp(), "bearer "+token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "7:teacher", body)
}

func TestJWTProtectedRejections(t *testing.T) {
	app := protectedApp()

	resp, _ := callWithToken(t, app, "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = callWithToken(t, app, "Token abc")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	expired := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "7", "exp": time.Now().Add(-time.Minute).Unix()})
	resp, _ = callWithToken(t, app, "Bearer "+expired)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	noExpiry := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "7"})
	resp, _ = callWithToken(t, app, "Bearer "+noExpiry)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	wrongAlg := signToken(t, jwt.SigningMethodHS512, jwt.MapClaims{"sub": "7", "exp": time.Now().Add(time.Hour).Unix()})
	resp, _ = callWithToken(t, app, "Bearer "+wrongAlg)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	noSubject := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{"role": "teacher", "exp": time.Now().Add(time.Hour).Unix()})
	resp, _ = callWithToken(t, app, "Bearer "+noSubject)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireUser(t *testing.T) {
	app := fiber.New()
	app.Get("/", RequireUser(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRateLimitRejectsBurst(t *testing.T) {
	app := fiber.New()
	app.Post("/login", RateLimit("auth", 2, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}
	require.Equal(t, []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}, statuses)
}

func TestCorrelationIDIsEchoed(t *testing.T) {
	logger := zerolog.Nop()
	app := fiber.New()
	Register(app, Config{Logger: &logger})
	app.Get("/api/v1/ping", func(c *fiber.Ctx) error {
		return c.SendString(CorrelationIDFromContext(c.UserContext()))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set(HeaderCorrelationID, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "abc-123", resp.Header.Get(HeaderCorrelationID))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "abc-123", string(body))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	require.NoError(t, err)
	generated := resp.Header.Get(HeaderCorrelationID)
	require.NotEmpty(t, generated)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, generated, string(body))
}
