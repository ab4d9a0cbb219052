package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRequestIDApp() *fiber.App {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestID(c))
	})
	return app
}

func TestRequestID_MintsWhenAbsent(t *testing.T) {
	app := setupRequestIDApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	echoed := resp.Header.Get("X-Request-Id")
	_, err = uuid.Parse(echoed)
	assert.NoError(t, err)
}

func TestRequestID_ReusesValidInbound(t *testing.T) {
	app := setupRequestIDApp()
	id := uuid.New().String()

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-Id", id)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, id, resp.Header.Get("X-Request-Id"))
}

func TestRequestID_ReplacesMalformedInbound(t *testing.T) {
	app := setupRequestIDApp()

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-Id", "not-a-uuid")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	echoed := resp.Header.Get("X-Request-Id")
	assert.NotEqual(t, "not-a-uuid", echoed)
	_, err = uuid.Parse(echoed)
	assert.NoError(t, err)
}
