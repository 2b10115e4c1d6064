package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func performRequest(t *testing.T, handler fiber.Handler) (int, APIResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)

	var body APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestSendSuccess(t *testing.T) {
	status, body := performRequest(t, func(c *fiber.Ctx) error {
		return SendSuccess(c, "done", fiber.Map{"id": 1})
	})
	require.Equal(t, fiber.StatusOK, status)
	require.True(t, body.Success)
	require.Equal(t, "done", body.Message)
	require.NotNil(t, body.Data)
}

func TestSendSuccessDefaultsMessage(t *testing.T) {
	status, body := performRequest(t, func(c *fiber.Ctx) error {
		return SendSuccess(c, "", nil)
	})
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "success", body.Message)
}

func TestSendSuccessWithStatus(t *testing.T) {
	status, body := performRequest(t, func(c *fiber.Ctx) error {
		return SendSuccessWithStatus(c, fiber.StatusCreated, "created", nil)
	})
	require.Equal(t, fiber.StatusCreated, status)
	require.True(t, body.Success)
}

func TestSendError(t *testing.T) {
	status, body := performRequest(t, func(c *fiber.Ctx) error {
		return SendError(c, fiber.StatusNotFound, "missing")
	})
	require.Equal(t, fiber.StatusNotFound, status)
	require.False(t, body.Success)
	require.Equal(t, "missing", body.Message)
	require.Nil(t, body.Data)
}
