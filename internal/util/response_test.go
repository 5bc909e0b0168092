package util

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorBody(t *testing.T, handler fiber.Handler) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/", handler)
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestErrorResponseUsesFormErrorDetails(t *testing.T) {
	status, body := errorBody(t, func(c *fiber.Ctx) error {
		return ErrorResponse(c, ErrorResponseFormat{Code: fiber.StatusBadRequest, Message: "topic is required"},
			NewFormError("topic is required", map[string]string{"topic": "required"}))
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(fiber.StatusBadRequest), body["code"])
	assert.Equal(t, map[string]any{"topic": "required"}, body["details"])
	assert.Equal(t, "form error: topic is required", body["dev_message"])
}

func TestErrorResponseDefaultsToInternalError(t *testing.T) {
	status, body := errorBody(t, func(c *fiber.Ctx) error {
		return ErrorResponse(c, ErrorResponseFormat{Message: "boom"}, errors.New("db down"))
	})
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, float64(fiber.StatusInternalServerError), body["code"])
	assert.Nil(t, body["details"])
}
