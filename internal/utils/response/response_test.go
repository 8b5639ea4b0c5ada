package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteJSON(rec, http.StatusTeapot, GeneralError(errors.New("boom"))))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, Response{Status: StatusError, Error: "boom"}, got)
}

func TestValidationError(t *testing.T) {
	payload := struct {
		Name     string `validate:"required"`
		Password string `validate:"min=6"`
		Date     string `validate:"datetime=2006-01-02"`
	}{Password: "abc", Date: "yesterday"}

	err := validator.New().Struct(payload)
	require.Error(t, err)

	got := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t,
		"field Name is required, field Password is too short, field Date must be a date (2006-01-02)",
		got.Error)
}
