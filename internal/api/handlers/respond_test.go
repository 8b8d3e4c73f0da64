package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourBookingService/pkg/validation"
)

func TestRespondValidation_CarriesField(t *testing.T) {
	w := httptest.NewRecorder()
	err := fmt.Errorf("%w: %w", errors.New("invalid"), validation.NewFieldError("seats", "must be at least 1"))

	RespondValidation(w, err, "invalid request")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{Message: "must be at least 1", Field: "seats"}, body)
}

func TestRespondValidation_Fallback(t *testing.T) {
	w := httptest.NewRecorder()
	RespondValidation(w, errors.New("plain"), "invalid request")
	assert.JSONEq(t, `{"message":"invalid request"}`, w.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var v struct{ Name string }

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, "x", v.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.ErrorIs(t, DecodeJSON(r, &v), ErrEmptyBody)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	assert.Error(t, DecodeJSON(r, &v))
}
