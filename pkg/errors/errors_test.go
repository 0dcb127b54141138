package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetwork_WrapsSentinelAndCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Network(cause)

	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 0, Status(err))
	assert.Contains(t, err.Error(), "NETWORK_ERROR")
}

func TestAuth_Classification(t *testing.T) {
	err := Auth("token expired")

	assert.ErrorIs(t, err, ErrAuth)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, http.StatusUnauthorized, Status(err))
}

func TestValidation_CarriesFields(t *testing.T) {
	err := Validation(http.StatusBadRequest, "invalid payload", map[string]string{
		"phone": "This field is required.",
	})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, http.StatusBadRequest, Status(err))

	fields := FieldErrors(err)
	require.NotNil(t, fields)
	assert.Equal(t, "This field is required.", fields["phone"])
}

func TestValidation_FieldsSurviveWrapping(t *testing.T) {
	err := Validation(http.StatusBadRequest, "invalid payload", map[string]string{"otp_code": "Invalid OTP."})
	wrapped := fmt.Errorf("verify otp: %w", err)

	assert.ErrorIs(t, wrapped, ErrValidation)
	assert.Equal(t, "Invalid OTP.", FieldErrors(wrapped)["otp_code"])
}

func TestServer_Classification(t *testing.T) {
	err := Server(http.StatusBadGateway, "bad gateway")

	assert.ErrorIs(t, err, ErrServer)
	assert.Equal(t, http.StatusBadGateway, Status(err))
}

func TestFieldErrors_NilForNonValidation(t *testing.T) {
	assert.Nil(t, FieldErrors(Auth("nope")))
	assert.Nil(t, FieldErrors(errors.New("plain")))
}

func TestNotFound(t *testing.T) {
	err := NotFound("auth_token")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "auth_token")
}

func TestWrap_PreservesClassification(t *testing.T) {
	err := Wrap(Server(http.StatusInternalServerError, "boom"), "list activities")

	assert.ErrorIs(t, err, ErrServer)
	assert.Equal(t, http.StatusInternalServerError, Status(err))
	assert.Contains(t, err.Error(), "list activities")
}
