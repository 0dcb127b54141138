package httpclient

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/alvinseyidov/acteezer-web/pkg/errors"
)

func errorResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseError_401IsAuth(t *testing.T) {
	resp := errorResponse(http.StatusUnauthorized, `{"detail": "Invalid token."}`)

	err := ParseResponseError(resp)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAuth)
	assert.Contains(t, err.Error(), "Invalid token.")
}

func TestParseResponseError_5xxIsServer(t *testing.T) {
	resp := errorResponse(http.StatusBadGateway, `upstream exploded`)

	err := ParseResponseError(resp)

	assert.ErrorIs(t, err, apperrors.ErrServer)
	assert.Equal(t, http.StatusBadGateway, apperrors.Status(err))
}

func TestParseResponseError_4xxIsValidationWithFields(t *testing.T) {
	resp := errorResponse(http.StatusBadRequest, `{"phone": ["This field is required."], "otp_code": ["Invalid OTP."]}`)

	err := ParseResponseError(resp)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	fields := apperrors.FieldErrors(err)
	require.NotNil(t, fields)
	assert.Equal(t, "This field is required.", fields["phone"])
	assert.Equal(t, "Invalid OTP.", fields["otp_code"])
}

func TestParseResponseError_MessageEnvelope(t *testing.T) {
	resp := errorResponse(http.StatusBadRequest, `{"success": false, "message": "Invalid phone number or password"}`)

	err := ParseResponseError(resp)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "Invalid phone number or password")
	assert.Empty(t, apperrors.FieldErrors(err))
}

func TestParseResponseError_404IsValidation(t *testing.T) {
	resp := errorResponse(http.StatusNotFound, `{"detail": "Not found."}`)

	err := ParseResponseError(resp)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, http.StatusNotFound, apperrors.Status(err))
}

func TestParseResponseError_UnparseableBodyFallsBack(t *testing.T) {
	resp := errorResponse(http.StatusBadRequest, `<html>nope</html>`)

	err := ParseResponseError(resp)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), http.StatusText(http.StatusBadRequest))
}

func TestParseErrorBody_SingleStringField(t *testing.T) {
	message, fields := parseErrorBody([]byte(`{"detail": "nope", "bio": "too long"}`))

	assert.Equal(t, "nope", message)
	assert.Equal(t, "too long", fields["bio"])
}

func TestParseErrorBody_DetailWinsOverOtherMessageKeys(t *testing.T) {
	message, fields := parseErrorBody([]byte(`{"error": "fallback", "message": "secondary", "detail": "preferred"}`))

	assert.Equal(t, "preferred", message)
	assert.Empty(t, fields)

	message, _ = parseErrorBody([]byte(`{"error": "fallback", "message": "secondary"}`))
	assert.Equal(t, "secondary", message)
}
