package httpclient

import (
	"encoding/json"
	"io"
	"net/http"

	apperrors "github.com/alvinseyidov/acteezer-web/pkg/errors"
)

// ParseResponseError reads the body of a non-2xx response from the Acteezer
// API and translates it into the classified error taxonomy: 401 becomes an
// auth error, any other 4xx a validation error carrying field messages, and
// 5xx a server error.
//
// The API returns errors in a few shapes: `{"detail": "..."}` for permission
// and lookup failures, `{"success": false, "message": "..."}` for account
// actions, and `{"field": ["msg", ...]}` maps from serializer validation.
// All three are handled; unparseable bodies fall back to a generic message.
//
// The caller should only invoke this for non-2xx responses. The body is
// fully consumed and closed.
func ParseResponseError(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit

	message, fields := parseErrorBody(bodyBytes)
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.Auth(message)
	case resp.StatusCode >= 500:
		return apperrors.Server(resp.StatusCode, message)
	default:
		return apperrors.Validation(resp.StatusCode, message, fields)
	}
}

// parseErrorBody extracts a top-level message and per-field messages from a
// DRF-style error body. When a body carries more than one message key,
// "detail" wins over "message" over "error". Field values may be a single
// string or a list of strings; only the first message of a list is kept.
func parseErrorBody(body []byte) (message string, fields map[string]string) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", nil
	}

	for _, key := range []string{"detail", "message", "error"} {
		val, ok := raw[key]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(val, &s) == nil && s != "" {
			message = s
			break
		}
	}

	for key, val := range raw {
		switch key {
		case "detail", "message", "error", "success", "status":
			// message and envelope keys, not field errors
		default:
			var list []string
			var single string
			switch {
			case json.Unmarshal(val, &list) == nil && len(list) > 0:
				if fields == nil {
					fields = make(map[string]string)
				}
				fields[key] = list[0]
			case json.Unmarshal(val, &single) == nil && single != "":
				if fields == nil {
					fields = make(map[string]string)
				}
				fields[key] = single
			}
		}
	}

	return message, fields
}
