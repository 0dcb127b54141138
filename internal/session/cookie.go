package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the visitor session cookie.
const CookieName = "acteezer_session"

// CookieCodec mints and verifies the signed session cookie. The cookie
// carries only the session ID; everything else lives in the store.
type CookieCodec struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewCookieCodec creates a codec signing with the given HMAC secret.
func NewCookieCodec(secret string, ttl time.Duration, secure bool) *CookieCodec {
	return &CookieCodec{secret: []byte(secret), ttl: ttl, secure: secure}
}

// NewID mints a fresh session ID.
func NewID() string {
	return uuid.New().String()
}

// Issue returns a signed cookie carrying the session ID.
func (c *CookieCodec) Issue(sid string) (*http.Cookie, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"iat": now.Unix(),
		"exp": now.Add(c.ttl).Unix(),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session cookie: %w", err)
	}

	return &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Decode extracts and verifies the session ID from the request cookie.
func (c *CookieCodec) Decode(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", fmt.Errorf("read session cookie: %w", err)
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid session cookie: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid session cookie claims")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", fmt.Errorf("session cookie missing sid")
	}
	return sid, nil
}

// Expire returns a cookie that deletes the session cookie on the client.
func (c *CookieCodec) Expire() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

type contextKey string

const sidKey contextKey = "session_id"

// WithID returns a context carrying the visitor's session ID.
func WithID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sidKey, sid)
}

// IDFromContext extracts the visitor's session ID, or "".
func IDFromContext(ctx context.Context) string {
	if sid, ok := ctx.Value(sidKey).(string); ok {
		return sid
	}
	return ""
}
