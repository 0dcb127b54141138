package apiclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/alvinseyidov/acteezer-web/internal/domain"
	"github.com/alvinseyidov/acteezer-web/internal/session"
	"github.com/alvinseyidov/acteezer-web/pkg/httpclient"
	"github.com/alvinseyidov/acteezer-web/pkg/validator"
)

// OTPPurpose selects the verification flow an OTP belongs to.
type OTPPurpose string

const (
	PurposeRegistration  OTPPurpose = "registration"
	PurposeLogin         OTPPurpose = "login"
	PurposePasswordReset OTPPurpose = "password_reset"
)

// AuthService exposes the account endpoints of the API. Login and register
// write the token and user through to the session store on success; logout
// clears them unconditionally.
type AuthService struct {
	client   *Client
	sessions *session.Store
	logger   *slog.Logger
}

// NewAuthService creates the auth façade over the shared client and
// session store.
func NewAuthService(client *Client, sessions *session.Store, logger *slog.Logger) *AuthService {
	return &AuthService{client: client, sessions: sessions, logger: logger}
}

// OTPResult is the response of send_otp and verify_otp.
type OTPResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	// OTPCode is echoed back by development builds of the API only.
	OTPCode string `json:"otp_code,omitempty"`
}

// SendOTP requests a one-time code for the given phone and purpose.
func (s *AuthService) SendOTP(ctx context.Context, phone string, purpose OTPPurpose) (*OTPResult, error) {
	body := map[string]string{"phone": phone, "purpose": string(purpose)}
	var result OTPResult
	if err := s.client.postJSON(ctx, "/accounts/users/send_otp/", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyOTP submits a one-time code for verification.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, otpCode string, purpose OTPPurpose) (*OTPResult, error) {
	body := map[string]string{"phone": phone, "otp_code": otpCode, "purpose": string(purpose)}
	var result OTPResult
	if err := s.client.postJSON(ctx, "/accounts/users/verify_otp/", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RegisterInput holds the registration payload.
type RegisterInput struct {
	Phone           string `json:"phone" validate:"required"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// Register creates an account. On success the returned token and user are
// written to the session store as a pair; a response without a token (the
// API signalling a pending step) leaves the session untouched.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*domain.AuthResponse, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	var auth domain.AuthResponse
	if err := s.client.postJSON(ctx, "/accounts/users/register/", input, &auth); err != nil {
		return nil, err
	}

	if err := s.persistLogin(ctx, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// Login authenticates with phone and password. On success the token and
// user are written to the session store as a pair.
func (s *AuthService) Login(ctx context.Context, phone, password string) (*domain.AuthResponse, error) {
	body := map[string]string{"phone": phone, "password": password}
	var auth domain.AuthResponse
	if err := s.client.postJSON(ctx, "/accounts/users/login/", body, &auth); err != nil {
		return nil, err
	}

	if err := s.persistLogin(ctx, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// persistLogin writes the token and user pair to the session store, only
// when the API actually issued a token.
func (s *AuthService) persistLogin(ctx context.Context, auth *domain.AuthResponse) error {
	if auth.Token == "" {
		return nil
	}
	sid := session.IDFromContext(ctx)
	if sid == "" {
		return fmt.Errorf("no session to persist login into")
	}
	if err := s.sessions.SaveLogin(ctx, sid, auth.Token, auth.User); err != nil {
		return fmt.Errorf("persist login: %w", err)
	}
	return nil
}

// Logout clears the stored token and user unconditionally. The upstream
// token itself is not revoked.
func (s *AuthService) Logout(ctx context.Context) error {
	sid := session.IDFromContext(ctx)
	if sid == "" {
		return nil
	}
	return s.sessions.Clear(ctx, sid)
}

// CurrentUser fetches the authenticated user from the API. This is an
// optimistic session check: any failure, network or auth alike, yields
// nil rather than an error.
func (s *AuthService) CurrentUser(ctx context.Context) *domain.User {
	var user domain.User
	if err := s.client.getJSON(ctx, "/accounts/users/me/", nil, &user); err != nil {
		s.logger.DebugContext(ctx, "current user check failed", slog.String("error", err.Error()))
		return nil
	}
	return &user
}

// StoredUser returns the cached user record, or nil on absence or any
// store failure. It never raises.
func (s *AuthService) StoredUser(ctx context.Context) *domain.User {
	sid := session.IDFromContext(ctx)
	if sid == "" {
		return nil
	}
	user, err := s.sessions.User(ctx, sid)
	if err != nil {
		s.logger.DebugContext(ctx, "stored user lookup failed", slog.String("error", err.Error()))
		return nil
	}
	return user
}

// StoredToken returns the stored API token, or "" on absence or any
// store failure.
func (s *AuthService) StoredToken(ctx context.Context) string {
	sid := session.IDFromContext(ctx)
	if sid == "" {
		return ""
	}
	token, err := s.sessions.Token(ctx, sid)
	if err != nil {
		s.logger.DebugContext(ctx, "stored token lookup failed", slog.String("error", err.Error()))
		return ""
	}
	return token
}

// ProfileUpdate holds the mutable profile fields. Nil pointers are left
// out of the payload so the API only touches submitted fields.
type ProfileUpdate struct {
	FirstName        *string `json:"first_name,omitempty"`
	LastName         *string `json:"last_name,omitempty"`
	Email            *string `json:"email,omitempty" validate:"omitempty,email"`
	Birthday         *string `json:"birthday,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	Bio              *string `json:"bio,omitempty"`
	City             *string `json:"city,omitempty"`
	LanguageIDs      []int   `json:"language_ids,omitempty"`
	InterestIDs      []int   `json:"interest_ids,omitempty"`
	RegistrationStep *int    `json:"registration_step,omitempty"`
}

// UpdateProfile submits a profile change and writes the updated user back
// to the session cache.
func (s *AuthService) UpdateProfile(ctx context.Context, update *ProfileUpdate) (*domain.User, error) {
	if err := validator.Validate(update); err != nil {
		return nil, err
	}

	var user domain.User
	if err := s.client.putJSON(ctx, "/accounts/users/me/", update, &user); err != nil {
		return nil, err
	}

	if sid := session.IDFromContext(ctx); sid != "" {
		if err := s.sessions.SaveUser(ctx, sid, &user); err != nil {
			return nil, fmt.Errorf("cache updated user: %w", err)
		}
	}
	return &user, nil
}

// UploadImage streams a profile photo as a multipart submission. The file
// is piped straight into the request body, never buffered whole.
func (s *AuthService) UploadImage(ctx context.Context, filename string, file io.Reader, isPrimary bool) (*domain.UserImage, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("image", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.WriteField("is_primary", strconv.FormatBool(isPrimary)); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.client.endpoint("/accounts/users/upload_image/", nil), pr)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := s.client.doer.Do(ctx, req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	if resp.StatusCode >= 400 {
		return nil, httpclient.ParseResponseError(resp)
	}

	var image domain.UserImage
	if err := decodeBody(resp, &image); err != nil {
		return nil, err
	}
	return &image, nil
}
