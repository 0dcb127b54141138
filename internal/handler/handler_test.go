package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvinseyidov/acteezer-web/internal/apiclient"
	"github.com/alvinseyidov/acteezer-web/internal/feed"
	"github.com/alvinseyidov/acteezer-web/internal/session"
	"github.com/alvinseyidov/acteezer-web/internal/view"
	"github.com/alvinseyidov/acteezer-web/pkg/health"
	"github.com/alvinseyidov/acteezer-web/pkg/httpclient"
)

type fixture struct {
	router   http.Handler
	sessions *session.Store
	cookies  *session.CookieCodec
	upstream *upstreamRecorder
}

// upstreamRecorder fakes the Acteezer API and records what it was asked.
// The home feed fetches concurrently, so the request log is locked.
type upstreamRecorder struct {
	mux *http.ServeMux

	mu       sync.Mutex
	requests []string
}

func (u *upstreamRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.requests = append(u.requests, r.Method+" "+r.URL.String())
	u.mu.Unlock()
	u.mux.ServeHTTP(w, r)
}

func (u *upstreamRecorder) calls() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.requests...)
}

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

// upstreamRoutes collects handlers before registration so a test can
// override the defaults without tripping ServeMux's duplicate-pattern
// panic.
type upstreamRoutes map[string]http.HandlerFunc

func (routes upstreamRoutes) setDefault(pattern string, h http.HandlerFunc) {
	if _, ok := routes[pattern]; !ok {
		routes[pattern] = h
	}
}

func newFixture(t *testing.T, configure func(routes upstreamRoutes)) *fixture {
	t.Helper()

	routes := upstreamRoutes{}
	if configure != nil {
		configure(routes)
	}
	routes.setDefault("/activities/activities/", respond(`{"results": []}`))
	routes.setDefault("/places/places/", respond(`{"results": []}`))

	upstream := &upstreamRecorder{mux: http.NewServeMux()}
	for pattern, h := range routes {
		upstream.mux.HandleFunc(pattern, h)
	}

	apiServer := httptest.NewServer(upstream)
	t.Cleanup(apiServer.Close)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.NewStore(redisClient, time.Hour)
	cookies := session.NewCookieCodec("test-secret", time.Hour, false)

	api := apiclient.New(apiServer.URL, httpclient.New(httpclient.DefaultConfig()))
	activities := apiclient.NewActivityService(api)
	places := apiclient.NewPlaceService(api)
	auth := apiclient.NewAuthService(api, sessions, logger)
	lookups := apiclient.NewLookupService(api)
	feedSvc := feed.NewService(activities, places, logger)

	renderer, err := view.New(logger)
	require.NoError(t, err)

	h := New(renderer, feedSvc, activities, places, auth, lookups, sessions, cookies, logger)
	router := h.Routes(RouterConfig{ServiceName: "acteezer-web-test", RateLimitRPS: 100, RateLimitBurst: 100}, health.NewHandler())

	return &fixture{router: router, sessions: sessions, cookies: cookies, upstream: upstream}
}

func (f *fixture) get(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) postForm(t *testing.T, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, f *fixture, sid string) *http.Cookie {
	t.Helper()
	cookie, err := f.cookies.Issue(sid)
	require.NoError(t, err)
	return cookie
}

func TestHome_RendersBothShelves(t *testing.T) {
	f := newFixture(t, func(routes upstreamRoutes) {
		routes["/activities/activities/"] = respond(`{"results": [
			{"id": 1, "title": "Morning yoga"}, {"id": 2, "title": "Chess night"},
			{"id": 3, "title": "a"}, {"id": 4, "title": "b"}, {"id": 5, "title": "c"},
			{"id": 6, "title": "Sixth hidden"}, {"id": 7, "title": "Seventh hidden"}]}`)
		routes["/places/places/"] = respond(`{"results": [{"id": 1, "name": "Old Town Cafe"}]}`)
	})

	rec := f.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Morning yoga")
	assert.Contains(t, body, "Old Town Cafe")
	assert.NotContains(t, body, "Sixth hidden", "home shelves are capped at five")
}

func TestHome_SetsSessionCookieOnFirstVisit(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			found = true
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found)
}

func TestHome_KeepsExistingSession(t *testing.T) {
	f := newFixture(t, nil)
	cookie := sessionCookie(t, f, "sid-keep")

	rec := f.get(t, "/", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, session.CookieName, c.Name, "valid session must not be reissued")
	}
}

func TestActivityList_PassesFiltersUpstream(t *testing.T) {
	f := newFixture(t, func(routes upstreamRoutes) {
		routes["/activities/categories/"] = respond(`{"results": []}`)
	})

	rec := f.get(t, "/activities?search=chess&price=free&empty=ignored")
	require.Equal(t, http.StatusOK, rec.Code)

	var listCall string
	for _, called := range f.upstream.calls() {
		if strings.Contains(called, "/activities/activities/") {
			listCall = called
		}
	}
	assert.Contains(t, listCall, "search=chess")
	assert.Contains(t, listCall, "price=free")
	assert.NotContains(t, listCall, "empty", "unknown params are not forwarded")
	assert.NotContains(t, listCall, "category=", "empty filters are omitted")
}

func TestActivityDetail_UpstreamNotFoundRenders404(t *testing.T) {
	f := newFixture(t, func(routes upstreamRoutes) {
		routes["/activities/activities/99/"] = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail": "Not found."}`))
		}
	})

	rec := f.get(t, "/activities/99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not found")
}

func TestActivityDetail_NonNumericIDIs404(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.get(t, "/activities/abc")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogin_LocalValidationRejectsBadPhone(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.postForm(t, "/login", url.Values{"phone": {"abc"}, "password": {"pw"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enter a valid phone number")
	for _, called := range f.upstream.calls() {
		assert.NotContains(t, called, "/login/", "invalid form must not reach the API")
	}
}

func TestLogin_SuccessStoresTokenAndRedirects(t *testing.T) {
	f := newFixture(t, func(routes upstreamRoutes) {
		routes["/accounts/users/login/"] = respond(`{"success": true, "token": "tok-99", "user": {"id": 7, "first_name": "Leyla"}}`)
	})
	cookie := sessionCookie(t, f, "sid-login")

	rec := f.postForm(t, "/login", url.Values{"phone": {"+994501234567"}, "password": {"secret123"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	token, err := f.sessions.Token(t.Context(), "sid-login")
	require.NoError(t, err)
	assert.Equal(t, "tok-99", token)
}

func TestLogin_WrongCredentialsStayOnForm(t *testing.T) {
	f := newFixture(t, func(routes upstreamRoutes) {
		routes["/accounts/users/login/"] = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success": false, "message": "Invalid credentials"}`))
		}
	})

	rec := f.postForm(t, "/login", url.Values{"phone": {"+994501234567"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestLogout_ClearsSessionAndExpiresCookie(t *testing.T) {
	f := newFixture(t, nil)
	cookie := sessionCookie(t, f, "sid-out")
	require.NoError(t, f.sessions.SaveLogin(t.Context(), "sid-out", "tok-1", nil))

	rec := f.postForm(t, "/logout", url.Values{}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	token, err := f.sessions.Token(t.Context(), "sid-out")
	require.NoError(t, err)
	assert.Empty(t, token)

	var expired bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName && c.MaxAge < 0 {
			expired = true
		}
	}
	assert.True(t, expired)
}

func TestSession_TokenRidesToUpstream(t *testing.T) {
	var gotAuth string
	f := newFixture(t, func(routes upstreamRoutes) {
		routes["/activities/activities/5/"] = func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte(`{"id": 5, "title": "Climbing"}`))
		}
		routes["/activities/activities/5/participants/"] = respond(`{"results": []}`)
	})
	cookie := sessionCookie(t, f, "sid-tok")
	require.NoError(t, f.sessions.SaveLogin(t.Context(), "sid-tok", "tok-55", nil))

	rec := f.get(t, "/activities/5", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Token tok-55", gotAuth)
}

func TestOnboarding_UnknownStepIs404(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.get(t, "/onboarding/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOnboarding_RegisterFormRenders(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.get(t, "/onboarding/register")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Create your account")
	assert.Contains(t, rec.Body.String(), "Step 1 of 10")
}

func TestOnboarding_RegisterMismatchedPasswords(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.postForm(t, "/onboarding/register", url.Values{
		"phone":            {"+994501234567"},
		"first_name":       {"Ali"},
		"last_name":        {"Seyidov"},
		"password":         {"secret123"},
		"password_confirm": {"secret124"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Passwords don&#39;t match")
	// submitted values survive the re-render
	assert.Contains(t, rec.Body.String(), "+994501234567")
}

func TestOnboarding_RegisterSuccessMovesToVerify(t *testing.T) {
	f := newFixture(t, func(routes upstreamRoutes) {
		routes["/accounts/users/register/"] = respond(`{"success": true, "message": "OTP sent"}`)
	})

	rec := f.postForm(t, "/onboarding/register", url.Values{
		"phone":            {"+994501234567"},
		"first_name":       {"Ali"},
		"last_name":        {"Seyidov"},
		"password":         {"secret123"},
		"password_confirm": {"secret123"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/onboarding/verify?phone=%2B994501234567", rec.Header().Get("Location"))
}

func TestOnboarding_VerifySuccessMovesToName(t *testing.T) {
	f := newFixture(t, func(routes upstreamRoutes) {
		routes["/accounts/users/verify_otp/"] = respond(`{"success": true, "message": "Verified"}`)
	})

	rec := f.postForm(t, "/onboarding/verify", url.Values{
		"phone":    {"+994501234567"},
		"otp_code": {"123456"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/onboarding/name", rec.Header().Get("Location"))

	var verifyCall string
	for _, called := range f.upstream.calls() {
		if strings.Contains(called, "verify_otp") {
			verifyCall = called
		}
	}
	assert.Equal(t, "POST /accounts/users/verify_otp/", verifyCall)
}

func TestOnboarding_VerifyRejectedCodeRerenders(t *testing.T) {
	f := newFixture(t, func(routes upstreamRoutes) {
		routes["/accounts/users/verify_otp/"] = respond(`{"success": false, "message": "Invalid OTP"}`)
	})

	rec := f.postForm(t, "/onboarding/verify", url.Values{
		"phone":    {"+994501234567"},
		"otp_code": {"000000"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "That code didn&#39;t match")
}

func TestOnboarding_VerifyEmptyCodeNeverCallsAPI(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.postForm(t, "/onboarding/verify", url.Values{"phone": {"+994501234567"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	for _, called := range f.upstream.calls() {
		assert.NotContains(t, called, "verify_otp")
	}
}

func TestOnboarding_LanguagesRequireASelection(t *testing.T) {
	f := newFixture(t, func(routes upstreamRoutes) {
		routes["/accounts/languages/"] = respond(`{"results": [{"id": 1, "name": "Azerbaijani"}]}`)
	})

	rec := f.postForm(t, "/onboarding/languages", url.Values{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Select at least one language")
	assert.Contains(t, body, `data-dismiss-after="5"`)
}

func TestOnboarding_LanguagesAdvanceWithSelection(t *testing.T) {
	f := newFixture(t, func(routes upstreamRoutes) {
		routes["/accounts/users/me/"] = respond(`{"id": 7}`)
	})
	cookie := sessionCookie(t, f, "sid-lang")

	rec := f.postForm(t, "/onboarding/languages", url.Values{"language_ids": {"1", "3"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/onboarding/birthday", rec.Header().Get("Location"))
}

func TestOnboarding_BirthdayUnderageRejected(t *testing.T) {
	f := newFixture(t, nil)
	young := time.Now().AddDate(-15, 0, 0).Format("2006-01-02")

	rec := f.postForm(t, "/onboarding/birthday", url.Values{"birthday": {young}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least 16")
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, http.StatusOK, f.get(t, "/health").Code)
	assert.Equal(t, http.StatusOK, f.get(t, "/ready").Code)
}
