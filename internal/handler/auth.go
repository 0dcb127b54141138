package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alvinseyidov/acteezer-web/internal/forms"
	"github.com/alvinseyidov/acteezer-web/internal/view"
	apperrors "github.com/alvinseyidov/acteezer-web/pkg/errors"
)

type loginData struct {
	Phone  string
	Errors map[string]string
}

// LoginForm renders the sign-in page. Signed-in users bounce home.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderer.Render(w, http.StatusOK, "login", &view.Page{
		Title: "Log in",
		Data:  loginData{},
	})
}

// Login validates locally first, then authenticates against the API. A
// successful login lands on the home page with the session populated.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	phone := r.PostFormValue("phone")
	password := r.PostFormValue("password")

	fieldErrors := map[string]string{}
	if msg := forms.Phone(phone); msg != "" {
		fieldErrors["phone"] = msg
	}
	if msg := forms.Required("Password", password); msg != "" {
		fieldErrors["password"] = msg
	}
	if len(fieldErrors) > 0 {
		h.renderer.Render(w, http.StatusUnprocessableEntity, "login", &view.Page{
			Title: "Log in",
			Data:  loginData{Phone: phone, Errors: fieldErrors},
		})
		return
	}

	_, err := h.auth.Login(r.Context(), phone, password)
	if err != nil {
		h.renderLoginFailure(w, r, phone, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) renderLoginFailure(w http.ResponseWriter, r *http.Request, phone string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrAuth), errors.Is(err, apperrors.ErrValidation):
		fieldErrors := apperrors.FieldErrors(err)
		if len(fieldErrors) == 0 {
			msg := apperrors.Message(err)
			if msg == "" {
				msg = "Wrong phone number or password"
			}
			fieldErrors = map[string]string{"credentials": msg}
		}
		h.renderer.Render(w, http.StatusUnprocessableEntity, "login", &view.Page{
			Title: "Log in",
			Data:  loginData{Phone: phone, Errors: fieldErrors},
		})
	default:
		h.renderError(w, r, err)
	}
}

// Logout drops the local session and bounces home. The API token is not
// revoked upstream.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "session clear failed", slog.String("error", err.Error()))
	}
	http.SetCookie(w, h.cookies.Expire())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
