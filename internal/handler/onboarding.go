package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alvinseyidov/acteezer-web/internal/apiclient"
	"github.com/alvinseyidov/acteezer-web/internal/domain"
	"github.com/alvinseyidov/acteezer-web/internal/forms"
	"github.com/alvinseyidov/acteezer-web/internal/view"
	apperrors "github.com/alvinseyidov/acteezer-web/pkg/errors"
)

const maxPhotoMemory = 32 << 20

type onboardingData struct {
	Slug       string
	StepNumber int
	StepTotal  int
	Values     map[string]string
	Errors     map[string]string
	Languages  []domain.Language
	Interests  []domain.Interest
}

func newOnboardingData(step forms.Step) *onboardingData {
	return &onboardingData{
		Slug:       step.String(),
		StepNumber: int(step) + 1,
		StepTotal:  int(forms.StepComplete) + 1,
		Values:     map[string]string{},
		Errors:     map[string]string{},
	}
}

// OnboardingForm renders one step of the signup flow.
func (h *Handler) OnboardingForm(w http.ResponseWriter, r *http.Request) {
	step, ok := forms.FromPath(chi.URLParam(r, "step"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	data := newOnboardingData(step)
	data.Values["phone"] = r.URL.Query().Get("phone")
	h.loadLookups(r, step, data)

	h.renderStep(w, r, step, data, nil)
}

// OnboardingSubmit validates a step and advances the flow. Checkbox
// steps with nothing ticked re-render with an auto-dismissing banner;
// field errors re-render inline with the submitted values kept.
func (h *Handler) OnboardingSubmit(w http.ResponseWriter, r *http.Request) {
	step, ok := forms.FromPath(chi.URLParam(r, "step"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch step {
	case forms.StepRegister:
		h.submitRegister(w, r)
	case forms.StepOTP:
		h.submitOTP(w, r)
	case forms.StepName:
		h.submitName(w, r)
	case forms.StepLanguages:
		h.submitLanguages(w, r)
	case forms.StepBirthday:
		h.submitBirthday(w, r)
	case forms.StepImages:
		h.submitPhotos(w, r)
	case forms.StepBio:
		h.submitBio(w, r)
	case forms.StepInterests:
		h.submitInterests(w, r)
	case forms.StepLocation:
		h.submitLocation(w, r)
	default:
		http.Redirect(w, r, forms.PathFor(forms.StepComplete), http.StatusSeeOther)
	}
}

func (h *Handler) submitRegister(w http.ResponseWriter, r *http.Request) {
	input := &apiclient.RegisterInput{
		Phone:           r.PostFormValue("phone"),
		FirstName:       r.PostFormValue("first_name"),
		LastName:        r.PostFormValue("last_name"),
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
	}

	data := newOnboardingData(forms.StepRegister)
	data.Values["phone"] = input.Phone
	data.Values["first_name"] = input.FirstName
	data.Values["last_name"] = input.LastName

	if msg := forms.Phone(input.Phone); msg != "" {
		data.Errors["phone"] = msg
	}
	if msg := forms.Required("First name", input.FirstName); msg != "" {
		data.Errors["first_name"] = msg
	}
	if msg := forms.Required("Last name", input.LastName); msg != "" {
		data.Errors["last_name"] = msg
	}
	if input.Password != input.PasswordConfirm {
		data.Errors["password_confirm"] = "Passwords don't match"
	}
	if len(data.Errors) > 0 {
		h.renderStep(w, r, forms.StepRegister, data, nil)
		return
	}

	if _, err := h.auth.Register(r.Context(), input); err != nil {
		h.renderStepFailure(w, r, forms.StepRegister, data, err)
		return
	}

	next := forms.PathFor(forms.StepOTP) + "?phone=" + url.QueryEscape(input.Phone)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *Handler) submitOTP(w http.ResponseWriter, r *http.Request) {
	phone := r.PostFormValue("phone")
	code := r.PostFormValue("otp_code")

	data := newOnboardingData(forms.StepOTP)
	data.Values["phone"] = phone

	if msg := forms.Required("Code", code); msg != "" {
		data.Errors["otp_code"] = msg
		h.renderStep(w, r, forms.StepOTP, data, nil)
		return
	}

	result, err := h.auth.VerifyOTP(r.Context(), phone, code, apiclient.PurposeRegistration)
	if err != nil {
		h.renderStepFailure(w, r, forms.StepOTP, data, err)
		return
	}
	if !result.Success {
		data.Errors["otp_code"] = "That code didn't match. Try again."
		h.renderStep(w, r, forms.StepOTP, data, nil)
		return
	}
	http.Redirect(w, r, forms.PathFor(forms.StepName), http.StatusSeeOther)
}

func (h *Handler) submitName(w http.ResponseWriter, r *http.Request) {
	first := r.PostFormValue("first_name")
	last := r.PostFormValue("last_name")

	data := newOnboardingData(forms.StepName)
	data.Values["first_name"] = first
	data.Values["last_name"] = last

	if msg := forms.Required("First name", first); msg != "" {
		data.Errors["first_name"] = msg
	}
	if msg := forms.Required("Last name", last); msg != "" {
		data.Errors["last_name"] = msg
	}
	if len(data.Errors) > 0 {
		h.renderStep(w, r, forms.StepName, data, nil)
		return
	}

	h.advanceProfile(w, r, forms.StepName, data, &apiclient.ProfileUpdate{
		FirstName: &first,
		LastName:  &last,
	})
}

func (h *Handler) submitLanguages(w http.ResponseWriter, r *http.Request) {
	ids := postedIDs(r, "language_ids")

	data := newOnboardingData(forms.StepLanguages)
	h.loadLookups(r, forms.StepLanguages, data)

	if msg := forms.AtLeastOne("language", ids); msg != "" {
		h.renderStep(w, r, forms.StepLanguages, data, forms.NewBanner(msg))
		return
	}

	h.advanceProfile(w, r, forms.StepLanguages, data, &apiclient.ProfileUpdate{LanguageIDs: ids})
}

func (h *Handler) submitBirthday(w http.ResponseWriter, r *http.Request) {
	birthday := r.PostFormValue("birthday")

	data := newOnboardingData(forms.StepBirthday)
	data.Values["birthday"] = birthday

	if msg := forms.Birthday(birthday, time.Now()); msg != "" {
		data.Errors["birthday"] = msg
		h.renderStep(w, r, forms.StepBirthday, data, nil)
		return
	}

	h.advanceProfile(w, r, forms.StepBirthday, data, &apiclient.ProfileUpdate{Birthday: &birthday})
}

func (h *Handler) submitPhotos(w http.ResponseWriter, r *http.Request) {
	data := newOnboardingData(forms.StepImages)

	if err := r.ParseMultipartForm(maxPhotoMemory); err != nil {
		data.Errors["photos"] = "Those files couldn't be read. Try again."
		h.renderStep(w, r, forms.StepImages, data, nil)
		return
	}

	var selection forms.Selection
	if r.MultipartForm != nil {
		// extra picks past the cap are dropped, not rejected
		for _, header := range r.MultipartForm.File["photos"] {
			selection.Add(forms.Upload{Filename: header.Filename, Size: header.Size})
		}
	}
	if msg := selection.Validate(); msg != "" {
		h.renderStep(w, r, forms.StepImages, data, forms.NewBanner(msg))
		return
	}

	headers := r.MultipartForm.File["photos"]
	for i := range selection.Photos() {
		file, err := headers[i].Open()
		if err != nil {
			data.Errors["photos"] = "Those files couldn't be read. Try again."
			h.renderStep(w, r, forms.StepImages, data, nil)
			return
		}
		_, uploadErr := h.auth.UploadImage(r.Context(), headers[i].Filename, file, i == 0)
		file.Close()
		if uploadErr != nil {
			h.renderStepFailure(w, r, forms.StepImages, data, uploadErr)
			return
		}
	}

	http.Redirect(w, r, forms.PathFor(forms.StepImages.Next()), http.StatusSeeOther)
}

func (h *Handler) submitBio(w http.ResponseWriter, r *http.Request) {
	bio := r.PostFormValue("bio")

	data := newOnboardingData(forms.StepBio)
	data.Values["bio"] = bio

	if msg := forms.Required("Bio", bio); msg != "" {
		data.Errors["bio"] = msg
		h.renderStep(w, r, forms.StepBio, data, nil)
		return
	}

	h.advanceProfile(w, r, forms.StepBio, data, &apiclient.ProfileUpdate{Bio: &bio})
}

func (h *Handler) submitInterests(w http.ResponseWriter, r *http.Request) {
	ids := postedIDs(r, "interest_ids")

	data := newOnboardingData(forms.StepInterests)
	h.loadLookups(r, forms.StepInterests, data)

	if msg := forms.AtLeastOne("interest", ids); msg != "" {
		h.renderStep(w, r, forms.StepInterests, data, forms.NewBanner(msg))
		return
	}

	h.advanceProfile(w, r, forms.StepInterests, data, &apiclient.ProfileUpdate{InterestIDs: ids})
}

func (h *Handler) submitLocation(w http.ResponseWriter, r *http.Request) {
	city := r.PostFormValue("city")

	data := newOnboardingData(forms.StepLocation)
	data.Values["city"] = city

	if msg := forms.Required("City", city); msg != "" {
		data.Errors["city"] = msg
		h.renderStep(w, r, forms.StepLocation, data, nil)
		return
	}

	h.advanceProfile(w, r, forms.StepLocation, data, &apiclient.ProfileUpdate{City: &city})
}

// advanceProfile persists a step's fields along with the step counter
// and moves to the next screen.
func (h *Handler) advanceProfile(w http.ResponseWriter, r *http.Request, step forms.Step, data *onboardingData, update *apiclient.ProfileUpdate) {
	apiStep := int(step) - int(forms.StepName) + 2
	update.RegistrationStep = &apiStep

	if _, err := h.auth.UpdateProfile(r.Context(), update); err != nil {
		h.renderStepFailure(w, r, step, data, err)
		return
	}
	http.Redirect(w, r, forms.PathFor(step.Next()), http.StatusSeeOther)
}

// renderStepFailure surfaces an API error on the current step. Field
// errors from the API land inline; anything else becomes a banner.
func (h *Handler) renderStepFailure(w http.ResponseWriter, r *http.Request, step forms.Step, data *onboardingData, err error) {
	if errors.Is(err, apperrors.ErrValidation) {
		if fields := apperrors.FieldErrors(err); len(fields) > 0 {
			for k, v := range fields {
				data.Errors[k] = v
			}
			h.renderStep(w, r, step, data, nil)
			return
		}
	}
	if errors.Is(err, apperrors.ErrAuth) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.logger.ErrorContext(r.Context(), "onboarding step failed",
		slog.String("step", step.String()),
		slog.String("error", err.Error()))
	h.renderStep(w, r, step, data, forms.NewBanner("Something went wrong. Please try again."))
}

func (h *Handler) renderStep(w http.ResponseWriter, r *http.Request, step forms.Step, data *onboardingData, banner *forms.Banner) {
	status := http.StatusOK
	if len(data.Errors) > 0 || banner != nil {
		status = http.StatusUnprocessableEntity
	}
	h.renderer.Render(w, status, "onboarding", &view.Page{
		Title:  "Sign up",
		User:   h.currentUser(r),
		Banner: banner,
		Data:   data,
	})
}

// loadLookups fills the checkbox lists for the steps that need them. A
// failed lookup renders an empty list rather than failing the step.
func (h *Handler) loadLookups(r *http.Request, step forms.Step, data *onboardingData) {
	var err error
	switch step {
	case forms.StepLanguages:
		data.Languages, err = h.lookups.Languages(r.Context())
	case forms.StepInterests:
		data.Interests, err = h.lookups.Interests(r.Context())
	}
	if err != nil {
		h.logger.WarnContext(r.Context(), "lookup fetch failed",
			slog.String("step", step.String()),
			slog.String("error", err.Error()))
	}
}

func postedIDs(r *http.Request, field string) []int {
	if err := r.ParseForm(); err != nil {
		return nil
	}
	var ids []int
	for _, raw := range r.PostForm[field] {
		if id, err := strconv.Atoi(raw); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
