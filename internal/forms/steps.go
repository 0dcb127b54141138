// Package forms implements the onboarding flow: the ordered step machine,
// the field validation rules, and the bounded photo selection.
package forms

// Step is one screen of the onboarding flow. Steps advance strictly in
// declaration order; the server decides the current step, the client only
// renders it.
type Step int

const (
	StepRegister Step = iota
	StepOTP
	StepName
	StepLanguages
	StepBirthday
	StepImages
	StepBio
	StepInterests
	StepLocation
	StepComplete
)

var stepPaths = map[Step]string{
	StepRegister:  "register",
	StepOTP:       "verify",
	StepName:      "name",
	StepLanguages: "languages",
	StepBirthday:  "birthday",
	StepImages:    "photos",
	StepBio:       "bio",
	StepInterests: "interests",
	StepLocation:  "location",
	StepComplete:  "complete",
}

var pathSteps = func() map[string]Step {
	m := make(map[string]Step, len(stepPaths))
	for step, path := range stepPaths {
		m[path] = step
	}
	return m
}()

// String returns the URL slug of the step.
func (s Step) String() string {
	if path, ok := stepPaths[s]; ok {
		return path
	}
	return "unknown"
}

// PathFor maps a step to its onboarding URL path.
func PathFor(s Step) string {
	return "/onboarding/" + s.String()
}

// FromPath resolves an onboarding slug back to its step. The second
// return is false for unknown slugs.
func FromPath(slug string) (Step, bool) {
	step, ok := pathSteps[slug]
	return step, ok
}

// Next returns the step after s. Complete is terminal.
func (s Step) Next() Step {
	if s >= StepComplete {
		return StepComplete
	}
	return s + 1
}

// FromRegistrationStep maps the API's numeric registration_step field
// onto the local step machine. The API counts completed steps starting
// at 1 after OTP verification.
func FromRegistrationStep(n int) Step {
	step := StepName + Step(n-1)
	if step < StepName {
		return StepName
	}
	if step > StepComplete {
		return StepComplete
	}
	return step
}
