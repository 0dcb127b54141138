package forms

import (
	"regexp"
	"strings"
	"time"
)

// Field validation rules for the onboarding forms. Each rule returns a
// user-facing message, or "" when the value passes.

var (
	phoneRe = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const (
	MinAge = 16
	MaxAge = 100
)

// Required rejects empty or whitespace-only values.
func Required(label, value string) string {
	if strings.TrimSpace(value) == "" {
		return label + " is required"
	}
	return ""
}

// Phone validates an E.164-style number. Spaces are stripped before
// matching so "+994 50 123 45 67" is accepted; a leading zero is not.
func Phone(value string) string {
	cleaned := strings.ReplaceAll(value, " ", "")
	if cleaned == "" {
		return "Phone number is required"
	}
	if !phoneRe.MatchString(cleaned) {
		return "Enter a valid phone number"
	}
	return ""
}

// Email validates an address shape without attempting full RFC parsing.
func Email(value string) string {
	if value == "" {
		return "Email is required"
	}
	if !emailRe.MatchString(value) {
		return "Enter a valid email address"
	}
	return ""
}

// Birthday checks that the date parses and that the calendar-year age
// falls within [MinAge, MaxAge]. Age here is the plain year difference;
// someone turning 16 later this year already passes.
func Birthday(value string, now time.Time) string {
	if value == "" {
		return "Birthday is required"
	}
	birthday, err := time.Parse("2006-01-02", value)
	if err != nil {
		return "Enter a valid date"
	}
	age := now.Year() - birthday.Year()
	if age < MinAge {
		return "You must be at least 16 years old"
	}
	if age > MaxAge {
		return "Enter a valid birthday"
	}
	return ""
}

// AtLeastOne enforces the checkbox-group rule: the user must tick at
// least one option before moving on.
func AtLeastOne(label string, selected []int) string {
	if len(selected) == 0 {
		return "Select at least one " + label
	}
	return ""
}
