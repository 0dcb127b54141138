package domain

import "strings"

// User is the account record mirrored from the Acteezer API. The client
// never mutates it locally; profile changes go through the API and the
// returned copy replaces the cached one.
type User struct {
	ID                     int         `json:"id"`
	Phone                  string      `json:"phone"`
	FirstName              string      `json:"first_name"`
	LastName               string      `json:"last_name"`
	FullName               string      `json:"full_name"`
	Email                  string      `json:"email,omitempty"`
	Birthday               string      `json:"birthday,omitempty"`
	Gender                 string      `json:"gender,omitempty"`
	Bio                    string      `json:"bio,omitempty"`
	City                   string      `json:"city,omitempty"`
	Images                 []UserImage `json:"images,omitempty"`
	Languages              []Language  `json:"languages,omitempty"`
	Interests              []Interest  `json:"interests,omitempty"`
	IsPhoneVerified        bool        `json:"is_phone_verified"`
	IsRegistrationComplete bool        `json:"is_registration_complete"`
	RegistrationStep       int         `json:"registration_step"`
}

// UserImage is a single profile photo.
type UserImage struct {
	ID        int    `json:"id"`
	ImageURL  string `json:"image_url"`
	IsPrimary bool   `json:"is_primary"`
}

// Language is a spoken-language lookup entry.
type Language struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Interest is an interest lookup entry.
type Interest struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	Category string `json:"category"`
}

// DisplayName returns the full name, falling back to first+last and then
// the phone number for accounts that have not finished onboarding.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	return u.Phone
}

// PrimaryImageURL returns the URL of the primary profile photo, or the
// first photo when none is marked primary, or "" without photos.
func (u *User) PrimaryImageURL() string {
	for _, img := range u.Images {
		if img.IsPrimary {
			return img.ImageURL
		}
	}
	if len(u.Images) > 0 {
		return u.Images[0].ImageURL
	}
	return ""
}

// AuthResponse is the transient envelope returned by login and register.
// It is never persisted as a whole: its token and user are written into
// the session store and the envelope is discarded.
type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
	Message string `json:"message,omitempty"`
}
