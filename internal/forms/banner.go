package forms

import "time"

// BannerDuration is how long a validation banner stays on screen before
// auto-dismissing.
const BannerDuration = 5 * time.Second

// Banner is a transient validation notice rendered above a form.
type Banner struct {
	Message      string
	DismissAfter time.Duration
}

// NewBanner builds an auto-dismissing banner for a validation message.
func NewBanner(message string) *Banner {
	return &Banner{Message: message, DismissAfter: BannerDuration}
}
