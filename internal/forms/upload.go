package forms

// Photo selection limits for the onboarding photos step.
const (
	MinPhotos = 2
	MaxPhotos = 5
)

// Upload is one picked photo, not yet sent to the API.
type Upload struct {
	Filename string
	Size     int64
}

// Selection is a bounded, ordered set of picked photos. Adds past the
// cap are silently ignored, matching the picker behavior where a sixth
// photo simply does not land in the tray.
type Selection struct {
	uploads []Upload
}

// Add appends a photo and reports whether it was accepted. A full
// selection rejects without error.
func (s *Selection) Add(u Upload) bool {
	if len(s.uploads) >= MaxPhotos {
		return false
	}
	s.uploads = append(s.uploads, u)
	return true
}

// Remove drops the photo at index, preserving order of the rest. Out of
// range indexes are ignored.
func (s *Selection) Remove(index int) {
	if index < 0 || index >= len(s.uploads) {
		return
	}
	s.uploads = append(s.uploads[:index], s.uploads[index+1:]...)
}

// Photos returns the selection oldest-first.
func (s *Selection) Photos() []Upload {
	return s.uploads
}

// Len reports the current selection size.
func (s *Selection) Len() int {
	return len(s.uploads)
}

// Validate checks the minimum-photos rule.
func (s *Selection) Validate() string {
	if len(s.uploads) < MinPhotos {
		return "Add at least 2 photos"
	}
	return ""
}
