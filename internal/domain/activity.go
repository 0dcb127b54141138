package domain

// Category is the shared lookup shape used by both activity and place
// categories.
type Category struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	CategoryType string `json:"category_type"`
	Icon         string `json:"icon"`
	Color        string `json:"color"`
}

// Organizer is the slimmed user embedded in an activity.
type Organizer struct {
	ID       int          `json:"id"`
	FullName string       `json:"full_name"`
	Images   []ImageEntry `json:"images,omitempty"`
}

// ImageEntry is a bare image reference embedded in list payloads.
type ImageEntry struct {
	ImageURL string `json:"image_url"`
}

// Activity is an event record from the API. The time-window booleans
// (IsUpcoming, IsOngoing, IsPast) are derived server-side; the client
// treats the record as immutable and only mutates participation through
// the join and cancel actions.
type Activity struct {
	ID                int          `json:"id"`
	Title             string       `json:"title"`
	ShortDescription  string       `json:"short_description"`
	Description       string       `json:"description,omitempty"`
	Category          Category     `json:"category"`
	Organizer         Organizer    `json:"organizer"`
	StartDate         string       `json:"start_date"`
	EndDate           string       `json:"end_date"`
	DurationHours     float64      `json:"duration_hours"`
	LocationName      string       `json:"location_name"`
	Address           string       `json:"address"`
	District          string       `json:"district"`
	Latitude          string       `json:"latitude,omitempty"`
	Longitude         string       `json:"longitude,omitempty"`
	MaxParticipants   int          `json:"max_participants"`
	MinParticipants   int          `json:"min_participants"`
	Price             string       `json:"price"`
	IsFree            bool         `json:"is_free"`
	DifficultyLevel   string       `json:"difficulty_level"`
	MainImageURL      string       `json:"main_image_url,omitempty"`
	Images            []ImageEntry `json:"images,omitempty"`
	Status            string       `json:"status"`
	IsFeatured        bool         `json:"is_featured"`
	ParticipantsCount int          `json:"participants_count"`
	AvailableSpots    int          `json:"available_spots"`
	IsUpcoming        bool         `json:"is_upcoming"`
	IsOngoing         bool         `json:"is_ongoing"`
	IsPast            bool         `json:"is_past"`
	CreatedAt         string       `json:"created_at"`
}

// IsFull reports whether the activity has no spots left.
func (a Activity) IsFull() bool {
	return a.AvailableSpots <= 0
}

// Participant is an accepted join on an activity.
type Participant struct {
	ID       int    `json:"id"`
	User     *User  `json:"user"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	JoinedAt string `json:"joined_at"`
}

// JoinEligibility is the response of the can_join check.
type JoinEligibility struct {
	CanJoin bool   `json:"can_join"`
	Reason  string `json:"reason,omitempty"`
}
