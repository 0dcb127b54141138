package domain

// Place is a venue record from the API. Favorite status is deliberately
// not embedded here: it is a per-user relation and is always fetched
// through the place service rather than cached on the entity, so there is
// a single source of truth for it.
type Place struct {
	ID               int          `json:"id"`
	Name             string       `json:"name"`
	ShortDescription string       `json:"short_description"`
	Description      string       `json:"description,omitempty"`
	Category         Category     `json:"category"`
	Address          string       `json:"address"`
	District         string       `json:"district"`
	Latitude         string       `json:"latitude,omitempty"`
	Longitude        string       `json:"longitude,omitempty"`
	Phone            string       `json:"phone,omitempty"`
	Email            string       `json:"email,omitempty"`
	Website          string       `json:"website,omitempty"`
	Instagram        string       `json:"instagram,omitempty"`
	PriceRange       string       `json:"price_range"`
	PriceDisplay     string       `json:"price_display"`
	OpeningHours     string       `json:"opening_hours,omitempty"`
	Features         string       `json:"features,omitempty"`
	MainImageURL     string       `json:"main_image_url,omitempty"`
	Images           []ImageEntry `json:"images,omitempty"`
	Rating           string       `json:"rating"`
	ReviewCount      int          `json:"review_count"`
	IsFeatured       bool         `json:"is_featured"`
	IsVerified       bool         `json:"is_verified"`
	CreatedAt        string       `json:"created_at"`
}

// FavoriteStatus is the response of the is_favorited check.
type FavoriteStatus struct {
	IsFavorited bool `json:"is_favorited"`
}
