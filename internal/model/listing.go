package model

import "time"

type ListingType string

const (
	ListingPackaging   ListingType = "packaging"
	ListingHousehold   ListingType = "household"
	ListingElectronics ListingType = "electronics"
)

func (t ListingType) Valid() bool {
	switch t {
	case ListingPackaging, ListingHousehold, ListingElectronics:
		return true
	}
	return false
}

type Listing struct {
	ID             string      `json:"id"`
	Type           ListingType `json:"type"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Condition      string      `json:"condition"`
	ImageURL       string      `json:"image_url,omitempty"`
	Status         string      `json:"status"` // available, claimed
	Owner          string      `json:"owner"`
	OwnerID        string      `json:"-"` // empty for guest and seeded listings
	ClaimedBy      string      `json:"claimed_by,omitempty"`
	ClaimedContact string      `json:"claimed_contact,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

type Notification struct {
	ListingID string `json:"listing_id"`
	OwnerID   string `json:"-"`
	Message   string `json:"message"`
}
