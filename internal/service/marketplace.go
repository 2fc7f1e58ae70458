package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ecoshop/internal/model"
)

const (
	ListingAvailable = "available"
	ListingClaimed   = "claimed"

	AnonymousOwner = "Anonymous"
)

var (
	ErrInvalidListing  = errors.New("title, description and condition are required")
	ErrInvalidType     = errors.New("unknown listing type")
	ErrListingNotFound = errors.New("listing not found")
	ErrAlreadyClaimed  = errors.New("listing already claimed")
	ErrInvalidClaim    = errors.New("name and contact are required")
)

type NewListing struct {
	Type        model.ListingType `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Condition   string            `json:"condition"`
	ImageURL    string            `json:"image_url"`
}

// MarketplaceService is the peer-to-peer reuse board. Claiming a listing
// leaves a notification for its owner.
type MarketplaceService struct {
	mu            sync.RWMutex
	listings      []model.Listing
	notifications []model.Notification
}

func NewMarketplaceService() *MarketplaceService {
	now := time.Now()
	seed := []model.Listing{
		{Type: model.ListingPackaging, Title: "Box of clean plastic bottles",
			Description: "20 PET bottles, washed and ready for recycling.", Condition: "Clean", Owner: "UserA"},
		{Type: model.ListingHousehold, Title: "Reusable glass jars",
			Description: "Set of 5 glass jars, perfect for storage or crafts.", Condition: "Good", Owner: "UserB"},
		{Type: model.ListingElectronics, Title: "Old smartphone for recycling",
			Description: "Android phone, not working, for e-waste recycling.", Condition: "For recycling", Owner: "UserC"},
	}
	for i := range seed {
		seed[i].ID = uuid.NewString()
		seed[i].Status = ListingAvailable
		seed[i].CreatedAt = now
	}
	return &MarketplaceService{listings: seed}
}

func (s *MarketplaceService) List(ctx context.Context) []model.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Listing, len(s.listings))
	copy(out, s.listings)
	return out
}

// Create publishes a listing. ownerID is the creating user's id, empty for
// guests; owner is the name shown on the listing.
func (s *MarketplaceService) Create(ctx context.Context, ownerID, owner string, in NewListing) (model.Listing, error) {
	if in.Title == "" || in.Description == "" || in.Condition == "" {
		return model.Listing{}, ErrInvalidListing
	}
	if in.Type == "" {
		in.Type = model.ListingPackaging
	}
	if !in.Type.Valid() {
		return model.Listing{}, ErrInvalidType
	}
	if owner == "" {
		owner = AnonymousOwner
	}

	l := model.Listing{
		ID:          uuid.NewString(),
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		Condition:   in.Condition,
		ImageURL:    in.ImageURL,
		Status:      ListingAvailable,
		Owner:       owner,
		OwnerID:     ownerID,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	s.listings = append(s.listings, l)
	s.mu.Unlock()

	return l, nil
}

func (s *MarketplaceService) Claim(ctx context.Context, id, name, contact string) (model.Listing, error) {
	if name == "" || contact == "" {
		return model.Listing{}, ErrInvalidClaim
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.listings {
		l := &s.listings[i]
		if l.ID != id {
			continue
		}
		if l.Status == ListingClaimed {
			return model.Listing{}, ErrAlreadyClaimed
		}
		l.Status = ListingClaimed
		l.ClaimedBy = name
		l.ClaimedContact = contact
		s.notifications = append(s.notifications, model.Notification{
			ListingID: l.ID,
			OwnerID:   l.OwnerID,
			Message:   fmt.Sprintf("Your item %q was claimed by %s. Contact: %s", l.Title, name, contact),
		})
		return *l, nil
	}
	return model.Listing{}, ErrListingNotFound
}

// Notifications returns the claim notices for listings created by ownerID.
// Listings without an owning account never produce readable notices.
func (s *MarketplaceService) Notifications(ctx context.Context, ownerID string) []model.Notification {
	if ownerID == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Notification
	for _, n := range s.notifications {
		if n.OwnerID == ownerID {
			out = append(out, n)
		}
	}
	return out
}
