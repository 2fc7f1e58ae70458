package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ecoshop/internal/events"
	"ecoshop/internal/metrics"
	"ecoshop/internal/model"
	"ecoshop/internal/store"
)

var (
	ErrInvalidAmount      = errors.New("donation must be a positive number of points")
	ErrInsufficientPoints = errors.New("insufficient points")
)

type DonationService struct {
	store   *store.Store
	outbox  *events.Outbox
	metrics *metrics.Metrics
}

func NewDonationService(st *store.Store, outbox *events.Outbox, m *metrics.Metrics) *DonationService {
	return &DonationService{store: st, outbox: outbox, metrics: m}
}

// Create deducts points from the user's wallet and records the donation.
// Every full hundred points plants one tree.
func (s *DonationService) Create(ctx context.Context, userID string, points int) (*model.Donation, error) {
	if points <= 0 {
		return nil, ErrInvalidAmount
	}

	donation := model.Donation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Points:    points,
		Trees:     points / pointsPerTree,
		DonatedAt: time.Now(),
	}

	err := s.store.Update(func(snap *store.Snapshot) error {
		user, ok := snap.User(userID)
		if !ok {
			return store.ErrUserNotFound
		}
		if user.EcoPoints < points {
			return ErrInsufficientPoints
		}
		user.EcoPoints -= points
		snap.Users[userID] = user
		snap.Donations = append(snap.Donations, donation)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveDonation(points)
	if s.outbox != nil {
		if e, err := events.NewPointsDonated(donation); err != nil {
			slog.ErrorContext(ctx, "failed to build donation event", "error", err)
		} else {
			s.outbox.Add(e)
		}
	}

	return &donation, nil
}

// ListByUser returns the user's donations, newest first.
func (s *DonationService) ListByUser(ctx context.Context, userID string) ([]model.Donation, error) {
	snap := s.store.Snapshot()
	if _, ok := snap.User(userID); !ok {
		return nil, store.ErrUserNotFound
	}

	var out []model.Donation
	for i := len(snap.Donations) - 1; i >= 0; i-- {
		if snap.Donations[i].UserID == userID {
			out = append(out, snap.Donations[i])
		}
	}
	return out, nil
}
