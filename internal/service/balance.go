package service

import (
	"context"

	"ecoshop/internal/store"
)

const pointsPerTree = 100

type BalanceService struct {
	store *store.Store
}

func NewBalanceService(st *store.Store) *BalanceService {
	return &BalanceService{store: st}
}

type Balance struct {
	Current      int `json:"current"`
	Donated      int `json:"donated"`
	TreesPlanted int `json:"trees_planted"`
}

func (s *BalanceService) Get(ctx context.Context, userID string) (*Balance, error) {
	snap := s.store.Snapshot()
	user, ok := snap.User(userID)
	if !ok {
		return nil, store.ErrUserNotFound
	}

	b := Balance{Current: user.EcoPoints}
	for _, d := range snap.Donations {
		if d.UserID == userID {
			b.Donated += d.Points
			b.TreesPlanted += d.Trees
		}
	}
	return &b, nil
}
