package service

import (
	"context"
	"math"
	"sort"

	"ecoshop/internal/model"
	"ecoshop/internal/store"
)

// CommunityGoalCO2Kg is the shared CO2 savings target (5 tonnes).
const CommunityGoalCO2Kg = 5000

var Badges = []model.Badge{
	{Name: "Eco Starter", PointsRequired: 100, Description: "Earned 100 EcoPoints. Welcome to the green side!"},
	{Name: "Planet Protector", PointsRequired: 1000, Description: "Earned 1,000 EcoPoints. You're making a real difference."},
	{Name: "Sustainability Champion", PointsRequired: 5000, Description: "Earned 5,000 EcoPoints. A true hero for our planet!"},
}

type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	UserID    string `json:"user_id"`
	Login     string `json:"login"`
	Avatar    string `json:"avatar"`
	EcoPoints int    `json:"eco_points"`
}

type Community struct {
	Impact       model.Impact `json:"impact"`
	GoalCO2Kg    float64      `json:"goal_co2_kg"`
	GoalProgress float64      `json:"goal_progress"` // percent, capped at 100
}

type EarnedBadge struct {
	model.Badge
	Earned bool `json:"earned"`
}

type Dashboard struct {
	User   model.User    `json:"user"`
	Rank   int           `json:"rank"`
	Badges []EarnedBadge `json:"badges"`
}

// ImpactService serves read models over the state store.
type ImpactService struct {
	store *store.Store
}

func NewImpactService(st *store.Store) *ImpactService {
	return &ImpactService{store: st}
}

func (s *ImpactService) Leaderboard(ctx context.Context) []LeaderboardEntry {
	return leaderboard(s.store.Snapshot())
}

func (s *ImpactService) Community(ctx context.Context) Community {
	impact := s.store.Snapshot().Community
	return Community{
		Impact:       impact,
		GoalCO2Kg:    CommunityGoalCO2Kg,
		GoalProgress: math.Min(impact.CO2Saved/CommunityGoalCO2Kg*100, 100),
	}
}

func (s *ImpactService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	snap := s.store.Snapshot()
	user, ok := snap.User(userID)
	if !ok {
		return nil, store.ErrUserNotFound
	}

	d := &Dashboard{User: user}
	for _, e := range leaderboard(snap) {
		if e.UserID == userID {
			d.Rank = e.Rank
			break
		}
	}
	for _, b := range Badges {
		d.Badges = append(d.Badges, EarnedBadge{Badge: b, Earned: user.EcoPoints >= b.PointsRequired})
	}
	return d, nil
}

func leaderboard(snap *store.Snapshot) []LeaderboardEntry {
	users := make([]model.User, 0, len(snap.Users))
	for _, u := range snap.Users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].EcoPoints != users[j].EcoPoints {
			return users[i].EcoPoints > users[j].EcoPoints
		}
		return users[i].Login < users[j].Login
	})

	entries := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntry{
			Rank:      i + 1,
			UserID:    u.ID,
			Login:     u.Login,
			Avatar:    u.Avatar,
			EcoPoints: u.EcoPoints,
		}
	}
	return entries
}
