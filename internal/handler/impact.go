package handler

import (
	"errors"
	"net/http"

	"ecoshop/internal/mw"
	"ecoshop/internal/service"
	"ecoshop/internal/store"
)

func LeaderboardHandler(impact *service.ImpactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, impact.Leaderboard(r.Context()))
	}
}

func CommunityHandler(impact *service.ImpactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, impact.Community(r.Context()))
	}
}

func DashboardHandler(impact *service.ImpactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())

		d, err := impact.Dashboard(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, d)
	}
}
