package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ecoshop/internal/model"
	"ecoshop/internal/mw"
	"ecoshop/internal/service"
	"ecoshop/internal/store"
)

type claimRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// ownerName is the caller's login, or empty for guests.
func ownerName(r *http.Request, st *store.Store) string {
	userID, ok := mw.UserID(r.Context())
	if !ok {
		return ""
	}
	u, ok := st.Snapshot().User(userID)
	if !ok {
		return ""
	}
	return u.Login
}

func ListListingsHandler(market *service.MarketplaceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, market.List(r.Context()))
	}
}

func CreateListingHandler(market *service.MarketplaceService, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.NewListing
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		userID, _ := mw.UserID(r.Context())
		l, err := market.Create(r.Context(), userID, ownerName(r, st), req)
		if err != nil {
			if errors.Is(err, service.ErrInvalidListing) || errors.Is(err, service.ErrInvalidType) {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, l)
	}
}

func ClaimListingHandler(market *service.MarketplaceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req claimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		l, err := market.Claim(r.Context(), chi.URLParam(r, "id"), req.Name, req.Contact)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidClaim):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			case errors.Is(err, service.ErrListingNotFound):
				http.Error(w, "listing not found", http.StatusNotFound)
			case errors.Is(err, service.ErrAlreadyClaimed):
				http.Error(w, "listing already claimed", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, l)
	}
}

func NotificationsHandler(market *service.MarketplaceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())
		notes := market.Notifications(r.Context(), userID)
		if notes == nil {
			notes = []model.Notification{}
		}
		writeJSON(w, http.StatusOK, notes)
	}
}
