package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"ecoshop/internal/mw"
	"ecoshop/internal/service"
	"ecoshop/internal/store"
)

type donateRequest struct {
	Points int `json:"points"`
}

func DonateHandler(donationSvc *service.DonationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())

		var req donateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		donation, err := donationSvc.Create(r.Context(), userID, req.Points)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidAmount):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			case errors.Is(err, service.ErrInsufficientPoints):
				http.Error(w, "insufficient points", http.StatusPaymentRequired)
			case errors.Is(err, store.ErrUserNotFound):
				http.Error(w, "user not found", http.StatusNotFound)
			default:
				slog.Error("donation failed", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, donation)
	}
}

func ListDonationsHandler(donationSvc *service.DonationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())

		donations, err := donationSvc.ListByUser(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if len(donations) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		writeJSON(w, http.StatusOK, donations)
	}
}
