package handler

import (
	"errors"
	"net/http"

	"ecoshop/internal/mw"
	"ecoshop/internal/service"
	"ecoshop/internal/store"
)

func GetBalanceHandler(balanceSvc *service.BalanceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())

		balance, err := balanceSvc.Get(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, balance)
	}
}
