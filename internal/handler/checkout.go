package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"ecoshop/internal/model"
	"ecoshop/internal/mw"
	"ecoshop/internal/service"
)

type payResponse struct {
	Receipt model.Receipt           `json:"receipt"`
	Session service.CheckoutSession `json:"session"`
}

func GetCheckoutHandler(checkout *service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, checkout.Session(r.Context(), cartID(w, r)))
	}
}

func BeginCheckoutHandler(checkout *service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := checkout.Begin(r.Context(), cartID(w, r))
		if err != nil {
			writeCheckoutError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func BackCheckoutHandler(checkout *service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := checkout.Back(r.Context(), cartID(w, r))
		if err != nil {
			writeCheckoutError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func ResetCheckoutHandler(checkout *service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := checkout.Reset(r.Context(), cartID(w, r))
		if err != nil {
			writeCheckoutError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func PayHandler(checkout *service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := cartID(w, r)
		userID, _ := mw.UserID(r.Context())

		var opts service.PaymentOptions
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if opts.Delivery == "" {
			opts.Delivery = model.DeliveryStandard
		}

		receipt, err := checkout.Pay(r.Context(), id, userID, opts)
		if err != nil {
			writeCheckoutError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, payResponse{
			Receipt: receipt,
			Session: checkout.Session(r.Context(), id),
		})
	}
}

func writeCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyCart):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, service.ErrInvalidDelivery):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidStep), errors.Is(err, service.ErrCheckoutInProgress):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		slog.Error("checkout failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
