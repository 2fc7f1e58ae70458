package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ecoshop/internal/model"
	"ecoshop/internal/mw"
	"ecoshop/internal/service"
)

// CartIDHeader carries a guest's cart id. Signed-in users get a cart bound
// to their account instead.
const CartIDHeader = "X-Cart-ID"

type cartResponse struct {
	CartID string           `json:"cart_id"`
	Lines  []model.CartLine `json:"lines"`
	Quote  service.Quote    `json:"quote"`
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// cartID resolves the caller's cart, minting a guest id when none (or a
// malformed one) was sent. The id is echoed back in CartIDHeader.
func cartID(w http.ResponseWriter, r *http.Request) string {
	if userID, ok := mw.UserID(r.Context()); ok {
		return "user:" + userID
	}
	id := r.Header.Get(CartIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	w.Header().Set(CartIDHeader, id)
	return id
}

func writeCart(w http.ResponseWriter, id string, lines []model.CartLine) {
	if lines == nil {
		lines = []model.CartLine{}
	}
	writeJSON(w, http.StatusOK, cartResponse{
		CartID: id,
		Lines:  lines,
		Quote:  service.NewQuote(lines, false),
	})
}

func GetCartHandler(carts *service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := cartID(w, r)
		writeCart(w, id, carts.Lines(r.Context(), id))
	}
}

func AddCartItemHandler(carts *service.CartService, catalog *service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := cartID(w, r)

		var req addItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		p, err := catalog.Get(r.Context(), req.ProductID)
		if err != nil {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}

		lines, err := carts.Add(r.Context(), id, p, req.Quantity)
		if err != nil {
			writeCartError(w, err)
			return
		}

		writeCart(w, id, lines)
	}
}

func UpdateCartItemHandler(carts *service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := cartID(w, r)

		productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
		if err != nil {
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}

		var req updateQuantityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		lines, err := carts.UpdateQuantity(r.Context(), id, productID, req.Quantity)
		if err != nil {
			writeCartError(w, err)
			return
		}

		writeCart(w, id, lines)
	}
}

func RemoveCartItemHandler(carts *service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := cartID(w, r)

		productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
		if err != nil {
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}

		lines, err := carts.Remove(r.Context(), id, productID)
		if err != nil {
			writeCartError(w, err)
			return
		}

		writeCart(w, id, lines)
	}
}

func writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrItemNotInCart):
		http.Error(w, "item not in cart", http.StatusNotFound)
	case errors.Is(err, service.ErrCartLocked):
		http.Error(w, "cart is locked during checkout", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
