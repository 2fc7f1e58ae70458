package service

import (
	"context"
	"errors"
	"math"
	"sync"

	"ecoshop/internal/model"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrItemNotInCart   = errors.New("item not in cart")
	ErrCartLocked      = errors.New("cart is locked for checkout")
)

// offsetPricePerKg is the mock price of offsetting one kg of CO2.
const offsetPricePerKg = 10

// CartService keeps one cart per cart id. Lines always have quantity >= 1.
// A locked cart rejects edits until it is unlocked; Clear still works.
type CartService struct {
	mu     sync.Mutex
	carts  map[string][]model.CartLine
	locked map[string]bool
}

func NewCartService() *CartService {
	return &CartService{
		carts:  make(map[string][]model.CartLine),
		locked: make(map[string]bool),
	}
}

func (s *CartService) Lock(ctx context.Context, cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.locked[cartID] = true
}

func (s *CartService) Unlock(ctx context.Context, cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.locked, cartID)
}

func (s *CartService) Add(ctx context.Context, cartID string, p model.Product, qty int) ([]model.CartLine, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked[cartID] {
		return nil, ErrCartLocked
	}

	lines := s.carts[cartID]
	for i := range lines {
		if lines[i].ID == p.ID {
			lines[i].Quantity += qty
			return copyLines(lines), nil
		}
	}
	s.carts[cartID] = append(lines, model.CartLine{Product: p, Quantity: qty})
	return copyLines(s.carts[cartID]), nil
}

// UpdateQuantity sets the quantity of a line; a quantity of zero or less removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID string, productID int64, qty int) ([]model.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked[cartID] {
		return nil, ErrCartLocked
	}

	lines := s.carts[cartID]
	for i := range lines {
		if lines[i].ID != productID {
			continue
		}
		if qty <= 0 {
			s.removeLocked(cartID, productID)
		} else {
			lines[i].Quantity = qty
		}
		return copyLines(s.carts[cartID]), nil
	}
	return nil, ErrItemNotInCart
}

func (s *CartService) Remove(ctx context.Context, cartID string, productID int64) ([]model.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked[cartID] {
		return nil, ErrCartLocked
	}

	s.removeLocked(cartID, productID)
	return copyLines(s.carts[cartID]), nil
}

func (s *CartService) Clear(ctx context.Context, cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, cartID)
}

func (s *CartService) Lines(ctx context.Context, cartID string) []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyLines(s.carts[cartID])
}

func (s *CartService) removeLocked(cartID string, productID int64) {
	lines := s.carts[cartID]
	kept := lines[:0]
	for _, l := range lines {
		if l.ID != productID {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		delete(s.carts, cartID)
		return
	}
	s.carts[cartID] = kept
}

func copyLines(lines []model.CartLine) []model.CartLine {
	out := make([]model.CartLine, len(lines))
	copy(out, lines)
	return out
}

// Quote summarizes what a checkout of lines would cost.
type Quote struct {
	Subtotal          float64 `json:"subtotal"`
	CarbonFootprintKg float64 `json:"carbon_footprint_kg"`
	OffsetCost        float64 `json:"offset_cost"`
	Total             float64 `json:"total"`
}

func NewQuote(lines []model.CartLine, offsetCarbon bool) Quote {
	var q Quote
	for _, l := range lines {
		q.Subtotal += l.Subtotal()
	}
	q.CarbonFootprintKg = CarbonFootprintKg(lines)
	q.OffsetCost = math.Ceil(q.CarbonFootprintKg * offsetPricePerKg)
	q.Total = q.Subtotal
	if offsetCarbon {
		q.Total += q.OffsetCost
	}
	return q
}

// CarbonFootprintKg is the total footprint of lines converted from grams to kg.
func CarbonFootprintKg(lines []model.CartLine) float64 {
	var grams float64
	for _, l := range lines {
		grams += l.CarbonFootprint * float64(l.Quantity)
	}
	return grams / 1000
}
