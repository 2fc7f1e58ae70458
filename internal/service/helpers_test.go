package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"ecoshop/internal/events"
	"ecoshop/internal/model"
	"ecoshop/internal/store"
)

const testCartID = "cart-1"

type testEnv struct {
	store     *store.Store
	carts     *CartService
	outbox    *events.Outbox
	processor *OrderProcessor
	alex      model.User
}

func newTestEnv(t *testing.T, bonus BonusSource) *testEnv {
	t.Helper()

	st := store.New()
	require.NoError(t, store.Seed(st, []byte("unused")))
	alex, ok := st.Snapshot().UserByLogin("Alex Green")
	require.True(t, ok)

	carts := NewCartService()
	outbox := events.NewOutbox(16)
	return &testEnv{
		store:     st,
		carts:     carts,
		outbox:    outbox,
		processor: NewOrderProcessor(st, carts, bonus, outbox, nil),
		alex:      alex,
	}
}

func (e *testEnv) user(t *testing.T, id string) model.User {
	t.Helper()
	u, err := e.store.GetUser(id)
	require.NoError(t, err)
	return u
}

func toothbrush() model.Product {
	p, _ := NewCatalogService().Get(context.Background(), 1)
	return p
}

func line(price, footprint float64, qty int) model.CartLine {
	return model.CartLine{Product: model.Product{Price: price, CarbonFootprint: footprint}, Quantity: qty}
}
