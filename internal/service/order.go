package service

import (
	"context"
	"log/slog"
	"math"
	"math/rand"

	"ecoshop/internal/events"
	"ecoshop/internal/metrics"
	"ecoshop/internal/model"
	"ecoshop/internal/store"
)

const (
	pointsPerCurrencyUnit = 0.1
	ecoDeliveryPoints     = 100
	ecoDeliveryCO2Kg      = 0.5

	MinBonus = 50
	MaxBonus = 100
)

// BonusSource draws the per-order bonus, an integer in [MinBonus, MaxBonus].
type BonusSource interface {
	Bonus() int
}

type RandomBonus struct{}

func (RandomBonus) Bonus() int {
	return MinBonus + rand.Intn(MaxBonus-MinBonus+1)
}

// FixedBonus always returns the same bonus.
type FixedBonus int

func (b FixedBonus) Bonus() int { return int(b) }

// OrderProcessor turns a checkout submission into EcoPoints and impact
// updates. It is the only writer of user points from purchases and of the
// community aggregate.
type OrderProcessor struct {
	store   *store.Store
	carts   *CartService
	bonus   BonusSource
	outbox  *events.Outbox
	metrics *metrics.Metrics
}

func NewOrderProcessor(st *store.Store, carts *CartService, bonus BonusSource, outbox *events.Outbox, m *metrics.Metrics) *OrderProcessor {
	if bonus == nil {
		bonus = RandomBonus{}
	}
	return &OrderProcessor{
		store:   st,
		carts:   carts,
		bonus:   bonus,
		outbox:  outbox,
		metrics: m,
	}
}

// Process credits order to userID (if that user exists), adds the order's
// impact to the community totals, empties the cart and returns the receipt.
// Input is not validated: odd values flow through the arithmetic.
func (p *OrderProcessor) Process(ctx context.Context, cartID, userID string, order model.Order) model.Receipt {
	var points, co2Saved float64
	for _, line := range order.Lines {
		points += line.Price * float64(line.Quantity) * pointsPerCurrencyUnit
		co2Saved += line.CarbonFootprint * float64(line.Quantity) / 1000
	}

	eco := order.Delivery == model.DeliveryEco
	if eco {
		points += ecoDeliveryPoints
		co2Saved += ecoDeliveryCO2Kg
	}

	bonus := p.bonus.Bonus()
	points += float64(bonus)

	receipt := model.Receipt{
		Points:      int(math.Floor(points)),
		Bonus:       bonus,
		EcoDelivery: eco,
		CO2Saved:    co2Saved,
		CO2Offset:   order.CarbonOffsetKg,
	}

	err := p.store.Update(func(snap *store.Snapshot) error {
		if u, ok := snap.User(userID); ok {
			u.EcoPoints += receipt.Points
			u.Impact.CO2Saved += co2Saved
			u.Impact.CO2Offset += order.CarbonOffsetKg
			snap.Users[u.ID] = u
			receipt.Credited = true
		} else if userID != "" {
			slog.WarnContext(ctx, "order for unknown user, crediting community only", "user_id", userID)
		}

		// community totals move even when no user is credited
		snap.Community.CO2Saved += co2Saved
		snap.Community.CO2Offset += order.CarbonOffsetKg
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to record order impact", "user_id", userID, "error", err)
		receipt.Credited = false
	}

	p.carts.Clear(ctx, cartID)

	p.metrics.ObserveOrder(order.Delivery, receipt)
	if p.outbox != nil {
		if e, err := events.NewOrderProcessed(userID, order, receipt); err != nil {
			slog.ErrorContext(ctx, "failed to build order event", "error", err)
		} else {
			p.outbox.Add(e)
		}
	}

	slog.InfoContext(ctx, "order processed",
		"user_id", userID,
		"points", receipt.Points,
		"bonus", bonus,
		"delivery", order.Delivery,
		"co2_saved", co2Saved,
		"co2_offset", order.CarbonOffsetKg,
		"credited", receipt.Credited,
	)

	return receipt
}
