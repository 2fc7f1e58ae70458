package service

import (
	"context"
	"errors"
	"sync"

	"ecoshop/internal/model"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidStep        = errors.New("action not allowed at this checkout step")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrInvalidDelivery    = errors.New("unknown delivery option")
)

type Step string

const (
	StepCart         Step = "cart"
	StepPayment      Step = "payment"
	StepProcessing   Step = "processing"
	StepConfirmation Step = "confirmation"
)

func (s Step) IsTerminal() bool {
	return s == StepConfirmation
}

type PaymentOptions struct {
	Delivery     model.DeliveryOption `json:"delivery"`
	OffsetCarbon bool                 `json:"offset_carbon"`
}

type CheckoutSession struct {
	CartID  string         `json:"cart_id"`
	Step    Step           `json:"step"`
	Options PaymentOptions `json:"options"`
	Quote   Quote          `json:"quote"`
	Receipt *model.Receipt `json:"receipt,omitempty"`
}

// CheckoutService sequences cart -> payment -> processing -> confirmation
// for each cart and makes sure an order is processed once per submission.
type CheckoutService struct {
	mu        sync.Mutex
	sessions  map[string]*CheckoutSession
	carts     *CartService
	processor *OrderProcessor
}

func NewCheckoutService(carts *CartService, processor *OrderProcessor) *CheckoutService {
	return &CheckoutService{
		sessions:  make(map[string]*CheckoutSession),
		carts:     carts,
		processor: processor,
	}
}

func (s *CheckoutService) Session(ctx context.Context, cartID string) CheckoutSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.viewLocked(ctx, cartID)
}

// Begin moves an open, non-empty cart to the payment step. The cart stays
// locked against edits until Back, Reset or a completed Pay.
func (s *CheckoutService) Begin(ctx context.Context, cartID string) (CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionLocked(cartID)
	switch sess.Step {
	case StepPayment:
		return s.viewLocked(ctx, cartID), nil
	case StepCart:
	default:
		return CheckoutSession{}, ErrInvalidStep
	}

	if len(s.carts.Lines(ctx, cartID)) == 0 {
		return CheckoutSession{}, ErrEmptyCart
	}

	s.carts.Lock(ctx, cartID)
	sess.Step = StepPayment
	sess.Options = PaymentOptions{Delivery: model.DeliveryStandard}
	sess.Receipt = nil
	return s.viewLocked(ctx, cartID), nil
}

// Back returns from payment to cart editing.
func (s *CheckoutService) Back(ctx context.Context, cartID string) (CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionLocked(cartID)
	if sess.Step != StepPayment {
		return CheckoutSession{}, ErrInvalidStep
	}
	sess.Step = StepCart
	s.carts.Unlock(ctx, cartID)
	return s.viewLocked(ctx, cartID), nil
}

// Reset abandons the flow and returns to the cart step. It is refused while
// an order is being processed.
func (s *CheckoutService) Reset(ctx context.Context, cartID string) (CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[cartID]; ok && sess.Step == StepProcessing {
		return CheckoutSession{}, ErrCheckoutInProgress
	}
	delete(s.sessions, cartID)
	s.carts.Unlock(ctx, cartID)
	return s.viewLocked(ctx, cartID), nil
}

// Pay submits the order. The session is marked processing before the order
// processor runs, so a concurrent second submission is rejected rather than
// processed twice.
func (s *CheckoutService) Pay(ctx context.Context, cartID, userID string, opts PaymentOptions) (model.Receipt, error) {
	if !opts.Delivery.Valid() {
		return model.Receipt{}, ErrInvalidDelivery
	}

	s.mu.Lock()
	sess := s.sessionLocked(cartID)
	switch sess.Step {
	case StepPayment:
	case StepProcessing:
		s.mu.Unlock()
		return model.Receipt{}, ErrCheckoutInProgress
	default:
		s.mu.Unlock()
		return model.Receipt{}, ErrInvalidStep
	}

	lines := s.carts.Lines(ctx, cartID)
	if len(lines) == 0 {
		s.mu.Unlock()
		return model.Receipt{}, ErrEmptyCart
	}
	sess.Step = StepProcessing
	sess.Options = opts
	s.mu.Unlock()

	order := model.Order{
		Lines:    lines,
		Delivery: opts.Delivery,
	}
	if opts.OffsetCarbon {
		order.CarbonOffsetKg = CarbonFootprintKg(lines)
	}

	receipt := s.processor.Process(ctx, cartID, userID, order)

	s.mu.Lock()
	sess.Step = StepConfirmation
	sess.Receipt = &receipt
	s.carts.Unlock(ctx, cartID)
	s.mu.Unlock()

	return receipt, nil
}

func (s *CheckoutService) sessionLocked(cartID string) *CheckoutSession {
	sess, ok := s.sessions[cartID]
	if !ok {
		sess = &CheckoutSession{CartID: cartID, Step: StepCart}
		s.sessions[cartID] = sess
	}
	return sess
}

func (s *CheckoutService) viewLocked(ctx context.Context, cartID string) CheckoutSession {
	view := CheckoutSession{CartID: cartID, Step: StepCart}
	if sess, ok := s.sessions[cartID]; ok {
		view = *sess
		if sess.Receipt != nil {
			r := *sess.Receipt
			view.Receipt = &r
		}
	}
	view.Quote = NewQuote(s.carts.Lines(ctx, cartID), view.Options.OffsetCarbon)
	return view
}
