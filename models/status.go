package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // placed, awaiting confirmation
	OrderStatusConfirmed OrderStatus = "confirmed" // accepted by the store
	OrderStatusShipped   OrderStatus = "shipped"   // out for delivery
	OrderStatusDelivered OrderStatus = "delivered" // received by the customer
	OrderStatusCancelled OrderStatus = "cancelled" // absorbing state

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// TransitionError reports an attempted status change that the order
// lifecycle does not allow.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %q to %q", e.From, e.To)
}

// orderTransitions is the forward-only lifecycle:
//
//	pending ──> confirmed ──> shipped ──> delivered
//	    └──────────┴─────────────┴──> cancelled
//
// delivered and cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// paymentTransitions is independent of the order lifecycle: a COD order
// can be delivered while payment is still pending.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:  {PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusPaid:     {PaymentStatusRefunded},
	PaymentStatusFailed:   {},
	PaymentStatusRefunded: {},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status changes are allowed.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(strings.ToLower(raw))
	if _, ok := orderTransitions[s]; !ok {
		return "", errors.New("invalid order status: " + raw)
	}
	return s, nil
}

func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	s := PaymentStatus(strings.ToLower(raw))
	if _, ok := paymentTransitions[s]; !ok {
		return "", errors.New("invalid payment status: " + raw)
	}
	return s, nil
}

// ApplyStatus moves the order to next, stamping shipped_at/delivered_at on
// the matching transition and updated_at on every transition.
func (o *Order) ApplyStatus(next OrderStatus, now time.Time) error {
	if !o.Status.CanTransitionTo(next) {
		return &TransitionError{From: string(o.Status), To: string(next)}
	}

	switch next {
	case OrderStatusShipped:
		o.ShippedAt = &now
	case OrderStatusDelivered:
		o.DeliveredAt = &now
	}

	o.Status = next
	o.UpdatedAt = now
	return nil
}

// ApplyPaymentStatus moves the payment machine to next.
func (o *Order) ApplyPaymentStatus(next PaymentStatus, now time.Time) error {
	if !o.PaymentStatus.CanTransitionTo(next) {
		return &TransitionError{From: string(o.PaymentStatus), To: string(next)}
	}
	o.PaymentStatus = next
	o.UpdatedAt = now
	return nil
}
