package models

import "errors"

var (
	// ErrEmptyCart rejects checkout with nothing to order.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrBoxCapacityExceeded rejects box changes that would push the total
	// unit count past BoxCapacity; the box is left untouched.
	ErrBoxCapacityExceeded = errors.New("subscription box capacity exceeded")

	// ErrOutOfStock rejects a checkout line the current stock cannot cover.
	ErrOutOfStock = errors.New("insufficient stock")
)
