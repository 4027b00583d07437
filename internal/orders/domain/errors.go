package domain

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrUnknownPlan       = errors.New("unknown plan")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrNotVerified       = errors.New("email not verified")
)
