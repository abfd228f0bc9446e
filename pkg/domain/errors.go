package domain

import "errors"

// Domain errors. All of these are recovered at the service boundary and
// mapped to caller-facing results; none should crash the serving process.
var (
	// ErrInsufficientFunds is returned when a debit would take a fiat or BTC
	// balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrPriceUnavailable is returned when the external price feed has no
	// usable current value; the mutation has no side effects and the caller
	// may retry.
	ErrPriceUnavailable = errors.New("bitcoin price unavailable")

	// ErrValidation is returned for malformed input, rejected before any
	// balance is read.
	ErrValidation = errors.New("validation error")

	// ErrAmountMustBePositive is returned when a mutation amount is zero or
	// negative.
	ErrAmountMustBePositive = errors.New("amount must be positive")

	// ErrNotFound is returned when a referenced user or transaction does not
	// exist.
	ErrNotFound = errors.New("resource not found")

	// ErrPreconditionFailed is returned when an operation's precondition does
	// not hold, e.g. deleting a user whose balance is not zero.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrStaleRates is returned when the platform USD→INR rates have never
	// been configured.
	ErrStaleRates = errors.New("platform rates not configured")
)
