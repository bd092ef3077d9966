package ledger

import "errors"

// Fatal precondition failures. Processing of the current event stops; the
// caller decides retry or skip policy.
var (
	// ErrPairNotFound reports an event referencing a pair that was never
	// created. No placeholder is fabricated: doing so would corrupt the
	// provider-count invariant.
	ErrPairNotFound = errors.New("pair not found")

	// ErrTokenNotFound reports a pair referencing a missing token entity.
	ErrTokenNotFound = errors.New("token not found")

	// ErrBundleNotFound reports a missing global price bundle.
	ErrBundleNotFound = errors.New("price bundle not found")

	// ErrUnresolvedDecimals reports an amount conversion attempted against
	// a token whose decimals never resolved. The conversion is refused
	// rather than computed with a guessed exponent.
	ErrUnresolvedDecimals = errors.New("token decimals unresolved")
)
