package exchange

import "errors"

var (
	// ErrMissingCode is returned when an exchange is attempted without an
	// authorization code.
	ErrMissingCode = errors.New("exchange: authorization code is required")

	// ErrInvalidGrant means the provider rejected the code as invalid,
	// expired, or replayed. Terminal for that code: restart the redirect,
	// never retry the exchange.
	ErrInvalidGrant = errors.New("exchange: invalid grant")

	// ErrTransientExchange covers transport-level failures and provider 5xx
	// responses raised during the exchange. Recovery is a user-triggered
	// restart of the whole redirect.
	ErrTransientExchange = errors.New("exchange: transient exchange error")
)
