package market

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrProvider         = errors.New("market data provider error")
	ErrEmptyResponse    = errors.New("empty response")
	ErrMissingField     = errors.New("missing required field")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrInvalidSymbol    = errors.New("invalid symbol")
)

// ProviderError is the single error kind surfaced by a market data provider.
// Transport, status, decoding and upstream "error" payloads all map to it.
type ProviderError struct {
	Op     string
	Symbol string
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Symbol, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrProvider) hold
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}
