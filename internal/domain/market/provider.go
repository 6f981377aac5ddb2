package market

import (
	"context"
	"strings"
)

// Provider supplies live profile and price lookups by symbol
type Provider interface {
	GetCompanyProfile(ctx context.Context, symbol string) (*CompanyProfile, error)
	GetStockPriceQuote(ctx context.Context, symbol string) (*Quote, error)
}

// NormalizeSymbol upper-cases and trims a ticker
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidateSymbol checks a ticker: 1-10 chars of A-Z, 0-9, '.', '-'
func ValidateSymbol(symbol string) bool {
	if len(symbol) == 0 || len(symbol) > 10 {
		return false
	}
	for _, c := range symbol {
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '-':
		default:
			return false
		}
	}
	return true
}
