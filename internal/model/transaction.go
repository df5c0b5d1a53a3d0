// Package model defines the core domain models used throughout the application.
package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionData is a single financial transaction as supplied by the caller.
// It is immutable once constructed; the engine never writes it back.
type TransactionData struct {
	Date               time.Time       `json:"date"`
	Description        string          `json:"description"`
	CurrencyCode       string          `json:"currency_code,omitempty"`
	SourceAccount      string          `json:"source_account,omitempty"`
	DestinationAccount string          `json:"destination_account,omitempty"`
	Category           string          `json:"category,omitempty"`
	Amount             decimal.Decimal `json:"amount"`
	ID                 int64           `json:"id"`
}

// IsZero reports whether the transaction carries no usable data.
func (t TransactionData) IsZero() bool {
	return t.ID == 0 && strings.TrimSpace(t.Description) == ""
}
