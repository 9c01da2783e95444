package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category        `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// TypeAmount represents an amount aggregated by investment type.
type TypeAmount struct {
	Type   InvestmentType  `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}
