package model

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Amounts are whole pesos displayed with dot thousands separators and no
// decimals ("$25.000"), matching the storefront UI. One format per message;
// callers must not mix formats within a single rendered text.

var pesoPrinter = message.NewPrinter(language.Spanish)

// FormatAmount renders a monetary amount as "$N" with es-style grouping.
// Fractions are rounded away since the store prices in whole pesos.
func FormatAmount(d decimal.Decimal) string {
	return pesoPrinter.Sprintf("$%v", number.Decimal(d.Round(0).IntPart()))
}

// ParsePrice converts a decimal string price to a Decimal, returning zero
// for empty or malformed input. Used when reading loosely-typed payloads
// from the product store API.
func ParsePrice(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
