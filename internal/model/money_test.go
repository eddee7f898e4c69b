package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		want   string
	}{
		{"zero", decimal.Zero, "$0"},
		{"under a thousand", decimal.NewFromInt(950), "$950"},
		{"thousands grouped with dots", decimal.NewFromInt(25000), "$25.000"},
		{"typical total", decimal.NewFromInt(50000), "$50.000"},
		{"millions", decimal.NewFromInt(1234567), "$1.234.567"},
		{"fraction rounds away", decimal.NewFromFloat(120000.49), "$120.000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAmount(tt.amount); got != tt.want {
				t.Errorf("FormatAmount(%s) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  decimal.Decimal
	}{
		{"integer", "25000", decimal.NewFromInt(25000)},
		{"decimal", "99.50", decimal.NewFromFloat(99.50)},
		{"empty is zero", "", decimal.Zero},
		{"garbage is zero", "abc", decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePrice(tt.input); !got.Equal(tt.want) {
				t.Errorf("ParsePrice(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestProductInStock(t *testing.T) {
	unlimited := Product{Name: "sin límite"}
	if !unlimited.InStock(1000, 1000) {
		t.Error("nil stock should never run out")
	}

	bounded := Product{Name: "limitado", Stock: StockOf(5)}
	if !bounded.InStock(0, 5) {
		t.Error("exact stock should be allowed")
	}
	if bounded.InStock(3, 3) {
		t.Error("held+qty over stock should be rejected")
	}
	if !bounded.InStock(4, 1) {
		t.Error("topping up to stock should be allowed")
	}
}
