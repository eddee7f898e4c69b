package model

import "github.com/shopspring/decimal"

// OrderMessage is a rendered, human-readable order ready for dispatch.
// Created at send time, never mutated, never stored after dispatch
// succeeds or fails.
type OrderMessage struct {
	Text  string
	Total decimal.Decimal
}
