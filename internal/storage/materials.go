package storage

import "github.com/shopspring/decimal"

// MaterialStock — остаток сырья. Может уйти в минус, перерасход не блокируется.
type MaterialStock struct {
	Name      string          `json:"name"`
	Remaining decimal.Decimal `json:"remaining"`
}

type MaterialUsage struct {
	Material string          `json:"material"`
	Consumed decimal.Decimal `json:"consumed"`
}
