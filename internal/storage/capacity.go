package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidCapacity = errors.New("invalid product capacity")

// ProductCapacity — строка таблицы мощностей: сколько единиц изделия
// производится в день и сколько материала уходит на одну единицу.
type ProductCapacity struct {
	Name       string                `json:"name"`
	DailyLimit int                   `json:"daily_limit"`
	Materials  []MaterialRequirement `json:"materials"`
}

type MaterialRequirement struct {
	Material        string          `json:"material"`
	UnitsPerProduct decimal.Decimal `json:"units_per_product"`
}

func (p ProductCapacity) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrInvalidCapacity)
	}
	if p.DailyLimit <= 0 {
		return fmt.Errorf("%w: daily limit for %q must be positive, got %d", ErrInvalidCapacity, p.Name, p.DailyLimit)
	}
	for _, m := range p.Materials {
		if strings.TrimSpace(m.Material) == "" {
			return fmt.Errorf("%w: material name for %q is required", ErrInvalidCapacity, p.Name)
		}
		if m.UnitsPerProduct.IsNegative() {
			return fmt.Errorf("%w: units per product of %q for %q cannot be negative", ErrInvalidCapacity, m.Material, p.Name)
		}
	}
	return nil
}

// FindCapacity ищет изделие по точному совпадению имени.
func FindCapacity(capacities []ProductCapacity, name string) (ProductCapacity, bool) {
	for _, c := range capacities {
		if c.Name == name {
			return c, true
		}
	}
	return ProductCapacity{}, false
}
