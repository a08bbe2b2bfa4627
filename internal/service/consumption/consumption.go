package consumption

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"prod-scheduler/internal/storage"
)

var ErrAlreadyCompleted = errors.New("order already completed")

// Completion — результат закрытия заказа. Вызывающий применяет его целиком.
type Completion struct {
	Order storage.Order           `json:"order"`
	Usage []storage.MaterialUsage `json:"usage"`
	Stock []storage.MaterialStock `json:"stock"`
	// Unmatched — расход по материалам, которых нет на складе.
	Unmatched []storage.MaterialUsage `json:"unmatched,omitempty"`
}

// MaterialUsage считает расход сырья на quantity единиц изделия в порядке рецептуры.
// Неизвестное изделие или пустая рецептура дают пустой список.
func MaterialUsage(productName string, quantity int, capacities []storage.ProductCapacity) []storage.MaterialUsage {
	product, ok := storage.FindCapacity(capacities, productName)
	if !ok || len(product.Materials) == 0 {
		return []storage.MaterialUsage{}
	}

	qty := decimal.NewFromInt(int64(quantity))

	usage := make([]storage.MaterialUsage, 0, len(product.Materials))
	for _, m := range product.Materials {
		usage = append(usage, storage.MaterialUsage{
			Material: m.Material,
			Consumed: m.UnitsPerProduct.Mul(qty),
		})
	}
	return usage
}

// Complete закрывает заказ: списывает материалы и переводит статус в completed.
// Входные срезы не изменяются.
func Complete(order storage.Order, capacities []storage.ProductCapacity, stock []storage.MaterialStock) (Completion, error) {
	const op = "service.consumption.Complete"

	if order.Status == storage.StatusCompleted {
		return Completion{}, fmt.Errorf("%s: order %d: %w", op, order.ID, ErrAlreadyCompleted)
	}

	usage := MaterialUsage(order.Product, order.Quantity, capacities)

	updated := make([]storage.MaterialStock, len(stock))
	copy(updated, stock)

	var unmatched []storage.MaterialUsage
	for _, u := range usage {
		idx := stockIndex(updated, u.Material)
		if idx < 0 {
			unmatched = append(unmatched, u)
			continue
		}
		updated[idx].Remaining = updated[idx].Remaining.Sub(u.Consumed)
	}

	order.Status = storage.StatusCompleted

	return Completion{
		Order:     order,
		Usage:     usage,
		Stock:     updated,
		Unmatched: unmatched,
	}, nil
}

func stockIndex(stock []storage.MaterialStock, name string) int {
	for i, s := range stock {
		if s.Name == name {
			return i
		}
	}
	return -1
}
