package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
)

var ErrInvalidOrder = errors.New("invalid order")

type Order struct {
	ID        int64       `json:"id"`
	Product   string      `json:"product"`
	Quantity  int         `json:"quantity"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

func (o Order) Pending() bool {
	return o.Status == StatusPending
}

func (o Order) Validate() error {
	if strings.TrimSpace(o.Product) == "" {
		return fmt.Errorf("%w: product is required", ErrInvalidOrder)
	}
	if o.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidOrder, o.Quantity)
	}
	return nil
}

func FindOrder(orders []Order, id int64) (Order, int, bool) {
	for i, o := range orders {
		if o.ID == id {
			return o, i, true
		}
	}
	return Order{}, -1, false
}
