package allocate

import (
	"errors"
	"fmt"
	"time"

	"prod-scheduler/internal/storage"
)

var (
	ErrCapacityUnsatisfiable = errors.New("capacity unsatisfiable")
	ErrUnknownProduct        = errors.New("unknown product")
)

type SkipReason string

const (
	ReasonUnknownProduct        SkipReason = "unknown_product"
	ReasonCapacityUnsatisfiable SkipReason = "capacity_unsatisfiable"
)

// OrderAllocation — сколько единиц заказа легло на конкретный день.
type OrderAllocation struct {
	OrderID  int64  `json:"order_id"`
	Product  string `json:"product"`
	Date     string `json:"date"`
	Quantity int    `json:"quantity"`
}

type Skip struct {
	OrderID int64      `json:"order_id"`
	Product string     `json:"product"`
	Reason  SkipReason `json:"reason"`
}

type Result struct {
	Plan        storage.SchedulePlan `json:"plan"`
	Allocations []OrderAllocation    `json:"allocations"`
	Skipped     []Skip               `json:"skipped"`
}

type options struct {
	horizon int
	strict  bool
}

type Option func(*options)

// WithHorizon caps how many calendar days a single order may span.
// Zero or less means no cap, which is the default.
func WithHorizon(days int) Option {
	return func(o *options) {
		o.horizon = max(days, 0)
	}
}

// WithStrict turns skipped orders into errors.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// Allocate распределяет pending-заказы по дням в порядке поступления.
// Загрузка дня общая для всех заказов одного прогона, входные данные не меняются.
func Allocate(capacities []storage.ProductCapacity, orders []storage.Order, today time.Time, opts ...Option) (Result, error) {
	const op = "service.allocate.Allocate"

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	res := Result{Plan: storage.SchedulePlan{}}
	start := startOfDay(today)

	for _, order := range orders {
		if !order.Pending() {
			continue
		}

		product, ok := storage.FindCapacity(capacities, order.Product)
		if !ok {
			if o.strict {
				return Result{}, fmt.Errorf("%s: order %d: %w %q", op, order.ID, ErrUnknownProduct, order.Product)
			}
			res.Skipped = append(res.Skipped, Skip{OrderID: order.ID, Product: order.Product, Reason: ReasonUnknownProduct})
			continue
		}

		placed, ok := placeOrder(res.Plan, capacities, product, order, start, o.horizon)
		if !ok {
			if o.strict {
				return Result{}, fmt.Errorf("%s: order %d for %q (daily limit %d): %w", op, order.ID, order.Product, product.DailyLimit, ErrCapacityUnsatisfiable)
			}
			res.Skipped = append(res.Skipped, Skip{OrderID: order.ID, Product: order.Product, Reason: ReasonCapacityUnsatisfiable})
			continue
		}

		res.Allocations = append(res.Allocations, placed...)
	}

	return res, nil
}

// placeOrder двигает курсор по дням, пока заказ не разложен целиком.
// Если задан горизонт и заказ в него не помещается, все его приращения откатываются.
func placeOrder(plan storage.SchedulePlan, capacities []storage.ProductCapacity, product storage.ProductCapacity, order storage.Order, start time.Time, horizon int) ([]OrderAllocation, bool) {
	if product.DailyLimit <= 0 {
		return nil, false
	}

	var placed []OrderAllocation
	created := make(map[string]bool)

	remaining := order.Quantity
	cursor := start

	for day := 0; remaining > 0; day++ {
		if horizon > 0 && day >= horizon {
			rollback(plan, placed, created)
			return nil, false
		}

		key := storage.DateKey(cursor)
		if _, ok := plan[key]; !ok {
			plan[key] = newDay(capacities)
			created[key] = true
		}

		idx := entryIndex(plan[key], order.Product)
		entry := &plan[key][idx]

		available := entry.Capacity - entry.Allocated
		toAllocate := min(remaining, max(available, 0))

		if toAllocate > 0 {
			entry.Allocated += toAllocate
			remaining -= toAllocate
			placed = append(placed, OrderAllocation{
				OrderID:  order.ID,
				Product:  order.Product,
				Date:     key,
				Quantity: toAllocate,
			})
		}

		if remaining > 0 {
			cursor = cursor.AddDate(0, 0, 1)
		}
	}

	return placed, true
}

func rollback(plan storage.SchedulePlan, placed []OrderAllocation, created map[string]bool) {
	for _, p := range placed {
		entries := plan[p.Date]
		entries[entryIndex(entries, p.Product)].Allocated -= p.Quantity
	}
	for key := range created {
		delete(plan, key)
	}
}

// newDay открывает день с нулевой загрузкой. Отрицательный лимит из старых
// данных считается нулевым, чтобы allocated <= capacity держалось всегда.
func newDay(capacities []storage.ProductCapacity) []storage.AllocationEntry {
	entries := make([]storage.AllocationEntry, 0, len(capacities))
	for _, c := range capacities {
		entries = append(entries, storage.AllocationEntry{
			Product:   c.Name,
			Allocated: 0,
			Capacity:  max(c.DailyLimit, 0),
		})
	}
	return entries
}

// entryIndex ищет первую запись изделия за день. При дублях имени
// в таблице мощностей работает первая, как и FindCapacity.
func entryIndex(entries []storage.AllocationEntry, product string) int {
	for i, e := range entries {
		if e.Product == product {
			return i
		}
	}
	return -1
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
