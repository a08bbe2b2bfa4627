package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"prod-scheduler/internal/service/allocate"
	"prod-scheduler/internal/service/consumption"
	"prod-scheduler/internal/storage"
)

const pipelineSize = 5

// lowStockThreshold — ниже этого остатка материал подсвечивается на дашборде.
var lowStockThreshold = decimal.NewFromInt(50)

var (
	ErrDuplicateProduct  = errors.New("product already exists")
	ErrProductNotFound   = errors.New("product not found")
	ErrDuplicateMaterial = errors.New("material already exists")
	ErrMaterialNotFound  = errors.New("material not found")
	ErrOrderNotFound     = errors.New("order not found")
)

// State — всё, что приложение хранит в key-value хранилище.
type State struct {
	Capacities []storage.ProductCapacity `json:"capacities"`
	Orders     []storage.Order           `json:"orders"`
	Materials  []storage.MaterialStock   `json:"materials"`
	Schedule   storage.SchedulePlan      `json:"schedule"`
}

func (s State) clone() State {
	return State{
		Capacities: slices.Clone(s.Capacities),
		Orders:     slices.Clone(s.Orders),
		Materials:  slices.Clone(s.Materials),
		Schedule:   s.Schedule.Clone(),
	}
}

type Dashboard struct {
	Date            string                    `json:"date"`
	Today           []storage.AllocationEntry `json:"today"`
	PendingOrders   int                       `json:"pending_orders"`
	CompletedOrders int                       `json:"completed_orders"`
	Products        int                       `json:"products"`
	CapacityReached bool                      `json:"capacity_reached"`
	Pipeline        []storage.Order           `json:"pipeline"`
	Materials       []storage.MaterialStock   `json:"materials"`
	LowStock        []string                  `json:"low_stock"`
	Skipped         []allocate.Skip           `json:"skipped"`
}

type Option func(*Planner)

func WithClock(now func() time.Time) Option {
	return func(p *Planner) {
		p.now = now
	}
}

func WithAllocateOptions(opts ...allocate.Option) Option {
	return func(p *Planner) {
		p.allocOpts = append(p.allocOpts, opts...)
	}
}

// Planner владеет единственным контейнером состояния и применяет
// переходы по одному. После каждого изменения заказов или мощностей
// план пересчитывается заново.
type Planner struct {
	mu sync.Mutex

	kv        storage.KeyValue
	log       *slog.Logger
	now       func() time.Time
	allocOpts []allocate.Option

	state      State
	skipped    []allocate.Skip
	computedOn string
}

func New(kv storage.KeyValue, log *slog.Logger, opts ...Option) *Planner {
	p := &Planner{
		kv:    kv,
		log:   log,
		now:   time.Now,
		state: State{Schedule: storage.SchedulePlan{}},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Planner) Load(ctx context.Context) error {
	const op = "service.planner.Load"

	var next State

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.read(gCtx, storage.KeyCapacities, &next.Capacities)
	})
	g.Go(func() error {
		return p.read(gCtx, storage.KeyOrders, &next.Orders)
	})
	g.Go(func() error {
		return p.read(gCtx, storage.KeyMaterials, &next.Materials)
	})
	g.Go(func() error {
		return p.read(gCtx, storage.KeySchedule, &next.Schedule)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if next.Schedule == nil {
		next.Schedule = storage.SchedulePlan{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = next

	p.log.Info("state loaded",
		slog.Int("capacities", len(next.Capacities)),
		slog.Int("orders", len(next.Orders)),
		slog.Int("materials", len(next.Materials)),
	)

	if err := p.refresh(ctx); err != nil {
		// оставляем последний сохранённый план, чтобы было что показать
		p.log.Warn("schedule not recomputed on load", slog.String("op", op), slog.String("error", err.Error()))
	}

	return nil
}

func (p *Planner) read(ctx context.Context, key string, dst any) error {
	raw, found, err := p.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if !found || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// refresh пересчитывает план на сегодня и сохраняет его. Вызывать под mu.
func (p *Planner) refresh(ctx context.Context) error {
	next := p.state.clone()
	skipped, err := p.recompute(&next)
	if err != nil {
		return err
	}
	if err := p.commit(ctx, next, skipped, storage.KeySchedule); err != nil {
		return err
	}
	return nil
}

func (p *Planner) recompute(s *State) ([]allocate.Skip, error) {
	res, err := allocate.Allocate(s.Capacities, s.Orders, p.now(), p.allocOpts...)
	if err != nil {
		return nil, err
	}
	s.Schedule = res.Plan
	return res.Skipped, nil
}

// commit пишет перечисленные ключи одним SetMany и только после
// успешной записи подменяет состояние в памяти.
func (p *Planner) commit(ctx context.Context, next State, skipped []allocate.Skip, keys ...string) error {
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		var v any
		switch key {
		case storage.KeyCapacities:
			v = next.Capacities
		case storage.KeyOrders:
			v = next.Orders
		case storage.KeyMaterials:
			v = next.Materials
		case storage.KeySchedule:
			v = next.Schedule
		default:
			return fmt.Errorf("unknown state key %q", key)
		}

		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		values[key] = string(raw)
	}

	if err := p.kv.SetMany(ctx, values); err != nil {
		return err
	}

	p.state = next
	if slices.Contains(keys, storage.KeySchedule) {
		p.skipped = skipped
		p.computedOn = storage.DateKey(p.now())
	}
	return nil
}

// mutate применяет переход fn к копии состояния, при необходимости
// пересчитывает план и атомарно сохраняет результат.
func (p *Planner) mutate(ctx context.Context, reschedule bool, fn func(s *State) error, keys ...string) error {
	next := p.state.clone()
	if err := fn(&next); err != nil {
		return err
	}

	skipped := p.skipped
	if reschedule {
		var err error
		skipped, err = p.recompute(&next)
		if err != nil {
			return err
		}
		keys = append(keys, storage.KeySchedule)
	}

	return p.commit(ctx, next, skipped, keys...)
}

func (p *Planner) Capacities(ctx context.Context) ([]storage.ProductCapacity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.state.Capacities), nil
}

func (p *Planner) AddCapacity(ctx context.Context, capacity storage.ProductCapacity) error {
	const op = "service.planner.AddCapacity"

	if err := capacity.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.mutate(ctx, true, func(s *State) error {
		if _, exists := storage.FindCapacity(s.Capacities, capacity.Name); exists {
			return fmt.Errorf("%w: %q", ErrDuplicateProduct, capacity.Name)
		}
		s.Capacities = append(s.Capacities, capacity)
		return nil
	}, storage.KeyCapacities)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.log.Info("capacity added", slog.String("product", capacity.Name), slog.Int("daily_limit", capacity.DailyLimit))
	return nil
}

func (p *Planner) RemoveCapacity(ctx context.Context, name string) error {
	const op = "service.planner.RemoveCapacity"

	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.mutate(ctx, true, func(s *State) error {
		idx := slices.IndexFunc(s.Capacities, func(c storage.ProductCapacity) bool { return c.Name == name })
		if idx < 0 {
			return fmt.Errorf("%w: %q", ErrProductNotFound, name)
		}
		s.Capacities = slices.Delete(s.Capacities, idx, idx+1)
		return nil
	}, storage.KeyCapacities)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.log.Info("capacity removed", slog.String("product", name))
	return nil
}

func (p *Planner) Materials(ctx context.Context) ([]storage.MaterialStock, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.state.Materials), nil
}

func (p *Planner) AddMaterial(ctx context.Context, material storage.MaterialStock) error {
	const op = "service.planner.AddMaterial"

	if material.Name == "" {
		return fmt.Errorf("%s: material name is required", op)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.mutate(ctx, false, func(s *State) error {
		if slices.ContainsFunc(s.Materials, func(m storage.MaterialStock) bool { return m.Name == material.Name }) {
			return fmt.Errorf("%w: %q", ErrDuplicateMaterial, material.Name)
		}
		s.Materials = append(s.Materials, material)
		return nil
	}, storage.KeyMaterials)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.log.Info("material added", slog.String("material", material.Name), slog.String("remaining", material.Remaining.String()))
	return nil
}

func (p *Planner) RemoveMaterial(ctx context.Context, name string) error {
	const op = "service.planner.RemoveMaterial"

	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.mutate(ctx, false, func(s *State) error {
		idx := slices.IndexFunc(s.Materials, func(m storage.MaterialStock) bool { return m.Name == name })
		if idx < 0 {
			return fmt.Errorf("%w: %q", ErrMaterialNotFound, name)
		}
		s.Materials = slices.Delete(s.Materials, idx, idx+1)
		return nil
	}, storage.KeyMaterials)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (p *Planner) Orders(ctx context.Context) ([]storage.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.state.Orders), nil
}

func (p *Planner) AddOrder(ctx context.Context, product string, quantity int) (storage.Order, error) {
	const op = "service.planner.AddOrder"

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	order := storage.Order{
		ID:        p.nextOrderID(now),
		Product:   product,
		Quantity:  quantity,
		Status:    storage.StatusPending,
		CreatedAt: now,
	}
	if err := order.Validate(); err != nil {
		return storage.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	err := p.mutate(ctx, true, func(s *State) error {
		s.Orders = append(s.Orders, order)
		return nil
	}, storage.KeyOrders)
	if err != nil {
		return storage.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	p.log.Info("order added", slog.Int64("id", order.ID), slog.String("product", product), slog.Int("quantity", quantity))
	return order, nil
}

// nextOrderID — время создания в мс, но строго больше последнего id.
func (p *Planner) nextOrderID(now time.Time) int64 {
	id := now.UnixMilli()
	for _, o := range p.state.Orders {
		if o.ID >= id {
			id = o.ID + 1
		}
	}
	return id
}

func (p *Planner) DeleteOrder(ctx context.Context, id int64) error {
	const op = "service.planner.DeleteOrder"

	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.mutate(ctx, true, func(s *State) error {
		_, idx, ok := storage.FindOrder(s.Orders, id)
		if !ok {
			return fmt.Errorf("%w: %d", ErrOrderNotFound, id)
		}
		s.Orders = slices.Delete(s.Orders, idx, idx+1)
		return nil
	}, storage.KeyOrders)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.log.Info("order deleted", slog.Int64("id", id))
	return nil
}

// CompleteOrder списывает материалы, закрывает заказ и пересчитывает план
// одной записью в хранилище.
func (p *Planner) CompleteOrder(ctx context.Context, id int64) (consumption.Completion, error) {
	const op = "service.planner.CompleteOrder"

	p.mu.Lock()
	defer p.mu.Unlock()

	var done consumption.Completion
	err := p.mutate(ctx, true, func(s *State) error {
		order, idx, ok := storage.FindOrder(s.Orders, id)
		if !ok {
			return fmt.Errorf("%w: %d", ErrOrderNotFound, id)
		}

		c, err := consumption.Complete(order, s.Capacities, s.Materials)
		if err != nil {
			return err
		}

		s.Orders[idx] = c.Order
		s.Materials = c.Stock
		done = c
		return nil
	}, storage.KeyOrders, storage.KeyMaterials)
	if err != nil {
		return consumption.Completion{}, fmt.Errorf("%s: %w", op, err)
	}

	p.log.Info("order completed", slog.Int64("id", id), slog.Any("usage", done.Usage))
	if len(done.Unmatched) > 0 {
		p.log.Warn("consumed materials missing from stock", slog.Int64("id", id), slog.Any("unmatched", done.Unmatched))
	}

	return done, nil
}

// Schedule возвращает последний рассчитанный план. Если наступил
// новый день, план пересчитывается от сегодняшней даты.
func (p *Planner) Schedule(ctx context.Context) (storage.SchedulePlan, []allocate.Skip, error) {
	const op = "service.planner.Schedule"

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.schedule(ctx); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return p.state.Schedule.Clone(), slices.Clone(p.skipped), nil
}

// schedule освежает план, если сменился день. Вызывать под mu.
func (p *Planner) schedule(ctx context.Context) error {
	if p.computedOn == storage.DateKey(p.now()) {
		return nil
	}
	return p.refresh(ctx)
}

func (p *Planner) Recalculate(ctx context.Context) (storage.SchedulePlan, []allocate.Skip, error) {
	const op = "service.planner.Recalculate"

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.refresh(ctx); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return p.state.Schedule.Clone(), slices.Clone(p.skipped), nil
}

func (p *Planner) Dashboard(ctx context.Context) (Dashboard, error) {
	const op = "service.planner.Dashboard"

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.schedule(ctx); err != nil {
		return Dashboard{}, fmt.Errorf("%s: %w", op, err)
	}

	today := storage.DateKey(p.now())
	d := Dashboard{
		Date:      today,
		Today:     slices.Clone(p.state.Schedule.Day(today)),
		Products:  len(p.state.Capacities),
		Pipeline:  []storage.Order{},
		Materials: slices.Clone(p.state.Materials),
		LowStock:  []string{},
		Skipped:   slices.Clone(p.skipped),
	}

	if d.Today == nil {
		d.Today = []storage.AllocationEntry{}
	}
	if d.Materials == nil {
		d.Materials = []storage.MaterialStock{}
	}

	for _, e := range d.Today {
		if e.Full() {
			d.CapacityReached = true
			break
		}
	}

	for _, o := range p.state.Orders {
		switch o.Status {
		case storage.StatusPending:
			d.PendingOrders++
			if len(d.Pipeline) < pipelineSize {
				d.Pipeline = append(d.Pipeline, o)
			}
		case storage.StatusCompleted:
			d.CompletedOrders++
		}
	}

	for _, m := range d.Materials {
		if m.Remaining.LessThan(lowStockThreshold) {
			d.LowStock = append(d.LowStock, m.Name)
		}
	}

	return d, nil
}

// Snapshot returns a copy of the whole state for reports.
func (p *Planner) Snapshot(ctx context.Context) (State, error) {
	const op = "service.planner.Snapshot"

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.schedule(ctx); err != nil {
		return State{}, fmt.Errorf("%s: %w", op, err)
	}

	return p.state.clone(), nil
}
