package storage

import "context"

const (
	KeyCapacities = "capacities"
	KeyOrders     = "orders"
	KeyMaterials  = "materials"
	KeySchedule   = "schedule"
)

// KeyValue — хранилище состояния, которым владеет приложение, а не ядро.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	// SetMany пишет все ключи атомарно: либо все, либо ни одного.
	SetMany(ctx context.Context, values map[string]string) error
}
