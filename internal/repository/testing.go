// internal/repository/testing.go
package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/owlnest/owlnest-backend/internal/models"
)

// In-memory repositories for tests. MemoryActivationRepository enforces the same
// unique constraints as the real schema and reports violations as
// *DuplicateError, so constraint-dependent behavior (the double-activation race,
// display-token retries) is exercised without a database.

type MemoryKeyRepository struct {
	mtx  sync.RWMutex
	keys []models.ProductKey
}

func NewMemoryKeyRepository(keys ...models.ProductKey) *MemoryKeyRepository {
	return &MemoryKeyRepository{keys: keys}
}

func (r *MemoryKeyRepository) Add(key models.ProductKey) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.keys = append(r.keys, key)
}

func (r *MemoryKeyRepository) FindByToken(ctx context.Context, token string) ([]models.ProductKey, error) {
	return r.filter(func(k models.ProductKey) bool { return k.Token == token })
}

func (r *MemoryKeyRepository) FindByPayload(ctx context.Context, payload string) ([]models.ProductKey, error) {
	return r.filter(func(k models.ProductKey) bool { return k.Payload == payload })
}

func (r *MemoryKeyRepository) FindByPayloadSuffix(ctx context.Context, token string) ([]models.ProductKey, error) {
	return r.filter(func(k models.ProductKey) bool { return strings.HasSuffix(k.Payload, "."+token) })
}

func (r *MemoryKeyRepository) filter(match func(models.ProductKey) bool) ([]models.ProductKey, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	var out []models.ProductKey
	for _, k := range r.keys {
		if match(k) {
			out = append(out, k)
			if len(out) == 2 {
				break
			}
		}
	}
	return out, nil
}

type MemoryActivationRepository struct {
	mtx           sync.Mutex
	byPayload     map[string]*models.Activation
	displayTokens map[string]bool
}

func NewMemoryActivationRepository() *MemoryActivationRepository {
	return &MemoryActivationRepository{
		byPayload:     make(map[string]*models.Activation),
		displayTokens: make(map[string]bool),
	}
}

func (r *MemoryActivationRepository) FindByPayload(ctx context.Context, payload string) (*models.Activation, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if activation, ok := r.byPayload[payload]; ok {
		copied := *activation
		return &copied, nil
	}
	return nil, nil
}

func (r *MemoryActivationRepository) Create(ctx context.Context, activation *models.Activation) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.byPayload[activation.Payload]; ok {
		return &DuplicateError{Constraint: "idx_activations_payload"}
	}
	if r.displayTokens[activation.DisplayToken] {
		return &DuplicateError{Constraint: "idx_activations_display_token"}
	}

	if activation.ID == uuid.Nil {
		activation.ID = uuid.New()
	}

	copied := *activation
	r.byPayload[activation.Payload] = &copied
	r.displayTokens[activation.DisplayToken] = true
	return nil
}

// Count reports how many activations exist; used to assert at-most-once.
func (r *MemoryActivationRepository) Count() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return len(r.byPayload)
}

// ReserveDisplayToken marks a display token as taken so tests can force the
// collision-retry path.
func (r *MemoryActivationRepository) ReserveDisplayToken(token string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.displayTokens[token] = true
}

type MemoryOrderRepository struct {
	mtx    sync.Mutex
	orders map[string]*models.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{orders: make(map[string]*models.Order)}
}

func (r *MemoryOrderRepository) Upsert(ctx context.Context, order *models.Order) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *MemoryOrderRepository) Get(id string) *models.Order {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.orders[id]
}

func (r *MemoryOrderRepository) Count() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return len(r.orders)
}
