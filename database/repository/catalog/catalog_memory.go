package catalogRepo

import (
	"context"
	"sync"

	"slotbook/models"
)

// MemoryCatalogRepo is the in-process catalog.
type MemoryCatalogRepo struct {
	mu       sync.RWMutex
	services []models.Service
}

func NewMemoryCatalogRepo(services ...models.Service) *MemoryCatalogRepo {
	return &MemoryCatalogRepo{services: append([]models.Service(nil), services...)}
}

func (r *MemoryCatalogRepo) ListActive(context.Context) ([]models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	active := []models.Service{}
	for _, s := range r.services {
		if s.Active {
			active = append(active, s)
		}
	}
	return active, nil
}

func (r *MemoryCatalogRepo) EnsureSeed(_ context.Context, services []models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.services) == 0 {
		r.services = append([]models.Service(nil), services...)
	}
	return nil
}
