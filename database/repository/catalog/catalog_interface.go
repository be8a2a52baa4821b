package catalogRepo

import (
	"context"

	"slotbook/models"
)

// CatalogRepository holds the bookable services.
type CatalogRepository interface {
	// ListActive returns active services in catalog order.
	ListActive(ctx context.Context) ([]models.Service, error)
	// EnsureSeed inserts the given services when the catalog is empty.
	EnsureSeed(ctx context.Context, services []models.Service) error
}
