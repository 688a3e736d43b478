package catalog

import (
	"context"
	"fmt"

	"github.com/airbusgeo/sentinel1-downloader/catalog/entities"
)

// ScenesProvider is the interface of a scene catalog search service
type ScenesProvider interface {
	// SearchScenes returns all the scenes of the collection intersecting the window.
	// The result is materialized eagerly, in the catalog response order.
	SearchScenes(ctx context.Context, window entities.SearchWindow) ([]*entities.Scene, error)
}

// ErrCatalogUnavailable is returned when the remote catalog cannot be reached
// or returns an unusable response. Terminal for the invocation, never retried here.
type ErrCatalogUnavailable struct {
	Catalog string
	Err     error
}

func (e ErrCatalogUnavailable) Error() string {
	return fmt.Sprintf("catalog unavailable (%s): %v", e.Catalog, e.Err)
}

func (e ErrCatalogUnavailable) Unwrap() error {
	return e.Err
}
