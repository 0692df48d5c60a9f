package habits

import (
	"context"

	"github.com/julianstephens/trackmy/internal/models"
	"github.com/julianstephens/trackmy/internal/snapshot"
)

// Export builds a snapshot of the store stamped with the service clock.
func (s *Service) Export(ctx context.Context) (models.Snapshot, error) {
	return snapshot.Export(ctx, s.store, s.now())
}

// Import writes doc into the store and rebuilds the cache.
func (s *Service) Import(ctx context.Context, doc models.Snapshot) error {
	if err := snapshot.Import(ctx, s.store, doc); err != nil {
		return err
	}
	return s.Reload(ctx)
}

// ClearAll empties the store and rebuilds the cache.
func (s *Service) ClearAll(ctx context.Context) error {
	if err := snapshot.ClearAll(ctx, s.store); err != nil {
		return err
	}
	return s.Reload(ctx)
}
