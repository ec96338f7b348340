package attachments

import (
	"context"
	"errors"
	"time"

	"github.com/givehub/givehub/pkg/lifecycle"
	"github.com/givehub/givehub/pkg/storage"
)

// Sweeper reconciles blob storage with file metadata, deleting objects whose
// upload never produced a metadata row (interrupted requests, compensation
// failures). A key must be seen orphaned on two consecutive sweeps before it
// is removed, so uploads between the byte write and the metadata insert are
// never raced.
type Sweeper struct {
	repo     *repo
	interval time.Duration
	pending  map[string]struct{}
}

func newSweeper(r *repo, interval time.Duration) *Sweeper {
	return &Sweeper{
		repo:     r,
		interval: interval,
		pending:  make(map[string]struct{}),
	}
}

// Start registers the sweep loop on the lifecycle coordinator. The loop
// stops when the coordinator's context is cancelled.
func (s *Sweeper) Start(lc *lifecycle.Coordinator) error {
	s.repo.logger.Info("starting attachment sweeper", "interval", s.interval)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-lc.Context().Done():
				return
			case <-ticker.C:
				s.sweep(lc.Context())
			}
		}
	}()

	return nil
}

func (s *Sweeper) sweep(ctx context.Context) {
	logger := s.repo.logger.With("task", "sweep")
	seen := make(map[string]struct{})

	marker := ""
	for {
		result, err := s.repo.storage.List(ctx, keyPrefix, marker, s.repo.maxListSize)
		if err != nil {
			logger.Warn("blob listing failed", "error", err)
			return
		}

		for _, key := range result.Keys {
			orphaned, err := s.isOrphaned(ctx, key)
			if err != nil {
				logger.Warn("orphan check failed", "key", key, "error", err)
				continue
			}
			if !orphaned {
				continue
			}

			seen[key] = struct{}{}

			if _, confirmed := s.pending[key]; !confirmed {
				continue
			}

			// The listing can lag; only blobs still present get deleted
			// and reported.
			present, err := s.repo.storage.Exists(ctx, key)
			if err != nil {
				logger.Warn("orphan existence check failed", "key", key, "error", err)
				continue
			}
			if !present {
				delete(seen, key)
				continue
			}

			if err := s.repo.storage.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
				logger.Warn("orphan delete failed", "key", key, "error", err)
				continue
			}
			logger.Info("orphaned blob removed", "key", key)
			delete(seen, key)
		}

		if result.Marker == "" {
			break
		}
		marker = result.Marker
	}

	s.pending = seen
}

func (s *Sweeper) isOrphaned(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := s.repo.db.QueryRowContext(ctx, storageKeyExistsQuery, key).Scan(&exists)
	if err != nil {
		return false, err
	}
	return !exists, nil
}
