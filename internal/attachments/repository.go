package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"

	"github.com/givehub/givehub/internal/identity"
	"github.com/givehub/givehub/pkg/repository"
	"github.com/givehub/givehub/pkg/storage"
)

// keyPrefix scopes every attachment blob; the sweeper only reconciles
// keys under it.
const keyPrefix = "applications/"

type repo struct {
	db          *sql.DB
	storage     storage.System
	validator   *Validator
	logger      *slog.Logger
	maxFiles    int
	maxFileSize int64
	maxListSize int32
}

// New creates an attachment repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	cfg *Config,
	maxListSize int32,
	logger *slog.Logger,
) System {
	return &repo{
		db:          db,
		storage:     store,
		validator:   NewValidator(cfg),
		logger:      logger.With("system", "attachments"),
		maxFiles:    cfg.MaxFiles,
		maxFileSize: cfg.MaxFileSizeBytes(),
		maxListSize: maxListSize,
	}
}

func (r *repo) Handler() *Handler {
	maxBody := int64(r.maxFiles)*r.maxFileSize + multipartOverhead
	return NewHandler(r, r.logger, maxBody)
}

func (r *repo) Sweeper(interval time.Duration) *Sweeper {
	return newSweeper(r, interval)
}

func (r *repo) Upload(ctx context.Context, applicationID uuid.UUID, uploads []Upload, actor identity.Actor) ([]File, error) {
	if len(uploads) == 0 {
		return nil, ErrInvalidInput
	}
	if len(uploads) > r.maxFiles {
		return nil, fmt.Errorf("%w: %d exceeds limit of %d", ErrTooManyFiles, len(uploads), r.maxFiles)
	}

	// The whole batch must pass validation before any byte is stored.
	for _, u := range uploads {
		if err := r.validator.Validate(u.ContentType, u.Filename); err != nil {
			return nil, err
		}
		if u.SizeBytes > r.maxFileSize {
			return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, u.Filename)
		}
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, applicationExistsQuery, applicationID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check application %s: %w", applicationID, err)
	}
	if !exists {
		return nil, ErrApplicationNotFound
	}

	files := make([]File, len(uploads))
	var (
		mu        sync.Mutex
		committed []File
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, u := range uploads {
		g.Go(func() error {
			f, err := r.storeOne(gctx, applicationID, u)
			if err != nil {
				return err
			}

			mu.Lock()
			committed = append(committed, *f)
			mu.Unlock()

			files[i] = *f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		r.rollback(context.WithoutCancel(ctx), committed)
		return nil, err
	}

	r.logger.Info("files uploaded", "application_id", applicationID, "count", len(files))
	return files, nil
}

// storeOne streams one upload to blob storage and records its metadata.
// The metadata row is inserted only after the byte write confirms; an
// insert failure triggers a compensating blob delete.
func (r *repo) storeOne(ctx context.Context, applicationID uuid.UUID, u Upload) (*File, error) {
	id := uuid.New()
	key := buildStorageKey(applicationID, id)

	reader, err := u.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", u.Filename, err)
	}
	defer reader.Close()

	pageCount := extractPDFPageCount(r.logger, reader, u.ContentType)

	if err := r.storage.Upload(ctx, key, reader, u.ContentType); err != nil {
		return nil, fmt.Errorf("store file %s: %w", u.Filename, err)
	}

	args := []any{id, applicationID, key, u.Filename, u.ContentType, u.SizeBytes, pageCount}

	f, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (File, error) {
		return repository.QueryOne(ctx, tx, insertFileQuery, args, scanFile)
	})

	if err != nil {
		if delErr := r.storage.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrApplicationNotFound, ErrDuplicate)
	}

	return &f, nil
}

// rollback removes files whose blob and metadata both committed before a
// sibling in the batch failed. Anything it misses is picked up by the
// reconciliation sweeper.
func (r *repo) rollback(ctx context.Context, committed []File) {
	for _, f := range committed {
		if err := repository.ExecExpectOne(
			ctx, r.db,
			"DELETE FROM campaign_application_files WHERE id = $1",
			f.ID,
		); err != nil {
			r.logger.Warn("batch rollback metadata delete failed", "id", f.ID, "error", err)
			continue
		}

		if err := r.storage.Delete(ctx, f.StorageKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("batch rollback blob delete failed", "key", f.StorageKey, "error", err)
		}
	}
}

func (r *repo) Fetch(ctx context.Context, id uuid.UUID, actor identity.Actor) (*Handle, error) {
	f, err := r.findOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	body, err := r.storage.Download(ctx, f.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", f.ID, err)
	}

	return &Handle{
		Filename:    f.Filename,
		ContentType: f.ContentType,
		SizeBytes:   f.SizeBytes,
		Body:        body,
	}, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID, actor identity.Actor) error {
	f, err := r.findOwned(ctx, id, actor)
	if err != nil {
		return err
	}

	// The blob delete participates in the metadata transaction: a storage
	// failure rolls the row back, so the operation stays retryable. A blob
	// already absent counts as deleted.
	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM campaign_application_files WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}

		if err := r.storage.Delete(ctx, f.StorageKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("file deleted", "id", id, "application_id", f.ApplicationID)
	return nil
}

func (r *repo) findOwned(ctx context.Context, id uuid.UUID, actor identity.Actor) (*ownedFile, error) {
	f, err := repository.QueryOne(ctx, r.db, ownedFileQuery, []any{id}, scanOwnedFile)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if !actor.Owns(f.OrganizerID) {
		return nil, ErrNotFound
	}
	return &f, nil
}

func buildStorageKey(applicationID, fileID uuid.UUID) string {
	return fmt.Sprintf("%s%s/%s", keyPrefix, applicationID, fileID)
}

func extractPDFPageCount(logger *slog.Logger, reader io.ReadSeeker, contentType string) *int {
	if contentType != "application/pdf" {
		return nil
	}

	count, err := api.PageCount(reader, nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
	}

	if _, seekErr := reader.Seek(0, io.SeekStart); seekErr != nil {
		logger.Warn("failed to rewind PDF reader", "error", seekErr)
		return nil
	}

	if err != nil {
		return nil
	}
	return &count
}
