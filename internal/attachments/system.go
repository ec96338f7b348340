package attachments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/givehub/givehub/internal/identity"
)

// System defines the public contract for attachment operations.
type System interface {
	Handler() *Handler

	// Sweeper returns the reconciliation sweeper for orphaned blobs,
	// running at the given interval once started.
	Sweeper(interval time.Duration) *Sweeper

	// Upload validates the whole batch, then streams each file to blob
	// storage and records its metadata after the byte write confirms.
	// The first invalid file aborts the batch before any byte is stored.
	Upload(ctx context.Context, applicationID uuid.UUID, uploads []Upload, actor identity.Actor) ([]File, error)

	// Fetch returns a live read handle for one file. Admins see
	// everything; other actors only files of applications they own.
	// Absence and lack of ownership are both ErrNotFound.
	Fetch(ctx context.Context, id uuid.UUID, actor identity.Actor) (*Handle, error)

	// Delete removes the file's metadata row and blob as one logical
	// unit, same authorization rule as Fetch. A storage failure leaves
	// the metadata row in place so the delete can be retried.
	Delete(ctx context.Context, id uuid.UUID, actor identity.Actor) error
}
