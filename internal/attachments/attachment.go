// Package attachments implements the file attachment domain for campaign
// applications. It provides types, validation, data access, and business
// logic for batch upload to blob storage, authorized streamed download,
// and fail-closed compound deletion.
package attachments

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// File represents one uploaded attachment. The owning application never
// changes after creation. StorageKey addresses the blob and is distinct
// from the file's public id.
type File struct {
	ID            uuid.UUID `json:"id"`
	ApplicationID uuid.UUID `json:"application_id"`
	StorageKey    string    `json:"storage_key"`
	Filename      string    `json:"filename"`
	ContentType   string    `json:"content_type"`
	SizeBytes     int64     `json:"size_bytes"`
	PageCount     *int      `json:"page_count,omitempty"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// Upload is one incoming file in a batch. Open returns a fresh reader over
// the file bytes; the system seeks it as needed and closes it.
type Upload struct {
	Filename    string
	ContentType string
	SizeBytes   int64
	Open        func() (io.ReadSeekCloser, error)
}

// Handle is a live read handle for a stored file. The caller must close Body.
type Handle struct {
	Filename    string
	ContentType string
	SizeBytes   int64
	Body        io.ReadCloser
}
