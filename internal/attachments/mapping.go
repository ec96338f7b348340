package attachments

import (
	"github.com/google/uuid"

	"github.com/givehub/givehub/pkg/repository"
)

const fileColumns = `f.id, f.application_id, f.storage_key, f.filename, f.content_type, f.size_bytes, f.page_count, f.uploaded_at`

// ownedFile pairs a file with its application's owning organizer, so a
// single query answers both lookup and authorization.
type ownedFile struct {
	File
	OrganizerID uuid.UUID
}

const ownedFileQuery = `
	SELECT ` + fileColumns + `, ca.organizer_id
	FROM campaign_application_files f
	JOIN campaign_applications ca ON ca.id = f.application_id
	WHERE f.id = $1`

const insertFileQuery = `
	INSERT INTO campaign_application_files(id, application_id, storage_key, filename, content_type, size_bytes, page_count)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, application_id, storage_key, filename, content_type, size_bytes, page_count, uploaded_at`

const applicationExistsQuery = `SELECT EXISTS(SELECT 1 FROM campaign_applications WHERE id = $1)`

const storageKeyExistsQuery = `SELECT EXISTS(SELECT 1 FROM campaign_application_files WHERE storage_key = $1)`

func scanFile(s repository.Scanner) (File, error) {
	var f File
	err := s.Scan(
		&f.ID,
		&f.ApplicationID,
		&f.StorageKey,
		&f.Filename,
		&f.ContentType,
		&f.SizeBytes,
		&f.PageCount,
		&f.UploadedAt,
	)
	return f, err
}

func scanOwnedFile(s repository.Scanner) (ownedFile, error) {
	var f ownedFile
	err := s.Scan(
		&f.ID,
		&f.ApplicationID,
		&f.StorageKey,
		&f.Filename,
		&f.ContentType,
		&f.SizeBytes,
		&f.PageCount,
		&f.UploadedAt,
		&f.OrganizerID,
	)
	return f, err
}
