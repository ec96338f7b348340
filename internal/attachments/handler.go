package attachments

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/givehub/givehub/internal/identity"
	"github.com/givehub/givehub/pkg/handlers"
	"github.com/givehub/givehub/pkg/routes"
)

// multipartMemoryLimit is the in-memory threshold for parsing multipart
// bodies; larger parts spool to disk so whole files never buffer in memory.
const multipartMemoryLimit = 8 << 20

// multipartOverhead is the headroom allowed beyond the file limits for
// multipart boundaries and part headers when bounding the request body.
const multipartOverhead = 1 << 20

const (
	// cacheImmutable applies to image attachments, which are treated as
	// content-addressed assets that never change under a given id.
	cacheImmutable = "public, s-maxage=15552000, stale-while-revalidate=15552000, immutable"
	// cacheNone applies to every other type; documents may be revised.
	cacheNone = "no-store"
)

// CacheControl returns the cache policy header value for a stored content type.
func CacheControl(contentType string) string {
	if strings.HasPrefix(contentType, "image/") {
		return cacheImmutable
	}
	return cacheNone
}

// Handler provides HTTP endpoints for attachment operations.
// All routes assume the identity middleware has injected an Actor.
type Handler struct {
	sys     System
	logger  *slog.Logger
	maxBody int64
}

// NewHandler creates a Handler with the given system and logger. Upload
// request bodies are rejected once they exceed maxBody bytes, before any
// part spools to disk.
func NewHandler(sys System, logger *slog.Logger, maxBody int64) *Handler {
	return &Handler{
		sys:     sys,
		logger:  logger.With("handler", "attachments"),
		maxBody: maxBody,
	}
}

// Routes returns the route group definition for attachment endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/campaign-application",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/uploadFile/{id}", Handler: h.Upload},
			{Method: "GET", Pattern: "/fileById/{id}", Handler: h.Fetch},
			{Method: "DELETE", Pattern: "/fileById/{id}", Handler: h.Delete},
		},
	}
}

// Upload processes a multipart form upload of one or more files against an
// application.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	applicationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrApplicationNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}
	defer r.MultipartForm.RemoveAll()

	uploads := uploadsFromForm(r.MultipartForm)
	if len(uploads) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	files, err := h.sys.Upload(r.Context(), applicationID, uploads, actor)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, files)
}

// Fetch streams a stored file back to the caller with download headers and
// the content-type-driven cache policy.
func (h *Handler) Fetch(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotFound)
		return
	}

	handle, err := h.sys.Fetch(r.Context(), id, actor)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer handle.Body.Close()

	w.Header().Set("Content-Type", handle.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", handle.Filename))
	w.Header().Set("Cache-Control", CacheControl(handle.ContentType))

	if handle.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(handle.SizeBytes, 10))
	}

	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, handle.Body); err != nil {
		h.logger.Warn("file stream interrupted", "id", id, "error", err)
	}
}

// Delete removes a file and its stored bytes.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotFound)
		return
	}

	if err := h.sys.Delete(r.Context(), id, actor); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func uploadsFromForm(form *multipart.Form) []Upload {
	headers := form.File["file"]
	uploads := make([]Upload, 0, len(headers))

	for _, fh := range headers {
		uploads = append(uploads, Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			SizeBytes:   fh.Size,
			Open: func() (io.ReadSeekCloser, error) {
				return fh.Open()
			},
		})
	}

	return uploads
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (identity.Actor, bool) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrNoToken)
		return identity.Actor{}, false
	}
	return actor, true
}
