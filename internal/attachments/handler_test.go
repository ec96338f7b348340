package attachments_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/givehub/givehub/internal/attachments"
	"github.com/givehub/givehub/internal/identity"
)

type mockSystem struct {
	uploadFn func(ctx context.Context, applicationID uuid.UUID, uploads []attachments.Upload, actor identity.Actor) ([]attachments.File, error)
	fetchFn  func(ctx context.Context, id uuid.UUID, actor identity.Actor) (*attachments.Handle, error)
	deleteFn func(ctx context.Context, id uuid.UUID, actor identity.Actor) error
	maxBody  int64
}

func (m *mockSystem) Handler() *attachments.Handler {
	maxBody := m.maxBody
	if maxBody == 0 {
		maxBody = 64 << 20
	}
	return attachments.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)), maxBody)
}

func (m *mockSystem) Sweeper(interval time.Duration) *attachments.Sweeper {
	return nil
}

func (m *mockSystem) Upload(ctx context.Context, applicationID uuid.UUID, uploads []attachments.Upload, actor identity.Actor) ([]attachments.File, error) {
	return m.uploadFn(ctx, applicationID, uploads, actor)
}

func (m *mockSystem) Fetch(ctx context.Context, id uuid.UUID, actor identity.Actor) (*attachments.Handle, error) {
	return m.fetchFn(ctx, id, actor)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID, actor identity.Actor) error {
	return m.deleteFn(ctx, id, actor)
}

func setupMux(sys *mockSystem) *http.ServeMux {
	mux := http.NewServeMux()
	group := sys.Handler().Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

var testOrganizerID = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

func organizerActor() identity.Actor {
	id := testOrganizerID
	return identity.Actor{
		Person: identity.Person{
			ID:          uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
			SubjectID:   "organizer-subject",
			Email:       "organizer@example.com",
			OrganizerID: &id,
		},
	}
}

func authRequest(method, target string, body io.Reader, actor identity.Actor) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(identity.WithActor(req.Context(), actor))
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, content := range files {
		part, err := writer.CreateFormFile("file", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestCacheControl(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		expected    string
	}{
		{"png image", "image/png", "public, s-maxage=15552000, stale-while-revalidate=15552000, immutable"},
		{"jpeg image", "image/jpeg", "public, s-maxage=15552000, stale-while-revalidate=15552000, immutable"},
		{"webp image", "image/webp", "public, s-maxage=15552000, stale-while-revalidate=15552000, immutable"},
		{"pdf document", "application/pdf", "no-store"},
		{"word document", "application/msword", "no-store"},
		{"empty", "", "no-store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := attachments.CacheControl(tt.contentType); got != tt.expected {
				t.Errorf("cache control = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestHandlerUpload(t *testing.T) {
	applicationID := uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")

	t.Run("uploads multipart batch", func(t *testing.T) {
		var captured []attachments.Upload
		sys := &mockSystem{
			uploadFn: func(_ context.Context, appID uuid.UUID, uploads []attachments.Upload, _ identity.Actor) ([]attachments.File, error) {
				if appID != applicationID {
					t.Errorf("application id = %v, want %v", appID, applicationID)
				}
				captured = uploads

				files := make([]attachments.File, len(uploads))
				for i, u := range uploads {
					files[i] = attachments.File{
						ID:            uuid.New(),
						ApplicationID: appID,
						Filename:      u.Filename,
						SizeBytes:     u.SizeBytes,
					}
				}
				return files, nil
			},
		}
		mux := setupMux(sys)

		body, contentType := multipartBody(t, map[string]string{
			"budget.pdf": "pdf bytes",
			"photo.png":  "png bytes",
		})

		rec := httptest.NewRecorder()
		req := authRequest("POST", fmt.Sprintf("/campaign-application/uploadFile/%s", applicationID), body, organizerActor())
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
		if len(captured) != 2 {
			t.Fatalf("uploads = %d, want 2", len(captured))
		}

		names := map[string]bool{}
		for _, u := range captured {
			names[u.Filename] = true

			reader, err := u.Open()
			if err != nil {
				t.Fatalf("open upload: %v", err)
			}
			content, err := io.ReadAll(reader)
			reader.Close()
			if err != nil {
				t.Fatalf("read upload: %v", err)
			}
			if int64(len(content)) != u.SizeBytes {
				t.Errorf("size = %d, want %d", u.SizeBytes, len(content))
			}
		}
		if !names["budget.pdf"] || !names["photo.png"] {
			t.Errorf("filenames = %v, want budget.pdf and photo.png", names)
		}

		var result []attachments.File
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(result) != 2 {
			t.Errorf("result length = %d, want 2", len(result))
		}
	})

	t.Run("empty batch is rejected", func(t *testing.T) {
		sys := &mockSystem{
			uploadFn: func(_ context.Context, _ uuid.UUID, _ []attachments.Upload, _ identity.Actor) ([]attachments.File, error) {
				t.Fatal("upload called for empty batch")
				return nil, nil
			},
		}
		mux := setupMux(sys)

		body, contentType := multipartBody(t, nil)

		rec := httptest.NewRecorder()
		req := authRequest("POST", fmt.Sprintf("/campaign-application/uploadFile/%s", applicationID), body, organizerActor())
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("invalid application id is not found", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(sys)

		body, contentType := multipartBody(t, map[string]string{"budget.pdf": "pdf bytes"})

		rec := httptest.NewRecorder()
		req := authRequest("POST", "/campaign-application/uploadFile/not-a-uuid", body, organizerActor())
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("oversized request body is cut off before parsing", func(t *testing.T) {
		sys := &mockSystem{
			maxBody: 512,
			uploadFn: func(_ context.Context, _ uuid.UUID, _ []attachments.Upload, _ identity.Actor) ([]attachments.File, error) {
				t.Fatal("upload called for oversized body")
				return nil, nil
			},
		}
		mux := setupMux(sys)

		body, contentType := multipartBody(t, map[string]string{
			"huge.pdf": strings.Repeat("x", 4096),
		})

		rec := httptest.NewRecorder()
		req := authRequest("POST", fmt.Sprintf("/campaign-application/uploadFile/%s", applicationID), body, organizerActor())
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("status = %d, want 413", rec.Code)
		}
	})

	t.Run("oversized file maps to payload too large", func(t *testing.T) {
		sys := &mockSystem{
			uploadFn: func(_ context.Context, _ uuid.UUID, _ []attachments.Upload, _ identity.Actor) ([]attachments.File, error) {
				return nil, attachments.ErrFileTooLarge
			},
		}
		mux := setupMux(sys)

		body, contentType := multipartBody(t, map[string]string{"huge.pdf": "pdf bytes"})

		rec := httptest.NewRecorder()
		req := authRequest("POST", fmt.Sprintf("/campaign-application/uploadFile/%s", applicationID), body, organizerActor())
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("status = %d, want 413", rec.Code)
		}
	})
}

func TestHandlerFetch(t *testing.T) {
	fileID := uuid.MustParse("8d0f7780-8536-51ef-a55c-f18fd2a01bf8")

	t.Run("streams file with download headers", func(t *testing.T) {
		sys := &mockSystem{
			fetchFn: func(_ context.Context, id uuid.UUID, _ identity.Actor) (*attachments.Handle, error) {
				if id != fileID {
					return nil, attachments.ErrNotFound
				}
				return &attachments.Handle{
					Filename:    "report.pdf",
					ContentType: "application/pdf",
					SizeBytes:   9,
					Body:        io.NopCloser(strings.NewReader("pdf bytes")),
				}, nil
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := authRequest("GET", fmt.Sprintf("/campaign-application/fileById/%s", fileID), nil, organizerActor())
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
			t.Errorf("content type = %q, want application/pdf", got)
		}
		if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="report.pdf"` {
			t.Errorf("content disposition = %q", got)
		}
		if got := rec.Header().Get("Cache-Control"); got != "no-store" {
			t.Errorf("cache control = %q, want no-store", got)
		}
		if got := rec.Header().Get("Content-Length"); got != "9" {
			t.Errorf("content length = %q, want 9", got)
		}
		if rec.Body.String() != "pdf bytes" {
			t.Errorf("body = %q, want pdf bytes", rec.Body.String())
		}
	})

	t.Run("image gets long-lived cache policy", func(t *testing.T) {
		sys := &mockSystem{
			fetchFn: func(_ context.Context, _ uuid.UUID, _ identity.Actor) (*attachments.Handle, error) {
				return &attachments.Handle{
					Filename:    "logo.png",
					ContentType: "image/png",
					SizeBytes:   9,
					Body:        io.NopCloser(strings.NewReader("png bytes")),
				}, nil
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := authRequest("GET", fmt.Sprintf("/campaign-application/fileById/%s", fileID), nil, organizerActor())
		mux.ServeHTTP(rec, req)

		expected := "public, s-maxage=15552000, stale-while-revalidate=15552000, immutable"
		if got := rec.Header().Get("Cache-Control"); got != expected {
			t.Errorf("cache control = %q, want %q", got, expected)
		}
	})

	t.Run("unowned file is not found", func(t *testing.T) {
		sys := &mockSystem{
			fetchFn: func(_ context.Context, _ uuid.UUID, _ identity.Actor) (*attachments.Handle, error) {
				return nil, attachments.ErrNotFound
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := authRequest("GET", fmt.Sprintf("/campaign-application/fileById/%s", fileID), nil, organizerActor())
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerDelete(t *testing.T) {
	fileID := uuid.MustParse("8d0f7780-8536-51ef-a55c-f18fd2a01bf8")

	t.Run("deletes file", func(t *testing.T) {
		deleted := false
		sys := &mockSystem{
			deleteFn: func(_ context.Context, id uuid.UUID, _ identity.Actor) error {
				if id != fileID {
					return attachments.ErrNotFound
				}
				deleted = true
				return nil
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := authRequest("DELETE", fmt.Sprintf("/campaign-application/fileById/%s", fileID), nil, organizerActor())
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		if !deleted {
			t.Error("delete never reached the system")
		}
	})

	t.Run("second delete is not found", func(t *testing.T) {
		sys := &mockSystem{
			deleteFn: func(_ context.Context, _ uuid.UUID, _ identity.Actor) error {
				return attachments.ErrNotFound
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := authRequest("DELETE", fmt.Sprintf("/campaign-application/fileById/%s", fileID), nil, organizerActor())
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("missing actor is unauthorized", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", fmt.Sprintf("/campaign-application/fileById/%s", fileID), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}
