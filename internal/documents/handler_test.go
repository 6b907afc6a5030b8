package documents_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/beacon/internal/documents"
	"github.com/JaimeStill/beacon/pkg/pagination"
)

type mockSystem struct {
	listFn   func(ctx context.Context, page pagination.PageRequest, filters documents.Filters) (*pagination.PageResult[documents.Document], error)
	takeFn   func(ctx context.Context, limit int) ([]documents.Document, error)
	findFn   func(ctx context.Context, id uuid.UUID) (*documents.Document, error)
	createFn func(ctx context.Context, cmd documents.CreateCommand) (*documents.Document, error)
	importFn func(ctx context.Context, cmd documents.ImportCommand) ([]documents.BatchResult, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockSystem) Handler(maxUploadSize int64) *documents.Handler {
	return documents.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}, maxUploadSize)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters documents.Filters) (*pagination.PageResult[documents.Document], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Take(ctx context.Context, limit int) ([]documents.Document, error) {
	return m.takeFn(ctx, limit)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*documents.Document, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd documents.CreateCommand) (*documents.Document, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Import(ctx context.Context, cmd documents.ImportCommand) ([]documents.BatchResult, error) {
	return m.importFn(ctx, cmd)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func setupMux(sys *mockSystem) *http.ServeMux {
	h := sys.Handler(1 << 20)
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

const sampleID = "550e8400-e29b-41d4-a716-446655440000"

func sampleDoc() documents.Document {
	stamp := time.Date(2025, 11, 3, 8, 30, 0, 0, time.UTC)
	return documents.Document{
		ID:          uuid.MustParse(sampleID),
		Filename:    "ar-men.txt",
		LocalPath:   "/data/ocr/ar-men.txt",
		ContentType: "text/plain",
		SizeBytes:   512,
		StorageKey:  "documents/" + sampleID + "/ar-men.txt",
		OCRText:     ptr("FICHE SIGNALISATION\nESM N° 1234567"),
		CreatedAt:   stamp,
		ModifiedAt:  stamp,
		AddedAt:     stamp.Add(time.Hour),
	}
}

func createMultipartForm(t *testing.T, filename string, data []byte, contentType, localPath string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if filename != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		header.Set("Content-Type", contentType)
		part, err := w.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write(data)
	}

	if localPath != "" {
		w.WriteField("local_path", localPath)
	}

	w.Close()
	return &buf, w.FormDataContentType()
}

func TestHandlerList(t *testing.T) {
	var gotPage pagination.PageRequest
	var gotFilters documents.Filters

	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, filters documents.Filters) (*pagination.PageResult[documents.Document], error) {
			gotPage, gotFilters = page, filters
			result := pagination.NewPageResult([]documents.Document{sampleDoc()}, 1, page.Page, page.PageSize)
			return &result, nil
		},
	}

	req := httptest.NewRequest("GET", "/documents?page=2&page_size=10&content_type=text/plain", nil)
	rec := httptest.NewRecorder()
	setupMux(sys).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotPage.Page != 2 || gotPage.PageSize != 10 {
		t.Errorf("page = %+v, want page 2 size 10", gotPage)
	}
	if gotFilters.ContentType == nil || *gotFilters.ContentType != "text/plain" {
		t.Errorf("content_type filter = %v, want text/plain", gotFilters.ContentType)
	}

	var result pagination.PageResult[documents.Document]
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Data) != 1 || result.Data[0].Filename != "ar-men.txt" {
		t.Errorf("data = %+v", result.Data)
	}
}

func TestHandlerFind(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"ok", "/documents/" + sampleID, nil, http.StatusOK},
		{"invalid uuid", "/documents/not-a-uuid", nil, http.StatusBadRequest},
		{"not found", "/documents/" + sampleID, documents.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockSystem{
				findFn: func(_ context.Context, id uuid.UUID) (*documents.Document, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					d := sampleDoc()
					return &d, nil
				},
			}

			rec := httptest.NewRecorder()
			setupMux(sys).ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestHandlerSearch(t *testing.T) {
	t.Run("normalizes pagination", func(t *testing.T) {
		var gotPage pagination.PageRequest
		var gotFilters documents.Filters

		sys := &mockSystem{
			listFn: func(_ context.Context, page pagination.PageRequest, filters documents.Filters) (*pagination.PageResult[documents.Document], error) {
				gotPage, gotFilters = page, filters
				result := pagination.NewPageResult([]documents.Document{}, 0, page.Page, page.PageSize)
				return &result, nil
			},
		}

		body := strings.NewReader(`{"page":0,"page_size":500,"filename":"men"}`)
		rec := httptest.NewRecorder()
		setupMux(sys).ServeHTTP(rec, httptest.NewRequest("POST", "/documents/search", body))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if gotPage.Page != 1 || gotPage.PageSize != 100 {
			t.Errorf("page = %+v, want page 1 size 100", gotPage)
		}
		if gotFilters.Filename == nil || *gotFilters.Filename != "men" {
			t.Errorf("filename filter = %v, want men", gotFilters.Filename)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		setupMux(&mockSystem{}).ServeHTTP(rec, httptest.NewRequest("POST", "/documents/search", strings.NewReader("{")))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestHandlerUpload(t *testing.T) {
	t.Run("creates document", func(t *testing.T) {
		var got documents.CreateCommand
		sys := &mockSystem{
			createFn: func(_ context.Context, cmd documents.CreateCommand) (*documents.Document, error) {
				got = cmd
				d := sampleDoc()
				return &d, nil
			},
		}

		body, ct := createMultipartForm(t, "ar-men.txt", []byte("ESM N° 1234567"), "text/plain", "/data/ocr/ar-men.txt")
		req := httptest.NewRequest("POST", "/documents", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		setupMux(sys).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		if got.Filename != "ar-men.txt" {
			t.Errorf("filename = %q", got.Filename)
		}
		if got.LocalPath != "/data/ocr/ar-men.txt" {
			t.Errorf("local_path = %q", got.LocalPath)
		}
		if got.ContentType != "text/plain" {
			t.Errorf("content type = %q", got.ContentType)
		}
		if string(got.Data) != "ESM N° 1234567" {
			t.Errorf("data = %q", got.Data)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		body, ct := createMultipartForm(t, "", nil, "", "/data/ocr/ar-men.txt")
		req := httptest.NewRequest("POST", "/documents", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		setupMux(&mockSystem{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("create error maps status", func(t *testing.T) {
		sys := &mockSystem{
			createFn: func(context.Context, documents.CreateCommand) (*documents.Document, error) {
				return nil, documents.ErrDuplicate
			},
		}

		body, ct := createMultipartForm(t, "ar-men.txt", []byte("texte"), "text/plain", "")
		req := httptest.NewRequest("POST", "/documents", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		setupMux(sys).ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
		}
	})
}

func TestHandlerImport(t *testing.T) {
	t.Run("returns batch results", func(t *testing.T) {
		var got documents.ImportCommand
		sys := &mockSystem{
			importFn: func(_ context.Context, cmd documents.ImportCommand) ([]documents.BatchResult, error) {
				got = cmd
				d := sampleDoc()
				return []documents.BatchResult{
					{Document: &d, Filename: "ar-men.txt"},
					{Filename: "vide.txt", Error: "invalid file"},
				}, nil
			},
		}

		body := strings.NewReader(`{"dir":"/data/ocr","pattern":"*.txt"}`)
		rec := httptest.NewRecorder()
		setupMux(sys).ServeHTTP(rec, httptest.NewRequest("POST", "/documents/import", body))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if got.Dir != "/data/ocr" || got.Pattern != "*.txt" {
			t.Errorf("command = %+v", got)
		}

		var results []documents.BatchResult
		if err := json.NewDecoder(rec.Body).Decode(&results); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(results) != 2 || results[1].Error == "" {
			t.Errorf("results = %+v", results)
		}
	})

	t.Run("empty dir", func(t *testing.T) {
		rec := httptest.NewRecorder()
		setupMux(&mockSystem{}).ServeHTTP(rec, httptest.NewRequest("POST", "/documents/import", strings.NewReader(`{}`)))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("invalid dir", func(t *testing.T) {
		sys := &mockSystem{
			importFn: func(context.Context, documents.ImportCommand) ([]documents.BatchResult, error) {
				return nil, documents.ErrInvalidDir
			},
		}

		rec := httptest.NewRecorder()
		setupMux(sys).ServeHTTP(rec, httptest.NewRequest("POST", "/documents/import", strings.NewReader(`{"dir":"/absent"}`)))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestHandlerDelete(t *testing.T) {
	var got uuid.UUID
	sys := &mockSystem{
		deleteFn: func(_ context.Context, id uuid.UUID) error {
			got = id
			return nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(sys).ServeHTTP(rec, httptest.NewRequest("DELETE", "/documents/"+sampleID, nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got.String() != sampleID {
		t.Errorf("deleted id = %s, want %s", got, sampleID)
	}
}
