package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/V4T54L/logviewer/internal/adapter/api/middleware"
	"github.com/V4T54L/logviewer/internal/domain"
)

// MockFolderService is a mock implementation of FolderService.
type MockFolderService struct {
	Folders   []domain.LogFolder
	Files     map[string][]domain.LogFileInfo
	StoreErr  error
	AddErr    error
	AddCalled bool
}

func (m *MockFolderService) ListFolders(ctx context.Context) ([]domain.LogFolder, error) {
	return m.Folders, m.StoreErr
}

func (m *MockFolderService) AddFolder(ctx context.Context, folder domain.LogFolder) (bool, error) {
	m.AddCalled = true
	if m.AddErr != nil {
		return false, m.AddErr
	}
	for _, f := range m.Folders {
		if f.Name == folder.Name {
			return false, nil
		}
	}
	m.Folders = append(m.Folders, folder)
	return true, nil
}

func (m *MockFolderService) RemoveFolder(ctx context.Context, name string) (int, error) {
	if m.StoreErr != nil {
		return 0, m.StoreErr
	}
	kept := m.Folders[:0]
	removed := 0
	for _, f := range m.Folders {
		if f.Name == name {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	m.Folders = kept
	return removed, nil
}

func (m *MockFolderService) ListFiles(ctx context.Context, folder string) ([]domain.LogFileInfo, error) {
	files, ok := m.Files[folder]
	if !ok {
		return nil, domain.ErrFolderNotFound
	}
	return files, nil
}

func newFolderRouter(svc *MockFolderService) http.Handler {
	h := NewFolderHandler(svc, discardLogger)
	r := chi.NewRouter()
	r.Get("/api/folders", h.ListFolders)
	r.Post("/api/folders", h.AddFolder)
	r.Delete("/api/folders/{name}", h.RemoveFolder)
	r.Get("/api/folders/{name}/files", h.ListFiles)
	return r
}

func TestFolderHandler(t *testing.T) {
	mod := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	svc := &MockFolderService{
		Folders: []domain.LogFolder{{Name: "app", Path: "/var/log/app"}},
		Files: map[string][]domain.LogFileInfo{
			"app": {{FileName: "today.log", ModificationDate: mod, FileSizeBytes: 42}},
		},
	}
	r := newFolderRouter(svc)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{"List folders", http.MethodGet, "/api/folders", "", http.StatusOK, `"name":"app"`},
		{"Add folder", http.MethodPost, "/api/folders", `{"name":"web","path":"/var/log/web"}`, http.StatusCreated, `"added":true`},
		{"Add duplicate", http.MethodPost, "/api/folders", `{"name":"app","path":"/elsewhere"}`, http.StatusOK, `"added":false`},
		{"Add bad JSON", http.MethodPost, "/api/folders", `{"name":`, http.StatusBadRequest, `"error"`},
		{"List files", http.MethodGet, "/api/folders/app/files", "", http.StatusOK, `"fileName":"today.log"`},
		{"List files unknown folder", http.MethodGet, "/api/folders/nope/files", "", http.StatusNotFound, `folder not found`},
		{"Remove folder", http.MethodDelete, "/api/folders/web", "", http.StatusNoContent, ""},
		{"Remove missing folder", http.MethodDelete, "/api/folders/web", "", http.StatusNotFound, `folder not found`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			if rr.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (%s)", tt.expectedStatus, rr.Code, rr.Body.String())
			}
			if tt.expectedBody != "" && !strings.Contains(rr.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, rr.Body.String())
			}
		})
	}
}

func TestFolderHandler_Errors(t *testing.T) {
	t.Run("Invalid folder", func(t *testing.T) {
		svc := &MockFolderService{AddErr: domain.ErrInvalidFolder}
		rr := httptest.NewRecorder()
		newFolderRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/folders", strings.NewReader(`{"name":""}`)))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rr.Code)
		}
	})

	t.Run("Store unavailable", func(t *testing.T) {
		svc := &MockFolderService{StoreErr: errors.Join(domain.ErrStoreUnavailable, errors.New("dial tcp: refused"))}
		rr := httptest.NewRecorder()
		newFolderRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/folders", nil))
		if rr.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", rr.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil || body["error"] == "" {
			t.Errorf("expected JSON error body, got %q", rr.Body.String())
		}
	})

	t.Run("Store failure", func(t *testing.T) {
		svc := &MockFolderService{StoreErr: errors.New("disk on fire")}
		rr := httptest.NewRecorder()
		newFolderRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/folders/app", nil))
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rr.Code)
		}
	})
}

type fixedUser struct{}

func (fixedUser) Validate(token string) (string, error) { return "alice", nil }

func TestFolderHandler_LogsActingUser(t *testing.T) {
	var logs bytes.Buffer
	h := NewFolderHandler(&MockFolderService{}, slog.New(slog.NewTextHandler(&logs, nil)))

	r := chi.NewRouter()
	r.Use(middleware.Auth(fixedUser{}, discardLogger))
	r.Post("/api/folders", h.AddFolder)

	req := httptest.NewRequest(http.MethodPost, "/api/folders", strings.NewReader(`{"name":"web","path":"/var/log/web"}`))
	req.Header.Set("Authorization", "Bearer any")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if !strings.Contains(logs.String(), "user=alice") {
		t.Errorf("expected acting user in log, got %q", logs.String())
	}
}
