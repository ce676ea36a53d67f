package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/V4T54L/logviewer/internal/adapter/api/handler"
	"github.com/V4T54L/logviewer/internal/adapter/cache"
	"github.com/V4T54L/logviewer/internal/adapter/metrics"
	"github.com/V4T54L/logviewer/internal/adapter/repository/filesystem"
	"github.com/V4T54L/logviewer/internal/adapter/repository/jsonfile"
	"github.com/V4T54L/logviewer/internal/domain"
	"github.com/V4T54L/logviewer/internal/logquery"
	"github.com/V4T54L/logviewer/internal/pkg/config"
	"github.com/V4T54L/logviewer/internal/usecase"
)

const appLog = `[2024-01-15 08:00:00 INF] service started
[2024-01-15 09:15:00 WRN] disk usage at 85%
[2024-01-15 10:30:00 ERR] disk full on /var
not a log line
[2024-01-15 11:45:00 DEBUG] cache warmed
`

func newTestServer(t *testing.T, authDisabled bool) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	logDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(logDir, "app.log"), []byte(appLog), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		RateLimitRPS:    1000,
		RateLimitBurst:  1000,
		AuthDisabled:    authDisabled,
		MaxRequestBytes: 1 << 20,
	}
	m := metrics.New(prometheus.NewRegistry())

	files, err := filesystem.NewLogFileRepository(nil, logger)
	if err != nil {
		t.Fatal(err)
	}
	folderRepo := jsonfile.NewFolderRepository(filepath.Join(t.TempDir(), "folders.json"), logger)
	folderUC := usecase.NewFolderUseCase(folderRepo, files, logger)
	if err := folderUC.Seed(context.Background(), []domain.LogFolder{{Name: "app", Path: logDir}}); err != nil {
		t.Fatal(err)
	}

	filterUC := usecase.NewFilterLogsUseCase(folderUC, files, logquery.NewLineParser(time.UTC), 0, m, logger)
	snapshots := cache.NewSnapshotCache(4, time.Minute, logger, m)
	snapshotUC := usecase.NewSnapshotUseCase(filterUC, folderUC, snapshots, nil, logger)
	authUC := usecase.NewAuthUseCase("admin", "secret", "", "test-secret", time.Hour, logger)

	router := NewRouter(cfg, logger, m, Handlers{
		Logs:    handler.NewLogsHandler(filterUC, snapshotUC, time.UTC, cfg.MaxRequestBytes, m, logger),
		Folders: handler.NewFolderHandler(folderUC, logger),
		Auth:    handler.NewAuthHandler(authUC, false, logger),
	}, authUC)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

type filterResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	TotalCount int    `json:"totalCount"`
	SnapshotID string `json:"snapshotId"`
	Logs       []struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	} `json:"logs"`
}

func post(t *testing.T, client *http.Client, url, body, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeFilter(t *testing.T, resp *http.Response) filterResponse {
	t.Helper()
	defer resp.Body.Close()
	var out filterResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t, false)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
}

func TestRouter_AuthFlow(t *testing.T) {
	srv := newTestServer(t, false)
	client := srv.Client()
	filterBody := `{"folder":"app","file":"app.log"}`

	resp := post(t, client, srv.URL+"/api/logs/filter", filterBody, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", resp.StatusCode)
	}

	resp = post(t, client, srv.URL+"/api/auth/login", `{"username":"admin","password":"secret"}`, "")
	var login struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if login.Token == "" {
		t.Fatal("expected a token")
	}

	out := decodeFilter(t, post(t, client, srv.URL+"/api/logs/filter", filterBody, login.Token))
	if !out.Success || out.TotalCount != 4 {
		t.Errorf("unexpected result: %+v", out)
	}
}

func TestRouter_FilterEndToEnd(t *testing.T) {
	srv := newTestServer(t, true)
	client := srv.Client()

	tests := []struct {
		name         string
		body         string
		wantSuccess  bool
		wantMessage  string
		wantMessages []string
	}{
		{
			name:         "Default order is newest first",
			body:         `{"folder":"app","file":"app.log"}`,
			wantSuccess:  true,
			wantMessages: []string{"cache warmed", "disk full on /var", "disk usage at 85%", "service started"},
		},
		{
			name:         "Search and exclusion",
			body:         `{"folder":"app","file":"app.log","filterOptions":{"searchText":"disk","exclusionText":"full"}}`,
			wantSuccess:  true,
			wantMessages: []string{"disk usage at 85%"},
		},
		{
			name:         "Levels with ascending sort",
			body:         `{"folder":"app","file":"app.log","filterOptions":{"levels":["INF","ERR"],"sortDirection":"Ascending"}}`,
			wantSuccess:  true,
			wantMessages: []string{"service started", "disk full on /var"},
		},
		{
			name:         "Time range",
			body:         `{"folder":"app","file":"app.log","filterOptions":{"startDate":"2024-01-15","startTime":"09:00","endDate":"2024-01-15","endTime":"11:00"}}`,
			wantSuccess:  true,
			wantMessages: []string{"disk full on /var", "disk usage at 85%"},
		},
		{
			name:         "Column sort by message",
			body:         `{"folder":"app","file":"app.log","filterOptions":{"sortField":2,"tableSortDirection":0}}`,
			wantSuccess:  true,
			wantMessages: []string{"cache warmed", "disk full on /var", "disk usage at 85%", "service started"},
		},
		{
			name:        "Unknown folder",
			body:        `{"folder":"other","file":"app.log"}`,
			wantMessage: "Unknown folder",
		},
		{
			name:        "Traversal",
			body:        `{"folder":"app","file":"../app.log"}`,
			wantMessage: "Invalid file name",
		},
		{
			name:         "Missing file yields no rows",
			body:         `{"folder":"app","file":"missing.log"}`,
			wantSuccess:  true,
			wantMessages: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, client, srv.URL+"/api/logs/filter", tt.body, "")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
			out := decodeFilter(t, resp)
			if out.Success != tt.wantSuccess || out.Message != tt.wantMessage {
				t.Fatalf("unexpected outcome: %+v", out)
			}
			if !tt.wantSuccess {
				return
			}
			got := make([]string, len(out.Logs))
			for i, l := range out.Logs {
				got[i] = l.Message
			}
			if strings.Join(got, "|") != strings.Join(tt.wantMessages, "|") {
				t.Errorf("expected %v, got %v", tt.wantMessages, got)
			}
		})
	}
}

func TestRouter_FoldersAndSnapshots(t *testing.T) {
	srv := newTestServer(t, true)
	client := srv.Client()

	resp, err := client.Get(srv.URL + "/api/folders/app/files")
	if err != nil {
		t.Fatal(err)
	}
	var files []domain.LogFileInfo
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if len(files) != 1 || files[0].FileName != "app.log" {
		t.Fatalf("unexpected files: %+v", files)
	}

	resp = post(t, client, srv.URL+"/api/snapshots", `{"folder":"app","file":"app.log"}`, "")
	var created struct {
		SnapshotID string `json:"snapshotId"`
		TotalCount int    `json:"totalCount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if created.SnapshotID == "" || created.TotalCount != 4 {
		t.Fatalf("unexpected snapshot: %+v", created)
	}

	out := decodeFilter(t, post(t, client, srv.URL+"/api/snapshots/"+created.SnapshotID+"/filter",
		`{"filterOptions":{"levels":["WRN"]}}`, ""))
	if !out.Success || len(out.Logs) != 1 || out.Logs[0].Level != "WRN" {
		t.Errorf("unexpected snapshot filter result: %+v", out)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/snapshots/"+created.SnapshotID, nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}

	out = decodeFilter(t, post(t, client, srv.URL+"/api/snapshots/"+created.SnapshotID+"/filter", `{}`, ""))
	if out.Success || out.Message != "Snapshot not found or expired" {
		t.Errorf("expected expired snapshot, got %+v", out)
	}
}
