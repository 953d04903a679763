package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"netdo/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckNtfy_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"healthy":true}`))
	}))
	defer srv.Close()

	result := CheckNtfy(context.Background(), srv.URL+"/netdo-alerts")
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckNtfy_Unhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if result := CheckNtfy(context.Background(), srv.URL+"/topic"); result.Passed {
		t.Fatal("expected failure for unhealthy server")
	}
}

func TestCheckNtfy_InvalidTopic(t *testing.T) {
	if result := CheckNtfy(context.Background(), "not a url"); result.Passed {
		t.Fatal("expected failure for invalid topic")
	}
	if result := CheckNtfy(context.Background(), ""); result.Passed || result.Detail != "missing topic" {
		t.Fatalf("unexpected result for empty topic: %+v", result)
	}
}

func TestCheckTelegram(t *testing.T) {
	if CheckTelegram("", 1).Passed {
		t.Fatal("expected failure without token")
	}
	if CheckTelegram("tok", 0).Passed {
		t.Fatal("expected failure without chat id")
	}
	if !CheckTelegram("tok", 5).Passed {
		t.Fatal("expected pass with token and chat id")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()

	results := RunAll(context.Background(), &cfg)
	// Data and log directory checks only.
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_SkipsDataDirForMemoryStore(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.StoreBackendMemory
	cfg.Paths.DataDir = filepath.Join(t.TempDir(), "missing")
	cfg.Paths.LogDir = t.TempDir()

	results := RunAll(context.Background(), &cfg)
	if len(results) != 1 || results[0].Name != "Log directory" {
		t.Fatalf("expected only log directory check, got %+v", results)
	}
}

func TestRunAll_IncludesTelegramWhenSelected(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Notifications.Channel = config.ChannelTelegram

	results := RunAll(context.Background(), &cfg)
	found := false
	for _, r := range results {
		if r.Name == "Telegram" {
			found = true
			if r.Passed {
				t.Fatal("expected Telegram check to fail without settings")
			}
		}
	}
	if !found {
		t.Fatal("expected Telegram check in results")
	}
}
