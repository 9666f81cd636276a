package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jamtero2001/FINANCE-APP/internal/config"
	"github.com/jamtero2001/FINANCE-APP/internal/scanner"
)

func TestCreateLocalOnly(t *testing.T) {
	factory := NewFactory(nil)
	cfg := &config.Config{
		RemoteBackend: "rest", // no credentials
		CacheBackend:  "memory",
	}

	result, err := factory.Create(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if result.Cache == nil {
		t.Fatal("Cache is nil")
	}
	if result.Remote.Available() {
		t.Fatal("remote store must be unconfigured without credentials")
	}
	if _, ok := result.Scanner.(scanner.Unavailable); !ok {
		t.Fatalf("Scanner = %T, want Unavailable without an endpoint", result.Scanner)
	}
}

func TestCreateSQLiteCache(t *testing.T) {
	factory := NewFactory(nil)
	cfg := &config.Config{
		RemoteBackend: "none",
		CacheBackend:  "sqlite",
		SQLiteDBPath:  filepath.Join(t.TempDir(), "pocket.db"),
	}

	result, err := factory.Create(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if result.Cleanup == nil {
		t.Fatal("SQLite cache must surface a cleanup function")
	}
	defer result.Cleanup()

	if err := result.Cache.Save(context.Background(), "k", []byte(`{}`)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
}

func TestCreateMemoryRemote(t *testing.T) {
	factory := NewFactory(nil)
	cfg := &config.Config{
		RemoteBackend: "memory",
		CacheBackend:  "memory",
	}

	result, err := factory.Create(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !result.Remote.Available() {
		t.Fatal("memory remote store must be available")
	}
}

func TestCreateRejectsUnknownBackends(t *testing.T) {
	factory := NewFactory(nil)

	_, err := factory.Create(context.Background(), &config.Config{
		RemoteBackend: "none",
		CacheBackend:  "redis",
	})
	if err == nil {
		t.Fatal("expected error for unknown cache backend")
	}

	_, err = factory.Create(context.Background(), &config.Config{
		RemoteBackend: "carrier-pigeon",
		CacheBackend:  "memory",
	})
	if err == nil {
		t.Fatal("expected error for unknown remote backend")
	}
}

func TestCreateScannerWithEndpoint(t *testing.T) {
	factory := NewFactory(nil)
	cfg := &config.Config{
		RemoteBackend: "none",
		CacheBackend:  "memory",
		OCREndpoint:   "http://localhost:9090/scan",
	}

	result, err := factory.Create(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, ok := result.Scanner.(scanner.Unavailable); ok {
		t.Fatal("scanner must be the HTTP service when an endpoint is configured")
	}
}
