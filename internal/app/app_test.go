package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"serotonyl.ru/bible-reading/internal/config"
	"serotonyl.ru/bible-reading/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("APP_TIMEZONE", "UTC")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func TestOpenStoreDrivers(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	s, err := OpenStore(ctx, cfg)
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := s.(*store.Memory); !ok {
		t.Fatalf("memory driver gave %T", s)
	}

	cfg.StoreDriver = config.DriverSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "app.db")
	s, err = OpenStore(ctx, cfg)
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*store.SQLite); !ok {
		t.Fatalf("sqlite driver gave %T", s)
	}

	cfg.StoreDriver = "etcd"
	if _, err := OpenStore(ctx, cfg); err == nil {
		t.Fatalf("unknown driver accepted")
	}
}

func TestNewRejectsBadRewardsFile(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "rewards.toml")
	if err := os.WriteFile(path, []byte("[[daily]]\nid = \"jackpot\"\nweight = 1\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg.RewardsFile = path

	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatalf("unknown reward id accepted")
	}
}

func TestServeAndShutdown(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + ln.Addr().String() + "/health")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	if resp.StatusCode != 200 || body["success"] != true {
		t.Fatalf("health: %d %v", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Serve did not stop")
	}
}
