package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	pgdb "serotonyl.ru/bible-reading/internal/db/postgres"
)

type counter struct {
	N int `json:"n"`
}

// runConformance проверяет общее поведение всех реализаций.
// Пользователи уникальны на запуск, чтобы внешние базы не мешали тестам.
func runConformance(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	run := uuid.NewString()
	user := func(name string) string { return name + "-" + run }

	t.Run("absent record", func(t *testing.T) {
		err := s.Transact(ctx, user("absent"), func(tx Tx) error {
			v, found, err := Load[counter](ctx, tx, KeyPoints)
			if err != nil {
				return err
			}
			if found || v != nil {
				return fmt.Errorf("found=%v v=%v for absent record", found, v)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Transact: %v", err)
		}
	})

	t.Run("save and reload", func(t *testing.T) {
		u := user("save")
		err := s.Transact(ctx, u, func(tx Tx) error {
			if err := Save(ctx, tx, KeyPoints, counter{N: 7}); err != nil {
				return err
			}
			// Запись видна внутри той же транзакции
			v, found, err := Load[counter](ctx, tx, KeyPoints)
			if err != nil || !found || v.N != 7 {
				return fmt.Errorf("read-your-write: %v %v %v", v, found, err)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Transact: %v", err)
		}
		if got := readCounter(t, s, u, KeyPoints); got != 7 {
			t.Fatalf("reloaded n=%d, want 7", got)
		}
	})

	t.Run("rollback on error", func(t *testing.T) {
		u := user("rollback")
		mustSave(t, s, u, KeyStreak, 1)
		boom := errors.New("boom")
		err := s.Transact(ctx, u, func(tx Tx) error {
			if err := Save(ctx, tx, KeyStreak, counter{N: 2}); err != nil {
				return err
			}
			if err := Save(ctx, tx, KeyRewards, counter{N: 3}); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("err=%v, want boom", err)
		}
		if got := readCounter(t, s, u, KeyStreak); got != 1 {
			t.Fatalf("streak n=%d after rollback, want 1", got)
		}
		if got := readCounter(t, s, u, KeyRewards); got != -1 {
			t.Fatalf("rewards written despite rollback: n=%d", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		u := user("delete")
		mustSave(t, s, u, KeyProgress, 5)
		mustSave(t, s, u, KeyPlan, 1)
		err := s.Transact(ctx, u, func(tx Tx) error {
			return tx.Delete(ctx, KeyProgress)
		})
		if err != nil {
			t.Fatalf("Transact: %v", err)
		}
		if got := readCounter(t, s, u, KeyProgress); got != -1 {
			t.Fatalf("progress still present: %d", got)
		}
		if got := readCounter(t, s, u, KeyPlan); got != 1 {
			t.Fatalf("plan=%d, want 1", got)
		}
	})

	t.Run("concurrent writers are serialized", func(t *testing.T) {
		u := user("concurrent")
		const workers = 20
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- s.Transact(ctx, u, func(tx Tx) error {
					v, _, err := Load[counter](ctx, tx, KeyPoints)
					if err != nil {
						return err
					}
					n := 0
					if v != nil {
						n = v.N
					}
					time.Sleep(time.Millisecond)
					return Save(ctx, tx, KeyPoints, counter{N: n + 1})
				})
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatalf("Transact: %v", err)
			}
		}
		if got := readCounter(t, s, u, KeyPoints); got != workers {
			t.Fatalf("n=%d after %d increments (lost update)", got, workers)
		}
	})

	t.Run("user ids", func(t *testing.T) {
		ids, err := s.UserIDs(ctx)
		if err != nil {
			t.Fatalf("UserIDs: %v", err)
		}
		for _, want := range []string{user("save"), user("rollback"), user("concurrent")} {
			if !slices.Contains(ids, want) {
				t.Fatalf("UserIDs missing %q", want)
			}
		}
		if slices.Contains(ids, user("absent")) {
			t.Fatalf("read-only user must not appear in UserIDs")
		}
	})

	t.Run("empty user id", func(t *testing.T) {
		err := s.Transact(ctx, "", func(Tx) error { return nil })
		if !errors.Is(err, ErrEmptyUserID) {
			t.Fatalf("err=%v, want ErrEmptyUserID", err)
		}
	})
}

func mustSave(t *testing.T, s Store, userID, key string, n int) {
	t.Helper()
	ctx := context.Background()
	if err := s.Transact(ctx, userID, func(tx Tx) error {
		return Save(ctx, tx, key, counter{N: n})
	}); err != nil {
		t.Fatalf("save %s/%s: %v", userID, key, err)
	}
}

// readCounter возвращает -1 для отсутствующей записи.
func readCounter(t *testing.T, s Store, userID, key string) int {
	t.Helper()
	ctx := context.Background()
	n := -1
	if err := s.Transact(ctx, userID, func(tx Tx) error {
		v, found, err := Load[counter](ctx, tx, key)
		if found {
			n = v.N
		}
		return err
	}); err != nil {
		t.Fatalf("read %s/%s: %v", userID, key, err)
	}
	return n
}

func TestMemoryStore(t *testing.T) {
	runConformance(t, NewMemory())
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()
	runConformance(t, s)
}

func TestSQLiteStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "persist.db")
	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	mustSave(t, s, "u1", KeyHistory, 42)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if got := readCounter(t, s, "u1", KeyHistory); got != 42 {
		t.Fatalf("after reopen n=%d, want 42", got)
	}
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgdb.Connect(ctx, dsn, 8, 0)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := pgdb.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("migrate: %v", err)
	}
	s := NewPostgres(pool)
	defer s.Close()
	runConformance(t, s)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	s, err := NewRedis(context.Background(), RedisOptions{Addr: addr, Prefix: "bible-test-" + uuid.NewString()})
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	defer s.Close()
	runConformance(t, s)

	t.Run("conflict retries stop on context", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		userID := "conflict-" + uuid.NewString()
		key := s.userKey(userID)

		err := s.Transact(ctx, userID, func(tx Tx) error {
			// Запись в обход транзакции срывает WATCH на каждой попытке
			if err := s.rdb.HSet(context.Background(), key, "other", "1").Err(); err != nil {
				return err
			}
			return tx.Set(ctx, KeyPoints, []byte(`{"n":1}`))
		})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("Transact=%v, want context deadline", err)
		}
	})
}

func TestLoadCorruptRecord(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	err := s.Transact(ctx, "u", func(tx Tx) error {
		if err := tx.Set(ctx, KeyPoints, []byte("{not json")); err != nil {
			return err
		}
		_, _, err := Load[counter](ctx, tx, KeyPoints)
		return err
	})
	if err == nil {
		t.Fatalf("expected error for corrupt record")
	}
}
