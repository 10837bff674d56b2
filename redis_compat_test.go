//go:build integration

package goSSO

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// redisMode names a backend the compatibility suite runs against.
type redisMode struct {
	name  string
	setup func(t *testing.T) redis.UniversalClient
}

// redisModes always includes miniredis, plus a real server when REDIS_ADDR
// is set.
func redisModes() []redisMode {
	modes := []redisMode{{
		name: "miniredis",
		setup: func(t *testing.T) redis.UniversalClient {
			mr := miniredis.RunT(t)
			rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = rdb.Close() })
			return rdb
		},
	}}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		modes = append(modes, redisMode{
			name: "standalone:" + addr,
			setup: func(t *testing.T) redis.UniversalClient {
				rdb := redis.NewClient(&redis.Options{Addr: addr})
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				if err := rdb.Ping(ctx).Err(); err != nil {
					t.Skipf("cannot connect to Redis at %s: %v", addr, err)
				}
				t.Cleanup(func() { _ = rdb.Close() })
				return rdb
			},
		})
	}
	return modes
}

// compatEngine uses a fresh key prefix so runs against a shared server do
// not collide.
func compatEngine(t *testing.T, rdb redis.UniversalClient) (*Engine, string) {
	t.Helper()
	cfg := testConfig()
	cfg.Store.KeyPrefix = fmt.Sprintf("compat%d", time.Now().UnixNano())

	e, err := New().WithConfig(cfg).WithRedis(rdb).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(func() {
		keys, _ := rdb.Keys(context.Background(), cfg.Store.KeyPrefix+":*").Result()
		if len(keys) > 0 {
			rdb.Del(context.Background(), keys...)
		}
	})
	return e, cfg.Store.KeyPrefix
}

func TestRedisCompatHandoff(t *testing.T) {
	for _, mode := range redisModes() {
		t.Run(mode.name, func(t *testing.T) {
			rdb := mode.setup(t)
			e, prefix := compatEngine(t, rdb)
			ctx := context.Background()

			mustRegister(t, e, "a@x.com", "alice", "pw")
			tid := mustTicket(t, e)
			login := mustLogin(t, e, tid, "a@x.com", "pw")

			for key, wantTTL := range map[string]bool{
				prefix + ":accounts:a@x.com":                            false,
				prefix + ":accountsByUsername:alice":                    false,
				prefix + ":tickets:" + tid:                              true,
				prefix + ":accountsBySession:" + login.sessionID:        true,
				prefix + ":accountsByRefreshSession:" + login.sessionID: true,
			} {
				ttl, err := rdb.TTL(ctx, key).Result()
				if err != nil {
					t.Fatalf("TTL %s: %v", key, err)
				}
				if ttl == -2*time.Nanosecond || ttl == -2*time.Second {
					t.Fatalf("key %s missing", key)
				}
				if wantTTL != (ttl > 0) {
					t.Fatalf("key %s: unexpected ttl %v", key, ttl)
				}
			}

			if _, err := e.ClaimSession(ctx, ClaimRequest{TicketID: tid, TicketKey: "k", SessionID: login.sessionID, Token: login.token}); err != nil {
				t.Fatalf("claim failed: %v", err)
			}
			if n, _ := rdb.Exists(ctx, prefix+":tickets:"+tid).Result(); n != 0 {
				t.Fatal("claimed ticket still stored")
			}
			if n, _ := rdb.Exists(ctx, prefix+":accountsBySession:"+login.sessionID).Result(); n != 0 {
				t.Fatal("claimed session entry still stored")
			}
		})
	}
}

func TestRedisCompatRegisterRace(t *testing.T) {
	for _, mode := range redisModes() {
		t.Run(mode.name, func(t *testing.T) {
			rdb := mode.setup(t)
			e, _ := compatEngine(t, rdb)
			ctx := context.Background()

			errs := make(chan error, 8)
			for i := 0; i < cap(errs); i++ {
				go func(i int) {
					_, err := e.Register(ctx, RegisterRequest{Email: fmt.Sprintf("u%d@x.com", i), Username: "shared", Password: "pw"})
					errs <- err
				}(i)
			}

			wins := 0
			for i := 0; i < cap(errs); i++ {
				err := <-errs
				switch {
				case err == nil:
					wins++
				case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrUnavailable):
				default:
					t.Fatalf("unexpected error: %v", err)
				}
			}
			if wins != 1 {
				t.Fatalf("expected one winner, got %d", wins)
			}
		})
	}
}
