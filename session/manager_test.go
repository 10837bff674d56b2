package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goSSO/internal"
)

func newTestManager(t *testing.T) (*miniredis.Miniredis, *Manager) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return mr, NewManager(rdb, Options{
		KeyPrefix:  "test",
		SessionTTL: 5 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})
}

func TestMintShapes(t *testing.T) {
	_, m := newTestManager(t)

	issued, err := m.Mint("")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if len(issued.Token) != 64 || !internal.IsAlphanumeric(issued.Token) {
		t.Fatalf("bad token %q", issued.Token)
	}
	if len(issued.RefreshToken) != 128 || !internal.IsAlphanumeric(issued.RefreshToken) {
		t.Fatalf("bad refresh token %q", issued.RefreshToken)
	}
	if issued.SessionID == "" {
		t.Fatal("expected session id")
	}

	again, err := m.Mint(issued.SessionID)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if again.SessionID != issued.SessionID {
		t.Fatal("Mint must keep an explicit session id")
	}
	if again.Token == issued.Token || again.RefreshToken == issued.RefreshToken {
		t.Fatal("Mint must generate fresh tokens")
	}
}

func TestIssueSessionWritesBothIndexes(t *testing.T) {
	mr, m := newTestManager(t)
	ctx := context.Background()

	issued, err := m.IssueSession(ctx, "a@x.com", "")
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	email, err := m.ResolveSession(ctx, issued.SessionID)
	if err != nil || email != "a@x.com" {
		t.Fatalf("ResolveSession: %q %v", email, err)
	}
	email, err = m.ResolveRefreshSession(ctx, issued.SessionID)
	if err != nil || email != "a@x.com" {
		t.Fatalf("ResolveRefreshSession: %q %v", email, err)
	}

	if ttl := mr.TTL("test:accountsBySession:" + issued.SessionID); ttl != 5*time.Minute {
		t.Fatalf("session ttl %v", ttl)
	}
	if ttl := mr.TTL("test:accountsByRefreshSession:" + issued.SessionID); ttl != 7*24*time.Hour {
		t.Fatalf("refresh ttl %v", ttl)
	}
	for _, k := range mr.Keys() {
		v, _ := mr.Get(k)
		if v == issued.Token || v == issued.RefreshToken {
			t.Fatalf("plaintext token stored under %s", k)
		}
	}
}

func TestIssueSessionInvalidatesPrevious(t *testing.T) {
	_, m := newTestManager(t)
	ctx := context.Background()

	first, err := m.IssueSession(ctx, "a@x.com", "")
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	second, err := m.IssueSession(ctx, "a@x.com", first.SessionID)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	if _, err := m.ResolveSession(ctx, first.SessionID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old session entry: expected ErrNotFound, got %v", err)
	}
	if _, err := m.ResolveRefreshSession(ctx, first.SessionID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old refresh entry: expected ErrNotFound, got %v", err)
	}
	if _, err := m.ResolveSession(ctx, second.SessionID); err != nil {
		t.Fatalf("new session entry: %v", err)
	}
}

func TestActivateSameSessionKeepsEntries(t *testing.T) {
	mr, m := newTestManager(t)
	ctx := context.Background()

	issued, err := m.IssueSession(ctx, "a@x.com", "")
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	mr.FastForward(4 * time.Minute)

	if err := m.Activate(ctx, "a@x.com", issued.SessionID, issued.SessionID); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if ttl := mr.TTL("test:accountsBySession:" + issued.SessionID); ttl != 5*time.Minute {
		t.Fatalf("expected refreshed ttl, got %v", ttl)
	}
}

func TestInvalidateSessionEntryLeavesRefresh(t *testing.T) {
	_, m := newTestManager(t)
	ctx := context.Background()

	issued, err := m.IssueSession(ctx, "a@x.com", "")
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	existed, err := m.InvalidateSessionEntry(ctx, issued.SessionID)
	if err != nil || !existed {
		t.Fatalf("InvalidateSessionEntry: existed=%v err=%v", existed, err)
	}
	existed, err = m.InvalidateSessionEntry(ctx, issued.SessionID)
	if err != nil || existed {
		t.Fatalf("second InvalidateSessionEntry: existed=%v err=%v", existed, err)
	}

	if _, err := m.ResolveSession(ctx, issued.SessionID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := m.ResolveRefreshSession(ctx, issued.SessionID); err != nil {
		t.Fatalf("refresh entry must survive: %v", err)
	}
}

func TestSessionEntryExpiresAndTouch(t *testing.T) {
	mr, m := newTestManager(t)
	ctx := context.Background()

	issued, err := m.IssueSession(ctx, "a@x.com", "")
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	mr.FastForward(4 * time.Minute)
	if err := m.TouchSessionEntry(ctx, issued.SessionID, "a@x.com"); err != nil {
		t.Fatalf("TouchSessionEntry: %v", err)
	}
	mr.FastForward(4 * time.Minute)
	if _, err := m.ResolveSession(ctx, issued.SessionID); err != nil {
		t.Fatalf("touched entry should still resolve: %v", err)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := m.ResolveSession(ctx, issued.SessionID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
	if _, err := m.ResolveRefreshSession(ctx, issued.SessionID); err != nil {
		t.Fatalf("refresh entry outlives session entry: %v", err)
	}
}

func TestResolveRedisDown(t *testing.T) {
	mr, m := newTestManager(t)
	mr.Close()

	if _, err := m.ResolveSession(context.Background(), "sid"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
}
