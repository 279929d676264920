package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := New(mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return client
}

func TestClientSetGet(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	if err := client.Set(ctx, "k1", "v1", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := client.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "v1" {
		t.Errorf("Get = %q, want v1", got)
	}

	_, err = client.Get(ctx, "missing")
	if !IsMiss(err) {
		t.Errorf("expected miss, got %v", err)
	}
}

func TestClientDeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	for _, key := range []string{"catalog:/api/course", "catalog:/api/course/1", "other:key"} {
		if err := client.Set(ctx, key, "x", time.Minute); err != nil {
			t.Fatalf("Set %s: %v", key, err)
		}
	}

	if err := client.DeleteByPrefix(ctx, "catalog:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}

	for _, key := range []string{"catalog:/api/course", "catalog:/api/course/1"} {
		if _, err := client.Get(ctx, key); !IsMiss(err) {
			t.Errorf("key %s should be gone, got %v", key, err)
		}
	}

	if _, err := client.Get(ctx, "other:key"); err != nil {
		t.Errorf("unrelated key was deleted: %v", err)
	}
}

func TestDisabledClient(t *testing.T) {
	client, err := New("", "", 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if client.Enabled() {
		t.Error("client with no address must be disabled")
	}

	ctx := context.Background()
	if err := client.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Errorf("Set on disabled client: %v", err)
	}
	if _, err := client.Get(ctx, "k"); !IsMiss(err) {
		t.Errorf("Get on disabled client should miss, got %v", err)
	}
}
