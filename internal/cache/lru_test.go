package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRUCache_GetSet(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Fatal("empty cache returned a value")
	}
	c.Set("a", "1")
	c.Set("b", "2")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}

	// a was used more recently than b, so b is evicted.
	c.Set("c", "3")
	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry was not evicted")
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d", c.Size())
	}

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 2 || s.Evictions != 1 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestLRUCache_Expiry(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	clock.t = clock.t.Add(30 * time.Second)
	c.Set("b", "3") // refreshes b's TTL

	clock.t = clock.t.Add(45 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("expired entry returned")
	}
	if v, ok := c.Get("b"); !ok || v != "3" {
		t.Errorf("Get(b) = %q, %v", v, ok)
	}

	clock.t = clock.t.Add(time.Hour)
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired() = %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d", c.Size())
	}
}

func TestLRUCache_NoTTL(t *testing.T) {
	c, clock := newTestCache(10, 0)
	c.Set("a", "1")
	clock.t = clock.t.Add(24 * time.Hour)
	if _, ok := c.Get("a"); !ok {
		t.Error("entry without TTL expired")
	}
}

func TestLRUCache_GetOrCompute(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	calls := 0
	compute := func() (string, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrCompute("k", compute)
		if err != nil || v != "value" {
			t.Fatalf("GetOrCompute = %q, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("compute called %d times", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrCompute("bad", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("failed computation was cached")
	}
}

func TestLRUCache_DeleteAndPurge(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("deleted entry returned")
	}
	c.Purge()
	if c.Size() != 0 || c.Stats() != (Stats{}) {
		t.Errorf("after Purge size=%d stats=%+v", c.Size(), c.Stats())
	}
}

func TestManager_SweepAndRun(t *testing.T) {
	c, clock := newTestCache(10, time.Second)
	c.Set("a", "1")
	c.Set("b", "2")

	m := NewManager()
	m.Register(c)

	if n := m.Sweep(); n != 0 {
		t.Errorf("Sweep() before expiry = %d", n)
	}
	clock.t = clock.t.Add(time.Minute)
	if n := m.Sweep(); n != 2 {
		t.Errorf("Sweep() = %d, want 2", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
