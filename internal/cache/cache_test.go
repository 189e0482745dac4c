package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T, size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clock.Now
	return c, clock
}

func TestLRUCache_GetSet(t *testing.T) {
	c, _ := newTestCache(t, 4, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("it-IT|EUR", ",")
	got, ok := c.Get("it-IT|EUR")
	require.True(t, ok)
	assert.Equal(t, ",", got)

	c.Set("it-IT|EUR", ".")
	got, _ = c.Get("it-IT|EUR")
	assert.Equal(t, ".", got)
	assert.Equal(t, 1, c.Size())

	c.Delete("it-IT|EUR")
	assert.Equal(t, 0, c.Size())
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(t, 2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	_, _ = c.Get("a")
	c.Set("c", "3")

	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRUCache_Expiry(t *testing.T) {
	c, clock := newTestCache(t, 8, time.Minute)

	c.Set("a", "1")
	clock.Advance(30 * time.Second)
	c.Set("b", "2")
	clock.Advance(45 * time.Second)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Size())

	clock.Advance(time.Minute)
	assert.Equal(t, 1, c.CleanExpired())
	assert.Equal(t, 0, c.Size())
}

func TestLRUCache_Concurrent(t *testing.T) {
	c := NewLRUCache[int](16, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (i+j)%32)
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Size(), 16)
}

func TestManager_CleanNow(t *testing.T) {
	c, clock := newTestCache(t, 8, time.Second)
	c.Set("a", "1")
	c.Set("b", "2")

	m := NewManager(nil)
	m.Register(c)
	assert.Equal(t, 0, m.CleanNow())

	clock.Advance(2 * time.Second)
	assert.Equal(t, 2, m.CleanNow())
}

func TestManager_StopIsIdempotent(t *testing.T) {
	m := NewManager(nil)
	m.StartCleanup(10 * time.Millisecond)
	m.StartCleanup(10 * time.Millisecond)
	m.Stop()
	m.Stop()

	unstarted := NewManager(nil)
	unstarted.Stop()
}
