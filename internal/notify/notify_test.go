// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/nexus-tools/pkg/types"
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
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCenter(lifetime time.Duration) (*Center, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	return NewCenter(types.NotifyConfig{Lifetime: lifetime}, WithClock(clock.Now)), clock
}

func TestDefaultLifetime(t *testing.T) {
	c := NewCenter(types.NotifyConfig{})
	assert.Equal(t, 4*time.Second, c.Lifetime())
}

func TestToastsSelfDismiss(t *testing.T) {
	c, clock := newTestCenter(4 * time.Second)

	first := c.Success("PDF rotated!")
	clock.Advance(time.Second)
	second := c.Error("Merge failed")

	active := c.Active()
	require.Len(t, active, 2)
	assert.Equal(t, first.ID, active[0].ID)
	assert.Equal(t, types.ToastSuccess, active[0].Kind)
	assert.Equal(t, types.ToastError, active[1].Kind)

	clock.Advance(3 * time.Second)
	active = c.Active()
	require.Len(t, active, 1, "first toast expires exactly at its lifetime")
	assert.Equal(t, second.ID, active[0].ID)

	clock.Advance(time.Second)
	assert.Empty(t, c.Active())
}

func TestToastIDsAreUnique(t *testing.T) {
	c, _ := newTestCenter(time.Minute)
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		tst := c.Info("same instant")
		assert.False(t, seen[tst.ID])
		seen[tst.ID] = true
	}
}

func TestConcurrentShow(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, _ := newTestCenter(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				c.Success("done")
			} else {
				c.Error("failed")
			}
		}()
	}
	wg.Wait()

	active := c.Active()
	require.Len(t, active, 20)
	seen := make(map[uint64]bool)
	for _, tst := range active {
		assert.False(t, seen[tst.ID])
		seen[tst.ID] = true
	}
}

func TestDismissAndExpire(t *testing.T) {
	c, clock := newTestCenter(2 * time.Second)
	a := c.Info("a")
	c.Info("b")

	assert.True(t, c.Dismiss(a.ID))
	assert.False(t, c.Dismiss(a.ID))
	assert.Len(t, c.Active(), 1)

	clock.Advance(2 * time.Second)
	assert.Equal(t, 1, c.Expire())
	assert.Equal(t, 0, c.Expire())
}

func TestNext(t *testing.T) {
	c, clock := newTestCenter(4 * time.Second)
	_, ok := c.Next()
	assert.False(t, ok)

	c.Info("x")
	clock.Advance(time.Second)
	c.Info("y")

	d, ok := c.Next()
	require.True(t, ok)
	assert.Equal(t, 3*time.Second, d)

	clock.Advance(10 * time.Second)
	d, ok = c.Next()
	require.True(t, ok)
	assert.Zero(t, d)
}

func TestToastsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	c := NewCenter(types.NotifyConfig{}, WithLogger(zap.New(core)))

	c.Success("ok")
	c.Error("bad")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, "bad", entries[1].ContextMap()["message"])
}
