// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify keeps the list of toast notifications shown to the user.
// Each toast lives for a fixed lifetime and is then dismissed automatically.
package notify

import (
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/nexus-tools/pkg/types"
)

// DefaultLifetime is how long a toast stays visible.
const DefaultLifetime = 4 * time.Second

// Center holds active toasts. It is safe for concurrent use: tool
// submissions finish on their own goroutines and post results here.
type Center struct {
	mu       sync.Mutex
	lifetime time.Duration
	now      func() time.Time
	log      *zap.Logger
	nextID   uint64
	toasts   []types.Toast
}

// Option configures a Center.
type Option func(*Center)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

// WithLogger mirrors every toast into the given logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Center) { c.log = l }
}

// NewCenter returns a Center whose toasts expire after cfg.Lifetime
// (DefaultLifetime when zero).
func NewCenter(cfg types.NotifyConfig, opts ...Option) *Center {
	c := &Center{
		lifetime: cfg.Lifetime,
		now:      time.Now,
		log:      zap.NewNop(),
	}
	if c.lifetime <= 0 {
		c.lifetime = DefaultLifetime
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Lifetime returns the display duration of each toast.
func (c *Center) Lifetime() time.Duration { return c.lifetime }

// Show adds a toast and returns it.
func (c *Center) Show(message string, kind types.ToastKind) types.Toast {
	c.mu.Lock()
	now := c.now()
	c.nextID++
	t := types.Toast{
		ID:        c.nextID,
		Message:   message,
		Kind:      kind,
		CreatedAt: now,
		ExpiresAt: now.Add(c.lifetime),
	}
	c.toasts = append(c.toasts, t)
	c.mu.Unlock()

	if kind == types.ToastError {
		c.log.Warn("toast", zap.Uint64("id", t.ID), zap.String("kind", string(kind)), zap.String("message", message))
	} else {
		c.log.Info("toast", zap.Uint64("id", t.ID), zap.String("kind", string(kind)), zap.String("message", message))
	}
	return t
}

func (c *Center) Success(message string) types.Toast { return c.Show(message, types.ToastSuccess) }
func (c *Center) Error(message string) types.Toast   { return c.Show(message, types.ToastError) }
func (c *Center) Info(message string) types.Toast    { return c.Show(message, types.ToastInfo) }

// Active prunes expired toasts and returns the rest, oldest first.
func (c *Center) Active() []types.Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pruneLocked(c.now())
	return slices.Clone(c.toasts)
}

// Expire removes expired toasts and returns how many were removed.
func (c *Center) Expire() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pruneLocked(c.now())
}

// Dismiss removes the toast with the given id. It reports whether a toast
// was removed.
func (c *Center) Dismiss(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	before := len(c.toasts)
	c.toasts = slices.DeleteFunc(c.toasts, func(t types.Toast) bool { return t.ID == id })
	return len(c.toasts) != before
}

// Next returns the time until the earliest active toast expires, and false
// when there are no toasts.
func (c *Center) Next() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.toasts) == 0 {
		return 0, false
	}
	now := c.now()
	earliest := c.toasts[0].ExpiresAt
	for _, t := range c.toasts[1:] {
		if t.ExpiresAt.Before(earliest) {
			earliest = t.ExpiresAt
		}
	}
	d := earliest.Sub(now)
	if d < 0 {
		d = 0
	}
	return d, true
}

func (c *Center) pruneLocked(now time.Time) int {
	before := len(c.toasts)
	c.toasts = slices.DeleteFunc(c.toasts, func(t types.Toast) bool { return t.Expired(now) })
	return before - len(c.toasts)
}
