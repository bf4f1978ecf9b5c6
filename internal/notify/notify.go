// Package notify surfaces action outcomes as stacking, auto-dismissing
// toasts, optionally mirrored to the desktop.
package notify

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

const maxToasts = 40

// Sink receives user-facing outcomes from the controller.
type Sink interface {
	Success(msg string)
	Warning(msg string)
	Error(msg string)
	Info(msg string)
}

type Toast struct {
	ID        int
	Level     Level
	Message   string
	At        time.Time
	ExpiresAt time.Time
}

func (t Toast) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

type Center struct {
	mu      sync.Mutex
	toasts  []Toast
	nextID  int
	ttl     time.Duration
	now     func() time.Time
	desktop DesktopNotifier
	logger  *zap.Logger

	// Desktop delivery runs on one worker so a slow notifier never blocks
	// the caller. The queue is bounded; overflow is dropped.
	outbox  chan Toast
	done    chan struct{}
	started bool
	closed  bool
}

type Option func(*Center)

func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

func WithDesktop(d DesktopNotifier) Option {
	return func(c *Center) { c.desktop = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Center) { c.logger = l }
}

func NewCenter(ttl time.Duration, opts ...Option) *Center {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	c := &Center{
		ttl:     ttl,
		now:     time.Now,
		desktop: NoopDesktopNotifier{},
		logger:  zap.NewNop(),
		outbox:  make(chan Toast, maxToasts),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Center) Success(msg string) { c.push(LevelSuccess, msg) }
func (c *Center) Warning(msg string) { c.push(LevelWarning, msg) }
func (c *Center) Error(msg string)   { c.push(LevelError, msg) }
func (c *Center) Info(msg string)    { c.push(LevelInfo, msg) }

func (c *Center) push(level Level, msg string) {
	if strings.TrimSpace(msg) == "" {
		return
	}
	c.mu.Lock()
	now := c.now()
	c.nextID++
	t := Toast{ID: c.nextID, Level: level, Message: msg, At: now, ExpiresAt: now.Add(c.ttl)}
	c.toasts = append(c.toasts, t)
	if len(c.toasts) > maxToasts {
		c.toasts = c.toasts[len(c.toasts)-maxToasts:]
	}
	queued := c.enqueueLocked(t)
	c.mu.Unlock()

	c.logger.Debug("notification", zap.String("level", string(level)), zap.String("message", msg))
	if !queued {
		c.logger.Warn("desktop notification dropped", zap.Int("id", t.ID))
	}
}

// enqueueLocked hands t to the desktop worker. It reports false only when
// the queue is full.
func (c *Center) enqueueLocked(t Toast) bool {
	if _, noop := c.desktop.(NoopDesktopNotifier); noop || c.closed {
		return true
	}
	if !c.started {
		c.started = true
		go c.deliver(c.desktop)
	}
	select {
	case c.outbox <- t:
		return true
	default:
		return false
	}
}

func (c *Center) deliver(desktop DesktopNotifier) {
	defer close(c.done)
	for t := range c.outbox {
		if err := desktop.Send(t); err != nil {
			c.logger.Warn("desktop notification failed", zap.Error(err))
		}
	}
}

// Close stops desktop delivery after the queued notifications are sent.
// Toasts pushed afterwards are kept in the stack but not forwarded.
func (c *Center) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.outbox)
	started := c.started
	c.mu.Unlock()
	if started {
		<-c.done
	}
}

// Active returns the toasts that have not expired, oldest first.
func (c *Center) Active(now time.Time) []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Toast, 0, len(c.toasts))
	for _, t := range c.toasts {
		if !t.Expired(now) {
			out = append(out, t)
		}
	}
	return out
}

// Prune drops expired toasts and reports how many remain.
func (c *Center) Prune(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.toasts[:0]
	for _, t := range c.toasts {
		if !t.Expired(now) {
			kept = append(kept, t)
		}
	}
	c.toasts = kept
	return len(c.toasts)
}

func (c *Center) TTL() time.Duration {
	return c.ttl
}
