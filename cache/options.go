package cache

import (
	"log/slog"

	"github.com/archcache/boundedcache/policy"
	"github.com/archcache/boundedcache/policy/lfu"
	"github.com/archcache/boundedcache/policy/lra"
	"github.com/archcache/boundedcache/policy/lru"
)

// Mode selects the eviction policy used by a cache instance. It is fixed
// for the instance's lifetime.
type Mode string

const (
	LRU Mode = "LRU"
	LRA Mode = "LRA"
	LFU Mode = "LFU"
)

func (m Mode) factory() (policy.Factory, bool) {
	switch m {
	case LRU:
		return lru.New(), true
	case LRA:
		return lra.New(), true
	case LFU:
		return lfu.New(), true
	default:
		return nil, false
	}
}

// Logger is the cache's ambient observability hook. It mirrors
// agilira-metis's optional Logger interface (Debug/Info/Warn/Error); a
// no-op default is used when Options.Logger is nil.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// slogLogger adapts the standard library's structured logger to Logger.
type slogLogger struct{ l *slog.Logger }

// NewSlogLogger wraps l (or slog.Default() if nil) as a cache Logger.
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return slogLogger{l: l}
}

func (s slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

const bytesPerMB = 1 << 20

// Options configures a cache instance. All three named fields are fixed for
// the instance's lifetime (spec §6); Logger may be supplied to observe
// evictions but never changes cache semantics.
type Options struct {
	// MemoryLimitMB is the cache's total byte budget, in megabytes. Must be
	// strictly positive.
	MemoryLimitMB int

	// Mode selects the eviction policy: LRU, LRA, or LFU.
	Mode Mode

	// SerializeLimitMB is the size, in megabytes, at or above which a
	// value is stored in serialized (opaque byte) form. Zero disables
	// serialization. Must be non-negative.
	SerializeLimitMB int

	// Logger receives Debug-level eviction notices. Nil uses a no-op
	// logger.
	Logger Logger
}

func (o Options) validate() error {
	if o.MemoryLimitMB <= 0 {
		return ErrInvalidLimit
	}
	if o.SerializeLimitMB < 0 {
		return ErrInvalidLimit
	}
	if _, ok := o.Mode.factory(); !ok {
		return ErrInvalidMode
	}
	return nil
}
