// Package memoize wraps plain functions so their results flow through a
// cache.Cache. It is a thin adapter: it calls only Contains, Get, Put, and
// Update on the store it is given, and holds no state of its own beyond
// what identifies the wrapped function.
package memoize

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/archcache/boundedcache/cache"
	"github.com/archcache/boundedcache/internal/singleflight"
)

// Store is the subset of *cache.Cache the adapters depend on. Any type
// satisfying it — a real cache, or a test double — can back an adapter.
type Store interface {
	Contains(id string) bool
	Get(id string) (any, error)
	Put(id string, value any) error
	Update(id string, value any) error
}

var _ Store = (*cache.Cache)(nil)

// updateOrPut writes v under id via Update, falling back to Put when the
// entry does not yet exist — the write path for a forced refresh, per
// spec §4.2: "writes the result through the core's update path (creating
// the entry if absent)".
func updateOrPut(store Store, id string, v any) error {
	err := store.Update(id, v)
	if err == nil {
		return nil
	}
	if errors.Is(err, cache.ErrNotFound) {
		return store.Put(id, v)
	}
	return err
}

// Tagged memoizes a niladic function under a single, client-chosen
// identifier. Because the identifier is fixed and known to the caller, the
// client may also read or overwrite the entry directly through the
// underlying store.
//
// calls holds transient in-flight coordination only (de-duplicating
// concurrent misses on the same identifier), not anything that identifies
// the wrapped function beyond id/fn themselves.
type Tagged struct {
	store Store
	id    string
	fn    func() (any, error)
	calls singleflight.Group[string, any]
}

// NewTagged returns an adapter that memoizes fn's result under id in store.
func NewTagged(store Store, id string, fn func() (any, error)) *Tagged {
	return &Tagged{store: store, id: id, fn: fn}
}

// Call returns the cached result, computing it on a miss. When
// updateCache is true, any existing hit is bypassed: fn is invoked and its
// result is written through Update, falling back to Put if the entry
// happens to be absent.
func (t *Tagged) Call(updateCache bool) (any, error) {
	if updateCache {
		return t.calls.Do(context.Background(), t.id, func() (any, error) {
			v, err := t.fn()
			if err != nil {
				return nil, err
			}
			if err := updateOrPut(t.store, t.id, v); err != nil {
				return nil, err
			}
			return v, nil
		})
	}

	if t.store.Contains(t.id) {
		return t.store.Get(t.id)
	}

	return t.calls.Do(context.Background(), t.id, func() (any, error) {
		if t.store.Contains(t.id) {
			return t.store.Get(t.id)
		}
		v, err := t.fn()
		if err != nil {
			return nil, err
		}
		if err := t.store.Put(t.id, v); err != nil {
			return nil, err
		}
		return v, nil
	})
}

// Fn is the wrapped function signature for the argument-keyed adapter:
// positional args and keyword args in, a result or error out.
type Fn func(args []any, kwargs map[string]any) (any, error)

// ArgKeyed memoizes a function keyed by its own stable name plus a
// canonical fingerprint of its arguments. The client never sees the
// derived identifier and must not rely on addressing the entry directly.
//
// calls, as with Tagged, is transient in-flight coordination, not state
// that identifies the wrapped function.
type ArgKeyed struct {
	store Store
	name  string
	fn    Fn
	calls singleflight.Group[string, any]
}

// NewArgKeyed returns an adapter that memoizes fn under name plus an
// argument fingerprint.
func NewArgKeyed(store Store, name string, fn Fn) *ArgKeyed {
	return &ArgKeyed{store: store, name: name, fn: fn}
}

// Call returns the cached result for (args, kwargs), computing it on a
// miss. updateCache is stripped before the fingerprint is computed and
// before fn is invoked; when true it forces recomputation and writes the
// result through Update, falling back to Put if the entry does not yet
// exist.
func (a *ArgKeyed) Call(args []any, kwargs map[string]any, updateCache bool) (any, error) {
	id, err := fingerprint(a.name, args, kwargs)
	if err != nil {
		return nil, fmt.Errorf("memoize: fingerprint: %w", err)
	}

	if updateCache {
		return a.calls.Do(context.Background(), id, func() (any, error) {
			v, err := a.fn(args, kwargs)
			if err != nil {
				return nil, err
			}
			if err := updateOrPut(a.store, id, v); err != nil {
				return nil, err
			}
			return v, nil
		})
	}

	if a.store.Contains(id) {
		return a.store.Get(id)
	}

	return a.calls.Do(context.Background(), id, func() (any, error) {
		if a.store.Contains(id) {
			return a.store.Get(id)
		}
		v, err := a.fn(args, kwargs)
		if err != nil {
			return nil, err
		}
		if err := a.store.Put(id, v); err != nil {
			return nil, err
		}
		return v, nil
	})
}

// canonical is the gob-encoded shape hashed to produce an argument
// fingerprint. Keyword arguments are sorted by key first so that equal
// kwargs maps fingerprint identically regardless of map iteration order.
type canonical struct {
	Name    string
	Args    []any
	KwKeys  []string
	KwVals  []any
}

// fingerprint derives a stable identifier for name applied to args/kwargs.
// Equal (name, args, kwargs) tuples always produce the same identifier;
// values with no natural canonical form are handled by gob's own
// structural encoding of their fields, which is exactly the "fingerprint
// by structural contents" fallback composites need.
func fingerprint(name string, args []any, kwargs map[string]any) (string, error) {
	keys := make([]string, 0, len(kwargs))
	for k := range kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]any, len(keys))
	for i, k := range keys {
		vals[i] = kwargs[k]
	}

	c := canonical{Name: name, Args: args, KwKeys: keys, KwVals: vals}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c); err != nil {
		return "", err
	}

	sum := xxhash.Sum64(buf.Bytes())
	return fmt.Sprintf("memoize:%s:%016x", name, sum), nil
}
