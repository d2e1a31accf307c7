package memoize

import (
	"testing"

	"github.com/archcache/boundedcache/cache"
)

func newStore(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.New(cache.Options{MemoryLimitMB: 4, Mode: cache.LRU})
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	return c
}

func TestTagged_CachesFirstResult(t *testing.T) {
	t.Parallel()

	calls := 0
	tg := NewTagged(newStore(t), "answer", func() (any, error) {
		calls++
		return calls, nil
	})

	v1, err := tg.Call(false)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	v2, err := tg.Call(false)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if v1 != 1 || v2 != 1 {
		t.Fatalf("v1=%v v2=%v, want both 1", v1, v2)
	}
	if calls != 1 {
		t.Fatalf("fn invoked %d times, want 1", calls)
	}
}

func TestTagged_ClientCanReadThroughStore(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	tg := NewTagged(store, "cfg", func() (any, error) { return "computed", nil })

	if _, err := tg.Call(false); err != nil {
		t.Fatalf("Call: %v", err)
	}
	v, err := store.Get("cfg")
	if err != nil || v != "computed" {
		t.Fatalf("store.Get(cfg) = %v, %v", v, err)
	}
}

func TestTagged_ForcedRefresh(t *testing.T) {
	t.Parallel()

	calls := 0
	tg := NewTagged(newStore(t), "n", func() (any, error) {
		calls++
		return calls, nil
	})

	v, _ := tg.Call(false)
	if v != 1 {
		t.Fatalf("v = %v, want 1", v)
	}
	v, _ = tg.Call(false)
	if v != 1 {
		t.Fatalf("v = %v, want 1 (cached)", v)
	}
	v, err := tg.Call(true)
	if err != nil {
		t.Fatalf("Call(updateCache): %v", err)
	}
	if v != 2 {
		t.Fatalf("v = %v, want 2 (recomputed)", v)
	}
	v, _ = tg.Call(false)
	if v != 2 {
		t.Fatalf("v = %v, want 2 (cached again)", v)
	}
}

// Spec §8 scenario 7: forced refresh on the argument-keyed adapter.
func TestArgKeyed_Scenario7_ForcedRefresh(t *testing.T) {
	t.Parallel()

	calls := 0
	ak := NewArgKeyed(newStore(t), "f", func(args []any, kwargs map[string]any) (any, error) {
		calls++
		return calls, nil
	})

	call := func(updateCache bool) any {
		t.Helper()
		v, err := ak.Call([]any{1, "hi"}, nil, updateCache)
		if err != nil {
			t.Fatalf("Call: %v", err)
		}
		return v
	}

	if v := call(false); v != 1 {
		t.Fatalf("first call = %v, want 1", v)
	}
	if v := call(false); v != 1 {
		t.Fatalf("cached call = %v, want 1", v)
	}
	if v := call(true); v != 2 {
		t.Fatalf("forced refresh = %v, want 2", v)
	}
	if v := call(false); v != 2 {
		t.Fatalf("post-refresh cached call = %v, want 2", v)
	}
}

func TestArgKeyed_DistinctArgumentsDoNotCollide(t *testing.T) {
	t.Parallel()

	ak := NewArgKeyed(newStore(t), "f", func(args []any, kwargs map[string]any) (any, error) {
		return args[0], nil
	})

	v1, err := ak.Call([]any{1}, nil, false)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	v2, err := ak.Call([]any{2}, nil, false)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if v1 == v2 {
		t.Fatalf("distinct arguments fingerprinted to the same result: %v == %v", v1, v2)
	}
}

func TestArgKeyed_KeywordOrderDoesNotAffectFingerprint(t *testing.T) {
	t.Parallel()

	calls := 0
	ak := NewArgKeyed(newStore(t), "g", func(args []any, kwargs map[string]any) (any, error) {
		calls++
		return calls, nil
	})

	v1, err := ak.Call(nil, map[string]any{"a": 1, "b": 2}, false)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	v2, err := ak.Call(nil, map[string]any{"b": 2, "a": 1}, false)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if v1 != v2 {
		t.Fatalf("v1=%v v2=%v, want equal (kwarg order must not matter)", v1, v2)
	}
	if calls != 1 {
		t.Fatalf("fn invoked %d times, want 1", calls)
	}
}

func TestArgKeyed_DifferentFunctionNamesDoNotCollide(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	f := NewArgKeyed(store, "f", func(args []any, kwargs map[string]any) (any, error) { return "f-result", nil })
	g := NewArgKeyed(store, "g", func(args []any, kwargs map[string]any) (any, error) { return "g-result", nil })

	vf, err := f.Call([]any{1}, nil, false)
	if err != nil {
		t.Fatalf("f.Call: %v", err)
	}
	vg, err := g.Call([]any{1}, nil, false)
	if err != nil {
		t.Fatalf("g.Call: %v", err)
	}
	if vf == vg {
		t.Fatalf("distinct function names collided: %v == %v", vf, vg)
	}
}
