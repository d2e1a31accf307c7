// Package cache provides a bounded-memory, in-process key/value cache with
// a pluggable eviction policy (LRU, LRA, or LFU — Options.Mode is mandatory,
// there is no default) and optional transparent serialization of large
// values.
//
// Design
//
//   - Concurrency: one Cache instance owns one exclusion domain. Every
//     exported method runs as an atomic critical section under an internal
//     mutex; there is no sharding (see cache.go's package comment for why
//     this differs from a sharded design).
//
//   - Storage: a map[string]*entry for lookups, paired with a pluggable
//     policy.Policy that owns whatever ordering structure its strategy
//     needs. The policy is the sole authority on which entry is evicted
//     next; the Cache owns only the entry table and the byte accounting.
//
//   - Byte accounting: every Put/Update computes a charged size via
//     internal/sizeof before admission. If Options.SerializeLimitMB is
//     positive and a value's live size crosses it, the value is encoded via
//     internal/codec and the entry is charged for the serialized form's
//     size instead.
//
//   - Errors: not_found/invalid_mode/invalid_limit/capacity_exceeded/
//     serialization_failure are exposed as the sentinel errors in
//     errors.go, matching errors.Is-style comparison rather than typed
//     panics.
//
// Basic usage
//
//	c, err := cache.New(cache.Options{MemoryLimitMB: 64, Mode: cache.LRU})
//	if err != nil {
//	    // ErrInvalidMode or ErrInvalidLimit
//	}
//	_ = c.Put("a", []byte("payload"))
//	if v, err := c.Get("a"); err == nil {
//	    _ = v
//	}
//	_ = c.Delete("a")
//
// With serialization
//
//	c, _ := cache.New(cache.Options{
//	    MemoryLimitMB:    64,
//	    Mode:             cache.LFU,
//	    SerializeLimitMB: 1, // values >= 1MB are stored serialized
//	})
//
// Indexed access (§6 of the design spec): Go has no subscript operator to
// bind a "c[id]" form to, so the concise indexed form described there is
// simply Get/Put under another name — there is no separate API surface for
// it here.
package cache
