// Package cache implements a bounded-memory, in-process key/value store
// with pluggable eviction policies (LRU, LRA, LFU) and optional transparent
// serialization of large values.
//
// A Cache owns a single exclusion domain: every exported method runs as one
// atomic critical section under an internal mutex (spec §5). There is no
// sharding — sharding was the teacher's own concurrency strategy, but it is
// incompatible with "every mutation sees the true global total_charged_bytes
// and a single total order of events" (invariants 2 and 4), so this package
// keeps the teacher's intrusive-list-plus-map shape but runs it as one
// domain instead of partitioning it across N.
package cache

import (
	"fmt"
	"sync"

	"github.com/archcache/boundedcache/internal/codec"
	"github.com/archcache/boundedcache/internal/sizeof"
	"github.com/archcache/boundedcache/policy"
)

// Cache is a bounded in-memory key/value store. All methods are safe for
// concurrent use.
type Cache struct {
	mu sync.Mutex

	table map[string]*entry
	pol   policy.Policy
	mkPol func() policy.Policy

	mode                    Mode
	memoryLimitBytes        int64
	serializeThresholdBytes int64 // 0 disables serialization

	totalChargedBytes int64

	logger Logger
}

// New constructs a Cache from Options, returning ErrInvalidMode or
// ErrInvalidLimit if a construction parameter is out of range.
func New(opt Options) (*Cache, error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}
	factory, _ := opt.Mode.factory() // validated above

	logger := opt.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	c := &Cache{
		table:                   make(map[string]*entry),
		mkPol:                   factory.New,
		mode:                    opt.Mode,
		memoryLimitBytes:        int64(opt.MemoryLimitMB) * bytesPerMB,
		serializeThresholdBytes: int64(opt.SerializeLimitMB) * bytesPerMB,
		logger:                  logger,
	}
	c.pol = c.mkPol()
	return c, nil
}

// Put inserts a new entry or replaces an existing one. Replacement is not
// treated as an access: the prior entry's policy bookkeeping is discarded
// and the new entry is admitted fresh (spec §4.1.2 step 2).
func (c *Cache) Put(id string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ser, live, bytes, charged, err := c.prepare(value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	if charged > c.memoryLimitBytes {
		return ErrCapacityExceeded
	}

	if old, ok := c.table[id]; ok {
		c.pol.OnRemove(old)
		c.totalChargedBytes -= old.chargedBytes
		delete(c.table, id)
	}

	c.evictLocked(charged)

	e := &entry{id: id}
	e.setPayload(ser, live, bytes, charged)
	c.table[id] = e
	c.pol.OnAdmit(e)
	c.totalChargedBytes += charged
	return nil
}

// Get returns the value stored under id, deserializing it first if it was
// stored in serialized form. A hit updates policy metadata per the active
// mode (§4.1.3); a miss returns ErrNotFound.
func (c *Cache) Get(id string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.table[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.pol.OnAccess(e)
	return c.materialize(e)
}

// Update replaces an existing entry's value. Unlike Put, this is not
// treated as a fresh admission: LFU frequency continues accumulating and
// LRA reorders (a write event), per §4.1.3. Returns ErrNotFound if id is
// absent.
func (c *Cache) Update(id string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.table[id]
	if !ok {
		return ErrNotFound
	}

	ser, live, bytes, charged, err := c.prepare(value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	if charged > c.memoryLimitBytes {
		return ErrCapacityExceeded
	}

	c.totalChargedBytes -= e.chargedBytes
	e.setPayload(ser, live, bytes, charged)
	c.pol.OnModify(e)

	// Promote first, then evict: e is now the most-recently-touched entry
	// under every mode, so the eviction loop below will never pick it back
	// out from under the update it was just given (see DESIGN.md).
	c.evictLockedExcept(charged, id)
	c.totalChargedBytes += charged
	return nil
}

// Delete removes id. Returns ErrNotFound if absent.
func (c *Cache) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.table[id]
	if !ok {
		return ErrNotFound
	}
	c.pol.OnRemove(e)
	delete(c.table, id)
	c.totalChargedBytes -= e.chargedBytes
	return nil
}

// Contains reports whether id is present. It does not count as an access
// and never mutates policy bookkeeping.
func (c *Cache) Contains(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.table[id]
	return ok
}

// Clear removes every entry and resets policy bookkeeping.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = make(map[string]*entry)
	c.pol = c.mkPol()
	c.totalChargedBytes = 0
}

// Overview returns a snapshot of id -> charged_bytes for every resident
// entry.
func (c *Cache) Overview() map[string]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int64, len(c.table))
	for id, e := range c.table {
		out[id] = e.chargedBytes
	}
	return out
}

// Identifiers returns a snapshot of every resident id.
func (c *Cache) Identifiers() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.table))
	for id := range c.table {
		out = append(out, id)
	}
	return out
}

// MemoryUsageBytes returns total_charged_bytes.
func (c *Cache) MemoryUsageBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalChargedBytes
}

// MemoryUsageMB returns total_charged_bytes / 1048576.
func (c *Cache) MemoryUsageMB() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float64(c.totalChargedBytes) / bytesPerMB
}

// MemoryUsageFraction returns total_charged_bytes / memory_limit_bytes, in
// [0, 1].
func (c *Cache) MemoryUsageFraction() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float64(c.totalChargedBytes) / float64(c.memoryLimitBytes)
}

// --- internals (mu held) ---

// prepare decides, per §4.1.1 step 1, whether value crosses the serialize
// threshold and returns the fields needed to populate an entry.
func (c *Cache) prepare(value any) (serialized bool, live any, bytes []byte, charged int64, err error) {
	if c.serializeThresholdBytes > 0 {
		liveSize := sizeof.Estimate(value)
		if liveSize >= c.serializeThresholdBytes {
			b, encErr := codec.Encode(value)
			if encErr != nil {
				return false, nil, nil, 0, encErr
			}
			return true, nil, b, int64(len(b)) + sizeof.Overhead, nil
		}
	}
	return false, value, nil, sizeof.Estimate(value), nil
}

// materialize returns the live value for e, deserializing if necessary.
// The serialized form itself is left untouched in the entry.
func (c *Cache) materialize(e *entry) (any, error) {
	if !e.serialized {
		return e.value, nil
	}
	v, err := codec.Decode(e.bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return v, nil
}

// evictLocked evicts victims until admitting an entry charged `need` bytes
// would not exceed the memory limit, or the cache is empty.
func (c *Cache) evictLocked(need int64) {
	for c.totalChargedBytes+need > c.memoryLimitBytes && len(c.table) > 0 {
		v := c.pol.Victim()
		if v == nil {
			break
		}
		c.removeVictimLocked(v)
	}
}

// evictLockedExcept is evictLocked with a defensive guard against selecting
// `except` itself as a victim. It should never trigger in practice (see the
// comment in Update), but guards the invariant explicitly rather than
// relying on policy internals.
func (c *Cache) evictLockedExcept(need int64, except string) {
	for c.totalChargedBytes+need > c.memoryLimitBytes && len(c.table) > 0 {
		v := c.pol.Victim()
		if v == nil || v.Key() == except {
			break
		}
		c.removeVictimLocked(v)
	}
}

func (c *Cache) removeVictimLocked(n policy.Node) {
	e, ok := c.table[n.Key()]
	if !ok {
		return
	}
	c.pol.OnRemove(n)
	delete(c.table, n.Key())
	c.totalChargedBytes -= e.chargedBytes
	c.logger.Debug("cache: evicted entry", "id", n.Key(), "mode", c.mode)
}
