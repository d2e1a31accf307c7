// Package sizeof estimates the in-memory footprint charged to the cache for
// an arbitrary Go value.
//
// Primitives, strings, and []byte are measured shallowly (their own content
// length, no pointer chasing). Everything else falls back to a gob encoding
// of the value: gob walks the full structure, so this path is a deep
// measurement. The function is deterministic for equal inputs — gob's
// per-field encoding size depends only on field content, never on map
// iteration order, so repeated calls on structurally equal values always
// report the same size even though Go randomizes map iteration.
package sizeof

import (
	"bytes"
	"encoding/gob"
	"strconv"
	"sync"
)

var bufPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

func getBuffer() *bytes.Buffer {
	return bufPool.Get().(*bytes.Buffer)
}

func putBuffer(b *bytes.Buffer) {
	b.Reset()
	bufPool.Put(b)
}

// Estimate returns a non-negative byte-count estimate for v.
func Estimate(v any) int64 {
	if v == nil {
		return 0
	}
	switch x := v.(type) {
	case string:
		return int64(len(x))
	case []byte:
		return int64(len(x))
	case bool:
		if x {
			return 4 // "true"
		}
		return 5 // "false"
	case int:
		return int64(len(strconv.AppendInt(nil, int64(x), 10)))
	case int8:
		return int64(len(strconv.AppendInt(nil, int64(x), 10)))
	case int16:
		return int64(len(strconv.AppendInt(nil, int64(x), 10)))
	case int32:
		return int64(len(strconv.AppendInt(nil, int64(x), 10)))
	case int64:
		return int64(len(strconv.AppendInt(nil, x, 10)))
	case uint:
		return int64(len(strconv.AppendUint(nil, uint64(x), 10)))
	case uint8:
		return int64(len(strconv.AppendUint(nil, uint64(x), 10)))
	case uint16:
		return int64(len(strconv.AppendUint(nil, uint64(x), 10)))
	case uint32:
		return int64(len(strconv.AppendUint(nil, uint64(x), 10)))
	case uint64:
		return int64(len(strconv.AppendUint(nil, x, 10)))
	case float32:
		return int64(len(strconv.AppendFloat(nil, float64(x), 'g', -1, 32)))
	case float64:
		return int64(len(strconv.AppendFloat(nil, x, 'g', -1, 64)))
	default:
		return gobSize(v)
	}
}

// gobSize measures the gob-encoded footprint of a composite value. Values
// gob cannot encode (channels, funcs, unregistered interface contents) are
// reported as zero rather than erroring — Estimate is advisory bookkeeping,
// not the serialization path itself (see package codec for that, where a
// genuine encode failure does surface as serialization_failure).
func gobSize(v any) int64 {
	buf := getBuffer()
	defer putBuffer(buf)
	if err := gob.NewEncoder(buf).Encode(v); err != nil {
		return 0
	}
	return int64(buf.Len())
}

// Overhead is the small constant added on top of a serialized payload's
// byte length, accounting for the codec's own framing.
const Overhead = 16
