// Package codec is the cache's serialization layer: a bijective, self-
// describing encoding of arbitrary Go values into an opaque byte sequence,
// used once a value crosses the serialize threshold (spec §4.1.5).
//
// The wire format is gob (self-describing, handles arbitrary registered
// types without an external schema) run through zstd compression, mirroring
// VanitasCaesar1-mantisdb's compression engine, which wires zstd, snappy,
// and lz4 behind one CompressionAlgorithm interface — only zstd is needed
// here since the cache has exactly one on-wire form, not a pluggable
// multi-algorithm policy.
package codec

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

func init() {
	// Register the common concrete types clients are likely to store under
	// interface{}, matching agilira-metis's metis.go init() registrations.
	// Encode writes the value as an interface value, so a type that isn't
	// registered here and isn't itself gob-registered by the caller fails to
	// encode (gob's standard interface-value contract); that surfaces as
	// serialization_failure rather than silently corrupting data.
	gob.Register(int(0))
	gob.Register(int32(0))
	gob.Register(int64(0))
	gob.Register(uint(0))
	gob.Register(uint32(0))
	gob.Register(uint64(0))
	gob.Register(float32(0))
	gob.Register(float64(0))
	gob.Register(bool(false))
	gob.Register(string(""))
	gob.Register([]byte{})
	gob.Register([]interface{}{})
	gob.Register([]string{})
	gob.Register([]int{})
	gob.Register([]float64{})
	gob.Register([]bool{})
	gob.Register(map[string]interface{}{})
	gob.Register(map[string]string{})
	gob.Register(map[string]int{})
}

var bufPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// zEnc/zDec are shared across calls: both types are documented by
// klauspost/compress as safe for concurrent use through EncodeAll/DecodeAll.
var (
	zEnc *zstd.Encoder
	zDec *zstd.Decoder
)

func init() {
	var err error
	zEnc, err = zstd.NewWriter(nil)
	if err != nil {
		panic(fmt.Sprintf("codec: zstd writer init: %v", err))
	}
	zDec, err = zstd.NewReader(nil)
	if err != nil {
		panic(fmt.Sprintf("codec: zstd reader init: %v", err))
	}
}

// Encode gob-encodes v and compresses the result. The returned byte slice is
// the cache's opaque "serialized" payload.
func Encode(v any) ([]byte, error) {
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufPool.Put(buf)

	if err := gob.NewEncoder(buf).Encode(&v); err != nil {
		return nil, fmt.Errorf("codec: gob encode: %w", err)
	}
	return zEnc.EncodeAll(buf.Bytes(), nil), nil
}

// Decode reverses Encode, reconstructing the original value behind an
// interface{}.
func Decode(b []byte) (any, error) {
	raw, err := zDec.DecodeAll(b, nil)
	if err != nil {
		return nil, fmt.Errorf("codec: zstd decode: %w", err)
	}
	var v any
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&v); err != nil {
		return nil, fmt.Errorf("codec: gob decode: %w", err)
	}
	return v, nil
}
