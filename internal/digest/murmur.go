// Package digest implements the Trivium content digest: a 128-bit
// MurmurHash3 (x64 variant) over arbitrary byte strings. Every identifier
// in the routing core is derived from this digest, so the bit layout is
// frozen — any change breaks reproducibility of persisted identifiers.
//
// MurmurHash3 is not a cryptographic hash. It must never be used where
// collision resistance against an adversary matters.
package digest

import (
	"encoding/binary"
	"encoding/hex"
	"math/bits"

	"github.com/ssd-technologies/trivium/internal/base96"
)

// Seed pair for the two 64-bit accumulators. Fixed for the lifetime of the
// system: identifiers are persisted and compared as strings across nodes.
const (
	seedH1 = 0x9E3779B9
	seedH2 = 0x85EBCA6B
)

// Block mixing constants from the reference MurmurHash3 x64-128.
const (
	c1 = 0x87c37b91114253d5
	c2 = 0x4cf5ad432745937f
)

// Digest128 is the raw 128-bit output of Sum128. Immutable once produced.
type Digest128 struct {
	H1 uint64
	H2 uint64
}

// Sum128 computes the MurmurHash3 x64-128 digest of data with the fixed
// Trivium seed pair. It is a pure, total function: any byte length,
// including zero, produces a defined result.
func Sum128(data []byte) (uint64, uint64) {
	var (
		h1     uint64 = seedH1
		h2     uint64 = seedH2
		length        = len(data)
	)

	// Body: 16-byte blocks, two little-endian u64 words per block.
	nblocks := length / 16
	for i := 0; i < nblocks; i++ {
		b := data[i*16 : i*16+16]
		k1 := binary.LittleEndian.Uint64(b[0:8])
		k2 := binary.LittleEndian.Uint64(b[8:16])

		k1 *= c1
		k1 = bits.RotateLeft64(k1, 31)
		k1 *= c2
		h1 ^= k1

		h1 = bits.RotateLeft64(h1, 27)
		h1 += h2
		h1 = h1*5 + 0x52dce729

		k2 *= c2
		k2 = bits.RotateLeft64(k2, 33)
		k2 *= c1
		h2 ^= k2

		h2 = bits.RotateLeft64(h2, 31)
		h2 += h1
		h2 = h2*5 + 0x38495ab5
	}

	// Tail: 0-15 trailing bytes, mixed once without the *5+const step.
	tail := data[nblocks*16:]
	var k1, k2 uint64
	switch len(tail) & 15 {
	case 15:
		k2 ^= uint64(tail[14]) << 48
		fallthrough
	case 14:
		k2 ^= uint64(tail[13]) << 40
		fallthrough
	case 13:
		k2 ^= uint64(tail[12]) << 32
		fallthrough
	case 12:
		k2 ^= uint64(tail[11]) << 24
		fallthrough
	case 11:
		k2 ^= uint64(tail[10]) << 16
		fallthrough
	case 10:
		k2 ^= uint64(tail[9]) << 8
		fallthrough
	case 9:
		k2 ^= uint64(tail[8])
		k2 *= c2
		k2 = bits.RotateLeft64(k2, 33)
		k2 *= c1
		h2 ^= k2
		fallthrough
	case 8:
		k1 ^= uint64(tail[7]) << 56
		fallthrough
	case 7:
		k1 ^= uint64(tail[6]) << 48
		fallthrough
	case 6:
		k1 ^= uint64(tail[5]) << 40
		fallthrough
	case 5:
		k1 ^= uint64(tail[4]) << 32
		fallthrough
	case 4:
		k1 ^= uint64(tail[3]) << 24
		fallthrough
	case 3:
		k1 ^= uint64(tail[2]) << 16
		fallthrough
	case 2:
		k1 ^= uint64(tail[1]) << 8
		fallthrough
	case 1:
		k1 ^= uint64(tail[0])
		k1 *= c1
		k1 = bits.RotateLeft64(k1, 31)
		k1 *= c2
		h1 ^= k1
	}

	// Finalization.
	h1 ^= uint64(length)
	h2 ^= uint64(length)

	h1 += h2
	h2 += h1

	h1 = fmix64(h1)
	h2 = fmix64(h2)

	h1 += h2
	h2 += h1

	return h1, h2
}

// Sum computes the digest of data as a Digest128 value.
func Sum(data []byte) Digest128 {
	h1, h2 := Sum128(data)
	return Digest128{H1: h1, H2: h2}
}

// SumString computes the digest of a string without an explicit copy at the
// call site.
func SumString(s string) Digest128 {
	return Sum([]byte(s))
}

// Bytes returns the 16 digest bytes: h1 then h2, each little-endian. This
// byte order is part of the identifier wire contract.
func (d Digest128) Bytes() [16]byte {
	var out [16]byte
	binary.LittleEndian.PutUint64(out[0:8], d.H1)
	binary.LittleEndian.PutUint64(out[8:16], d.H2)
	return out
}

// Hex renders the digest as 32 lowercase hex characters.
func (d Digest128) Hex() string {
	b := d.Bytes()
	return hex.EncodeToString(b[:])
}

// Base96 renders the digest as 16 Base96 symbols, one per digest byte.
func (d Digest128) Base96() string {
	b := d.Bytes()
	return base96.EncodeBytes(b[:])
}

// fmix64 is the standard 64-bit avalanche finalizer.
func fmix64(k uint64) uint64 {
	k ^= k >> 33
	k *= 0xff51afd7ed558ccd
	k ^= k >> 33
	k *= 0xc4ceb9fe1a85ec53
	k ^= k >> 33
	return k
}
