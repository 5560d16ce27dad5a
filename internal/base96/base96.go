// Package base96 defines the fixed 96-symbol alphabet used to render
// digests, context slots, and identifier components as compact strings.
//
// The alphabet is the contiguous single-byte range 0x20..0x7F: index i maps
// to byte 0x20+i, so index and character are exact inverses by arithmetic
// alone. It is a compile-time constant shared by every component; making it
// configurable would break cross-component reproducibility of persisted
// identifiers.
//
// Note the alphabet contains '_' (index 63). Canonical identifier strings
// are therefore parsed by fixed-width slicing, never by splitting on '_'.
package base96

// Size is the number of symbols in the alphabet.
const Size = 96

// offset is the byte value of index 0.
const offset = 0x20

// Char returns the alphabet symbol for index i. Out-of-range indices wrap
// mod 96 rather than erroring; encoding is total.
func Char(i int) byte {
	i %= Size
	if i < 0 {
		i += Size
	}
	return byte(offset + i)
}

// Index returns the alphabet index of c, and false if c is not an alphabet
// symbol.
func Index(c byte) (int, bool) {
	if c < offset || c >= offset+Size {
		return 0, false
	}
	return int(c - offset), true
}

// EncodeUint renders v as exactly n Base96 digits, least-significant digit
// first. Values wider than 96^n truncate: the high digits are simply never
// emitted. The digit order is part of the encoding contract and must not
// change — slot identifiers are persisted as strings.
func EncodeUint(v uint32, n int) string {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = Char(int(v % Size))
		v /= Size
	}
	return string(out)
}

// EncodeBytes renders each input byte as one Base96 symbol (byte mod 96).
// Lossy by construction; used where a fixed-width printable projection of
// binary data is needed, not for round-tripping.
func EncodeBytes(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = Char(int(c))
	}
	return string(out)
}

// Valid reports whether every byte of s is an alphabet symbol.
func Valid(s string) bool {
	for i := 0; i < len(s); i++ {
		if _, ok := Index(s[i]); !ok {
			return false
		}
	}
	return true
}
