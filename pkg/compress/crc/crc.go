// Package crc implements the reflected CRC-32 used by PNG chunks.
// Reference: PNG (Second Edition) Annex D, ISO 3309 / ITU-T V.42.
package crc

// Polynomial is the reversed representation of x^32+x^26+...+x+1.
const Polynomial = 0xEDB88320

var table = makeTable(Polynomial)

func makeTable(poly uint32) *[256]uint32 {
	t := new([256]uint32)
	for n := range t {
		c := uint32(n)
		for k := 0; k < 8; k++ {
			if c&1 == 1 {
				c = poly ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		t[n] = c
	}
	return t
}

// Table returns the shared lookup table. Callers must not modify it.
func Table() *[256]uint32 {
	return table
}

// Checksum returns the CRC-32 of b.
func Checksum(b []byte) uint32 {
	return Update(0, b)
}

// Update returns the checksum of the bytes summed by crc followed by b,
// so Update(Checksum(a), b) == Checksum(append(a, b...)).
func Update(crc uint32, b []byte) uint32 {
	c := ^crc
	for _, v := range b {
		c = table[byte(c)^v] ^ (c >> 8)
	}
	return ^c
}
