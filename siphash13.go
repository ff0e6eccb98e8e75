// siphash13.go -- SipHash-1-3 with 128-bit output
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package fcnf

import "encoding/binary"

// sipHash13 computes the 128-bit SipHash-1-3 digest of 'data' keyed by
// (k0, k1), returning the two 64-bit halves (lo, hi) in the order the
// reference implementation emits them. SipHash-1-3 runs one compression
// round per message block and three finalization rounds; it is the
// variant the PHF builder uses to turn an arbitrary byte key into the
// (g, f1, f2) triple described in the perfect-hash design.
//
// The algorithm consumes bytes only -- no pointer or native-endianness
// dependence -- so the digest (and therefore a database built from it)
// is identical across host architectures.
func sipHash13(k0, k1 uint64, data []byte) (lo, hi uint64) {
	v0 := uint64(0x736f6d6570736575) ^ k0
	v1 := uint64(0x646f72616e646f6d) ^ k1
	v2 := uint64(0x6c7967656e657261) ^ k0
	v3 := uint64(0x7465646279746573) ^ k1

	// 128-bit output perturbs v1 before processing any input.
	v1 ^= 0xee

	round := func() {
		v0 += v1
		v1 = rotl64(v1, 13)
		v1 ^= v0
		v0 = rotl64(v0, 32)

		v2 += v3
		v3 = rotl64(v3, 16)
		v3 ^= v2

		v0 += v3
		v3 = rotl64(v3, 21)
		v3 ^= v0

		v2 += v1
		v1 = rotl64(v1, 17)
		v1 ^= v2
		v2 = rotl64(v2, 32)
	}

	inlen := len(data)
	end := inlen - (inlen % 8)

	for i := 0; i < end; i += 8 {
		m := binary.LittleEndian.Uint64(data[i : i+8])
		v3 ^= m
		round() // cROUNDS = 1
		v0 ^= m
	}

	var b uint64 = uint64(inlen) << 56
	left := data[end:]
	for i := len(left) - 1; i >= 0; i-- {
		b |= uint64(left[i]) << (8 * uint(i))
	}

	v3 ^= b
	round() // cROUNDS = 1
	v0 ^= b

	v2 ^= 0xee
	round() // dROUNDS = 3
	round()
	round()

	lo = v0 ^ v1 ^ v2 ^ v3

	v1 ^= 0xdd
	round() // dROUNDS = 3
	round()
	round()

	hi = v0 ^ v1 ^ v2 ^ v3
	return lo, hi
}

func rotl64(x uint64, b uint) uint64 {
	return (x << b) | (x >> (64 - b))
}

// phfHashes is the (g, f1, f2) triple derived from a key's SipHash-1-3
// digest, as described in the perfect-hash design: g selects the
// bucket, (f1, f2) parameterize the per-bucket displacement formula.
type phfHashes struct {
	g  uint32
	f1 uint32
	f2 uint32
}

// hashKey computes the phfHashes triple for 'data' under the given PHF
// hash key, keying SipHash-1-3 with the sub-key pair (0, hashKey).
func hashKey(hashKey uint64, data []byte) phfHashes {
	lo, hi := sipHash13(0, hashKey, data)
	return phfHashes{
		g:  uint32(lo >> 32),
		f1: uint32(lo),
		f2: uint32(hi),
	}
}
