// endian_le.go -- endian conversion routines for little-endian arch.
// This file is for little endian systems; thus conversion _to_ little-endian
// format is idempotent.
// We build this file into all arch's that are LE. We list them in the build
// constraints below
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// +build 386 amd64 arm arm64 ppc64le mipsle mips64le riscv64 loong64 wasm

package fcnf

// ToLittleEndianUint64 normalizes a disk-order (little-endian) u64 value,
// read off a zero-copy cast, into a host-native uint64. On little-endian
// hosts this is the identity.
func ToLittleEndianUint64(v uint64) uint64 {
	return v
}

// ToLittleEndianUint32 normalizes a disk-order (little-endian) u32 value,
// read off a zero-copy cast, into a host-native uint32. On little-endian
// hosts this is the identity.
func ToLittleEndianUint32(v uint32) uint32 {
	return v
}
