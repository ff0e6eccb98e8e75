// layout.go -- on-disk record layout: header, Provider, Span
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package fcnf

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"unsafe"
)

// version is the exact 16-byte tag every database must carry. A reader
// rejects any database whose tag differs by even one byte.
var version = [16]byte{'f', 'c', 'n', 'f', ' ', 'f', 'o', 'r', 'm', 'a', 't', ' ', '0', '0', '3', 0}

// Field layout, in file order. The prose in the original design doc
// calls this "32 bytes" while separately listing six fields that sum to
// 40; we take the field list as authoritative (it is what must be
// byte-exact) and size the struct accordingly -- this matches the
// upstream findpkg Header, which also carries all six fields.
const headerSize = 16 + 4 + 4 + 8 + 4 + 4 // = 40

// header is the fixed-size preamble of a database file. All multi-byte
// fields are little-endian regardless of host architecture.
type header struct {
	version      [16]byte
	providersLen uint32
	stringsLen   uint32
	hashKey      uint64
	dispsLen     uint32
	tableLen     uint32
}

func (h *header) encode() []byte {
	b := make([]byte, headerSize)
	copy(b[0:16], h.version[:])
	le := binary.LittleEndian
	le.PutUint32(b[16:20], h.providersLen)
	le.PutUint32(b[20:24], h.stringsLen)
	le.PutUint64(b[24:32], h.hashKey)
	le.PutUint32(b[32:36], h.dispsLen)
	le.PutUint32(b[36:40], h.tableLen)
	return b
}

func decodeHeader(b []byte) (*header, error) {
	if len(b) < headerSize {
		return nil, fmt.Errorf("%w: short header (%d bytes)", ErrCorruptIndex, len(b))
	}

	h := &header{}
	copy(h.version[:], b[0:16])
	if h.version != version {
		return nil, fmt.Errorf("%w: got %q", ErrUnknownVersion, h.version[:])
	}

	le := binary.LittleEndian
	h.providersLen = le.Uint32(b[16:20])
	h.stringsLen = le.Uint32(b[20:24])
	h.hashKey = le.Uint64(b[24:32])
	h.dispsLen = le.Uint32(b[32:36])
	h.tableLen = le.Uint32(b[36:40])
	return h, nil
}

// providerSize is the on-disk size of a Provider record: four u32
// offsets into the string arena.
const providerSize = 16

// Provider asserts that package 'Package' in repository 'Repo' installs
// executable 'Bin' under directory 'Dir'. All four fields are arena
// offsets, not Go strings -- callers resolve them against the arena
// bytes with sliceString. The zero value is never a valid Provider.
//
// Provider's memory layout is exactly four little-endian u32 words;
// providersFromBytes casts a raw byte range directly into a []Provider with no
// copy. Field values read off such a cast are only correct on
// little-endian hosts as-is -- fromLE normalizes them everywhere else.
type Provider struct {
	Repo        uint32
	PackageName uint32
	Dir         uint32
	Bin         uint32
}

func (p Provider) encode() []byte {
	var b [providerSize]byte
	le := binary.LittleEndian
	le.PutUint32(b[0:4], p.Repo)
	le.PutUint32(b[4:8], p.PackageName)
	le.PutUint32(b[8:12], p.Dir)
	le.PutUint32(b[12:16], p.Bin)
	return b[:]
}

// fromLE returns p with every field normalized from little-endian disk
// representation to host-native. On little-endian hosts this is the
// identity; it is required before a zero-copy-cast Provider's fields are
// used on a big-endian host.
func (p Provider) fromLE() Provider {
	return Provider{
		Repo:        ToLittleEndianUint32(p.Repo),
		PackageName: ToLittleEndianUint32(p.PackageName),
		Dir:         ToLittleEndianUint32(p.Dir),
		Bin:         ToLittleEndianUint32(p.Bin),
	}
}

// span is a half-open [start, end) range of offsets into the record
// array, used as the slot-table value for a distinct bin key.
const spanSize = 8

type span struct {
	start uint32
	end   uint32
}

func (s span) encode() []byte {
	var b [spanSize]byte
	le := binary.LittleEndian
	le.PutUint32(b[0:4], s.start)
	le.PutUint32(b[4:8], s.end)
	return b[:]
}

func (s span) fromLE() span {
	return span{
		start: ToLittleEndianUint32(s.start),
		end:   ToLittleEndianUint32(s.end),
	}
}

// disp is a CHD displacement pair (d1, d2) for one bucket; see phf.go.
const dispSize = 8

type disp struct {
	d1 uint32
	d2 uint32
}

func (d disp) encode() []byte {
	var b [dispSize]byte
	le := binary.LittleEndian
	le.PutUint32(b[0:4], d.d1)
	le.PutUint32(b[4:8], d.d2)
	return b[:]
}

func (d disp) fromLE() disp {
	return disp{
		d1: ToLittleEndianUint32(d.d1),
		d2: ToLittleEndianUint32(d.d2),
	}
}

// providersFromBytes casts a byte range, known to be a multiple of
// providerSize, into a []Provider with no copy. This is safe only
// because Provider is four same-sized, unpadded uint32 fields -- the Go
// memory layout of such a struct matches the packed C layout the file
// format assumes.
func providersFromBytes(b []byte) ([]Provider, error) {
	if len(b)%providerSize != 0 {
		return nil, fmt.Errorf("%w: provider array length %d not a multiple of %d", ErrCorruptIndex, len(b), providerSize)
	}
	n := len(b) / providerSize
	if n == 0 {
		return nil, nil
	}

	var out []Provider
	bh := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&out))
	sh.Data = bh.Data
	sh.Len = n
	sh.Cap = n
	return out, nil
}

// spansFromBytes casts a byte range, known to be a multiple of
// spanSize, into a []span with no copy.
func spansFromBytes(b []byte) ([]span, error) {
	if len(b)%spanSize != 0 {
		return nil, fmt.Errorf("%w: slot table length %d not a multiple of %d", ErrCorruptIndex, len(b), spanSize)
	}
	n := len(b) / spanSize
	if n == 0 {
		return nil, nil
	}

	var out []span
	bh := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&out))
	sh.Data = bh.Data
	sh.Len = n
	sh.Cap = n
	return out, nil
}

// dispsFromBytes casts a byte range, known to be a multiple of
// dispSize, into a []disp with no copy.
func dispsFromBytes(b []byte) ([]disp, error) {
	if len(b)%dispSize != 0 {
		return nil, fmt.Errorf("%w: displacement table length %d not a multiple of %d", ErrCorruptIndex, len(b), dispSize)
	}
	n := len(b) / dispSize
	if n == 0 {
		return nil, nil
	}

	var out []disp
	bh := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&out))
	sh.Data = bh.Data
	sh.Len = n
	sh.Cap = n
	return out, nil
}
