// arena.go -- append-only string interner backing the fcnf index
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package fcnf implements a compact, self-describing, memory-mappable
// index of (repository, package, directory, binary) tuples harvested
// from a package manager's file-list output, and answers "which package
// provides this command" in constant time without invoking the package
// manager.
//
// The index is a minimal perfect hash (CHD variant, see phf.go) over the
// set of distinct binary names, backed by a flat byte layout: a fixed
// header, a sorted record array, a CHD displacement table, a slot table,
// and a string arena. Build() parses a line-oriented file listing into
// this layout; Search() answers lookups directly against a borrowed byte
// slice (typically a memory map) with no interior copies.
package fcnf

import "fmt"

// arena is an append-only byte buffer that assigns a stable, 32-bit
// offset to every distinct string added to it. Each stored string is
// terminated with a newline so that offsets need no explicit length and
// the buffer stays human-inspectable.
type arena struct {
	buf     []byte
	offsets map[string]uint32
}

// maxArenaLen is the largest length an arena may grow to; offsets are
// 32-bit, so the buffer can never exceed 2^32 bytes.
const maxArenaLen = 1 << 32

// newArena returns an empty arena.
func newArena() *arena {
	return &arena{
		offsets: make(map[string]uint32),
	}
}

// add interns 'b' into the arena and returns its offset. Re-adding
// previously seen content returns the original offset; insertion order
// of distinct strings is preserved, so offsets are strictly increasing
// as new content is added.
func (a *arena) add(b []byte) (uint32, error) {
	if off, ok := a.offsets[string(b)]; ok {
		return off, nil
	}

	off := uint64(len(a.buf))
	grown := off + uint64(len(b)) + 1
	if grown > maxArenaLen {
		return 0, fmt.Errorf("%w: arena would grow to %d bytes", ErrOffsetOverflow, grown)
	}

	a.buf = append(a.buf, b...)
	a.buf = append(a.buf, '\n')

	s := string(b)
	a.offsets[s] = uint32(off)
	return uint32(off), nil
}

// get returns the slice of bytes stored at 'off', up to but not
// including the terminating newline.
func (a *arena) get(off uint32) ([]byte, error) {
	return sliceString(a.buf, off)
}

// bytes returns an immutable view of the underlying byte buffer. The
// returned slice must not be modified by the caller.
func (a *arena) bytes() []byte {
	return a.buf
}

// sliceString returns the newline-delimited string starting at 'off'
// within 'buf'. It is shared between the in-memory arena (build time)
// and the mapped arena section (query time), which is why it takes a
// plain byte slice rather than an *arena.
func sliceString(buf []byte, off uint32) ([]byte, error) {
	if uint64(off) > uint64(len(buf)) {
		return nil, fmt.Errorf("%w: offset %d past end of arena (%d bytes)", ErrCorruptIndex, off, len(buf))
	}

	rest := buf[off:]
	for i, c := range rest {
		if c == '\n' {
			return rest[:i], nil
		}
	}

	return nil, ErrUnterminatedString
}
