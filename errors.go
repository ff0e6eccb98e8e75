// errors.go -- sentinel errors for the fcnf index format
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package fcnf

import "errors"

// ErrMalformedInput is returned when a build line lacks the expected
// null-separated fields (repo, package, version, path).
var ErrMalformedInput = errors.New("fcnf: malformed input line")

// ErrOffsetOverflow is returned when the string arena would grow past
// the 32-bit offset space (4 GiB).
var ErrOffsetOverflow = errors.New("fcnf: arena offset overflow")

// ErrPhfFailure is returned when the CHD builder exhausts every candidate
// hash key without finding a collision-free displacement assignment. This
// should not happen in practice; it indicates a bug or a pathological key
// set.
var ErrPhfFailure = errors.New("fcnf: failed to build perfect hash")

// ErrUnknownVersion is returned when a database's header tag does not
// match the expected version literal exactly.
var ErrUnknownVersion = errors.New("fcnf: unknown database version")

// ErrCorruptIndex is returned when a database's declared section lengths
// don't fit the byte slice it was built from, or when an arena offset
// lies past the end of the arena. An offset whose string has no newline
// terminator before the end of the arena is reported as
// ErrUnterminatedString, not ErrCorruptIndex.
var ErrCorruptIndex = errors.New("fcnf: corrupt index")

// ErrUnterminatedString is returned by the arena when an offset does not
// point at a newline-terminated string.
var ErrUnterminatedString = errors.New("fcnf: unterminated string in arena")
