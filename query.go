// query.go -- constant-time lookup over a mapped fcnf database
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package fcnf

import (
	"bytes"
	"fmt"
	"strings"
)

// Search answers "which package provides command X" against a raw
// database byte slice 'db' (typically a memory map the caller owns for
// the lifetime of this call). It performs no I/O and makes no interior
// copies of 'db' except into the returned report string.
//
// The returned bool is true only when 'query' matches a bin key present
// in the database; a false return with a nil error is the ordinary
// "not found" outcome, not a failure. A non-nil error indicates the
// database itself is unusable -- an unrecognized version tag or a
// section layout that does not fit the supplied byte slice.
func Search(db []byte, query []byte) (string, bool, error) {
	h, err := decodeHeader(db)
	if err != nil {
		return "", false, err
	}

	rest := db[headerSize:]

	records, rest, err := takeSection(rest, h.providersLen)
	if err != nil {
		return "", false, err
	}
	dispBytes, rest, err := takeSection(rest, h.dispsLen)
	if err != nil {
		return "", false, err
	}
	slotBytes, rest, err := takeSection(rest, h.tableLen)
	if err != nil {
		return "", false, err
	}
	arena, _, err := takeSection(rest, h.stringsLen)
	if err != nil {
		return "", false, err
	}

	if h.tableLen == 0 {
		return "", false, nil
	}

	providers, err := providersFromBytes(records)
	if err != nil {
		return "", false, err
	}
	disps, err := dispsFromBytes(dispBytes)
	if err != nil {
		return "", false, err
	}
	spans, err := spansFromBytes(slotBytes)
	if err != nil {
		return "", false, err
	}

	n := len(spans)
	qh := hashKey(h.hashKey, query)
	bi := dispIndex(qh, len(disps))
	if bi < 0 || bi >= len(disps) {
		return "", false, fmt.Errorf("%w: disp index %d out of range [0, %d)", ErrCorruptIndex, bi, len(disps))
	}
	// disps is a zero-copy cast over raw database bytes, so unlike
	// phf.slot()'s in-memory p.disps, this entry needs fromLE().
	d := disps[bi].fromLE()
	slotIdx := slotFromDisp(qh, d, n)
	if slotIdx < 0 || slotIdx >= n {
		return "", false, fmt.Errorf("%w: slot %d out of range [0, %d)", ErrCorruptIndex, slotIdx, n)
	}

	sp := spans[slotIdx].fromLE()
	if sp.end <= sp.start || uint64(sp.end) > uint64(len(providers)) {
		return "", false, nil
	}

	hit := providers[sp.start:sp.end]

	first := hit[0].fromLE()
	firstBin, err := sliceString(arena, first.Bin)
	if err != nil {
		return "", false, err
	}
	if !bytes.Equal(firstBin, query) {
		return "", false, nil
	}

	report, err := formatReport(arena, query, hit)
	if err != nil {
		return "", false, err
	}
	return report, true, nil
}

// takeSection slices the next 'n' bytes off the front of 'b', returning
// the section and the remainder. An underflow is ErrCorruptIndex.
func takeSection(b []byte, n uint32) ([]byte, []byte, error) {
	if uint64(n) > uint64(len(b)) {
		return nil, nil, fmt.Errorf("%w: need %d bytes, have %d", ErrCorruptIndex, n, len(b))
	}
	return b[:n], b[n:], nil
}

// formatReport renders the matched Provider records into the report
// text described in the query engine design: a header line naming the
// query, then one two-space-indented, column-aligned line per provider.
func formatReport(arena []byte, query []byte, hit []Provider) (string, error) {
	type line struct {
		repo string
		pkg  string
		dir  string
		bin  string
	}

	lines := make([]line, len(hit))
	maxlen := 0
	for i, raw := range hit {
		p := raw.fromLE()

		repo, err := sliceString(arena, p.Repo)
		if err != nil {
			return "", err
		}
		pkg, err := sliceString(arena, p.PackageName)
		if err != nil {
			return "", err
		}
		dir, err := sliceString(arena, p.Dir)
		if err != nil {
			return "", err
		}
		bin, err := sliceString(arena, p.Bin)
		if err != nil {
			return "", err
		}

		l := line{repo: string(repo), pkg: string(pkg), dir: string(dir), bin: string(bin)}
		lines[i] = l

		if n := len(l.repo) + len(l.pkg); n > maxlen {
			maxlen = n
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s may be found in the following packages:\n", query)
	for _, l := range lines {
		pad := maxlen - len(l.repo)
		fmt.Fprintf(&sb, "  %s/%-*s\t/%s%s\n", l.repo, pad, l.pkg, l.dir, l.bin)
	}

	return sb.String(), nil
}
