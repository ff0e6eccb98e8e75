// writer.go -- index builder: line stream -> fcnf database
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package fcnf

import (
	"bufio"
	"bytes"
	"io"
	"sort"
	"strings"
)

// buildRecord is a Provider still holding its arena offsets plus the
// resolved bin bytes needed to sort and group by key; it never outlives
// Build().
type buildRecord struct {
	p   Provider
	bin []byte
}

// Build consumes a line-oriented file listing from 'src' -- one
// "repo\x00package\x00version\x00path" tuple per line -- and writes a
// complete fcnf database to 'sink' in a single pass, with no seeking.
//
// A line whose path is a directory, has no '/', or whose directory part
// does not end in "/bin/" is silently ignored; this is the
// filter that defines "executable provider". A line that lacks all four
// null-separated fields is fatal: Build returns ErrMalformedInput and
// writes nothing further. I/O errors from 'src' or 'sink' propagate
// directly, unwrapped, per Go convention for composed io.Reader/Writer
// failures.
//
// Build never partially commits to 'sink' against a persistent
// identity: on error, whatever bytes were already written are the
// caller's to discard (e.g. a temp file the caller created and must
// remove).
func Build(src io.Reader, sink io.Writer) error {
	a := newArena()
	var recs []buildRecord

	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		fields := strings.SplitN(line, "\x00", 4)
		if len(fields) != 4 {
			return ErrMalformedInput
		}

		repo, pkg, path := fields[0], fields[1], fields[3]
		// fields[2] is the version; read and discarded per spec.

		if strings.HasSuffix(path, "/") {
			continue
		}

		i := strings.LastIndexByte(path, '/')
		if i < 0 {
			continue
		}

		dir, bin := path[:i+1], path[i+1:]
		if !strings.HasSuffix(dir, "/bin/") {
			continue
		}

		repoOff, err := a.add([]byte(repo))
		if err != nil {
			return err
		}
		pkgOff, err := a.add([]byte(pkg))
		if err != nil {
			return err
		}
		dirOff, err := a.add([]byte(dir))
		if err != nil {
			return err
		}
		binOff, err := a.add([]byte(bin))
		if err != nil {
			return err
		}

		recs = append(recs, buildRecord{
			p: Provider{
				Repo:        repoOff,
				PackageName: pkgOff,
				Dir:         dirOff,
				Bin:         binOff,
			},
			bin: a.bytes()[binOff : binOff+uint32(len(bin))],
		})
	}
	if err := sc.Err(); err != nil {
		return err
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return bytes.Compare(recs[i].bin, recs[j].bin) < 0
	})

	distinct := make([][]byte, 0, len(recs))
	spans := make([]span, 0, len(recs))
	for i := 0; i < len(recs); {
		j := i + 1
		for j < len(recs) && bytes.Equal(recs[j].bin, recs[i].bin) {
			j++
		}
		distinct = append(distinct, recs[i].bin)
		spans = append(spans, span{start: uint32(i), end: uint32(j)})
		i = j
	}

	p, err := buildPHF(distinct)
	if err != nil {
		return err
	}

	slotSpans := make([]span, len(p.slotToKey))
	for slot, keyIdx := range p.slotToKey {
		slotSpans[slot] = spans[keyIdx]
	}

	recordBytes := make([]byte, 0, len(recs)*providerSize)
	for _, r := range recs {
		recordBytes = append(recordBytes, r.p.encode()...)
	}

	dispBytes := make([]byte, 0, len(p.disps)*dispSize)
	for _, d := range p.disps {
		dispBytes = append(dispBytes, d.encode()...)
	}

	slotBytes := make([]byte, 0, len(slotSpans)*spanSize)
	for _, s := range slotSpans {
		slotBytes = append(slotBytes, s.encode()...)
	}

	arenaBytes := a.bytes()

	h := &header{
		version:      version,
		providersLen: uint32(len(recordBytes)),
		stringsLen:   uint32(len(arenaBytes)),
		hashKey:      p.key,
		dispsLen:     uint32(len(dispBytes)),
		tableLen:     uint32(len(slotBytes)),
	}

	if err := writeAll(sink, h.encode()); err != nil {
		return err
	}
	if err := writeAll(sink, recordBytes); err != nil {
		return err
	}
	if err := writeAll(sink, dispBytes); err != nil {
		return err
	}
	if err := writeAll(sink, slotBytes); err != nil {
		return err
	}
	if err := writeAll(sink, arenaBytes); err != nil {
		return err
	}

	return nil
}
