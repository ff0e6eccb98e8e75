// index_test.go -- end-to-end Build/Search round-trip tests

package fcnf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

const smallFixture = "" +
	"core\x00dash\x001.0-1\x00usr/bin/dash\n" +
	"core\x00dash\x001.0-1\x00usr/share/man/man1/dash.1\n" +
	"core\x00diffutils\x003.0-1\x00usr/bin/diff\n" +
	"core\x00diffutils\x003.0-1\x00usr/bin/diff3\n" +
	"core\x00dnssec-anchors\x001-1\x00usr/bin/dnssec-anchors\n" +
	"core\x00tree\x001-1\x00usr/bin/tree\n" +
	"community\x00weechat\x002-1\x00usr/bin/weechat-headless\n" +
	"core\x00filesystem\x001-1\x00etc/ca-certificates/trust-source/anchors/\n" +
	"core\x00filesystem\x001-1\x00etc/ca-certificates/trust-source/anchors/trusted-key.key\n"

func buildFixture(t *testing.T, fixture string) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Build(strings.NewReader(fixture), &buf); err != nil {
		t.Fatalf("build failed: %s", err)
	}
	return buf.Bytes()
}

func TestEndToEndDash(t *testing.T) {
	assert := newAsserter(t)

	db := buildFixture(t, smallFixture)
	report, found, err := Search(db, []byte("dash"))
	assert(err == nil, "search error: %s", err)
	assert(found, "expected dash to be found")
	assert(report == "dash may be found in the following packages:\n  core/dash\t/usr/bin/dash\n",
		"unexpected report: %q", report)
}

func TestEndToEndDiff(t *testing.T) {
	assert := newAsserter(t)

	db := buildFixture(t, smallFixture)
	report, found, err := Search(db, []byte("diff"))
	assert(err == nil, "search error: %s", err)
	assert(found, "expected diff to be found")
	assert(report == "diff may be found in the following packages:\n  core/diffutils\t/usr/bin/diff\n",
		"unexpected report: %q", report)
}

func TestEndToEndDiff3(t *testing.T) {
	assert := newAsserter(t)

	db := buildFixture(t, smallFixture)
	report, found, err := Search(db, []byte("diff3"))
	assert(err == nil, "search error: %s", err)
	assert(found, "expected diff3 to be found")
	assert(report == "diff3 may be found in the following packages:\n  core/diffutils\t/usr/bin/diff3\n",
		"unexpected report: %q", report)
}

func TestEndToEndWeechatHeadless(t *testing.T) {
	assert := newAsserter(t)

	db := buildFixture(t, smallFixture)
	report, found, err := Search(db, []byte("weechat-headless"))
	assert(err == nil, "search error: %s", err)
	assert(found, "expected weechat-headless to be found")
	assert(report == "weechat-headless may be found in the following packages:\n  community/weechat\t/usr/bin/weechat-headless\n",
		"unexpected report: %q", report)
}

func TestEndToEndNotUnderBin(t *testing.T) {
	assert := newAsserter(t)

	db := buildFixture(t, smallFixture)
	_, found, err := Search(db, []byte("trusted-key.key"))
	assert(err == nil, "search error: %s", err)
	assert(!found, "expected trusted-key.key to be not found (not under /bin/)")
}

func TestEndToEndNegativeClosure(t *testing.T) {
	assert := newAsserter(t)

	db := buildFixture(t, smallFixture)

	queries := [][]byte{
		[]byte(""),
		{0},
		[]byte("\n"),
		[]byte(strings.Repeat("a-long-name-", 8000)),
	}

	for _, q := range queries {
		_, found, err := Search(db, q)
		assert(err == nil, "search error for %q: %s", q, err)
		assert(!found, "expected %q to be not found", q)
	}
}

func TestBuildMalformedLine(t *testing.T) {
	assert := newAsserter(t)

	var buf bytes.Buffer
	err := Build(strings.NewReader("core\x00onlytwo\n"), &buf)
	assert(err == ErrMalformedInput, "expected ErrMalformedInput, saw %v", err)
}

// TestBuildMalformedBlankLine checks that a blank line is fatal exactly
// like any other line missing its null-separated fields -- Build carves
// out no exemption for it.
func TestBuildMalformedBlankLine(t *testing.T) {
	assert := newAsserter(t)

	var buf bytes.Buffer
	err := Build(strings.NewReader("core\x00dash\x001.0-1\x00usr/bin/dash\n\ncore\x00tree\x001-1\x00usr/bin/tree\n"), &buf)
	assert(err == ErrMalformedInput, "expected ErrMalformedInput, saw %v", err)
}

// TestBuildDeterministic is the Determinism testable property: building
// the same input byte stream twice must produce byte-identical output.
// This is the test that would have caught bucket-processing order
// leaking from Go's randomized map iteration instead of a fixed,
// ascending-bucket-index tie-break.
func TestBuildDeterministic(t *testing.T) {
	assert := newAsserter(t)

	var fixture strings.Builder
	for i := 0; i < 2000; i++ {
		fmt.Fprintf(&fixture, "repo%d\x00pkg%d\x001-1\x00usr/bin/bin-%d\n", i%7, i, i)
	}
	src := fixture.String()

	var a, b bytes.Buffer
	assert(Build(strings.NewReader(src), &a) == nil, "first build failed")
	assert(Build(strings.NewReader(src), &b) == nil, "second build failed")
	assert(bytes.Equal(a.Bytes(), b.Bytes()), "two builds of the same input produced different databases")
}

func TestSearchUnknownVersion(t *testing.T) {
	assert := newAsserter(t)

	db := buildFixture(t, smallFixture)
	bad := make([]byte, len(db))
	copy(bad, db)
	bad[0] ^= 0xff

	_, _, err := Search(bad, []byte("dash"))
	assert(errors.Is(err, ErrUnknownVersion), "expected ErrUnknownVersion, saw %v", err)
}

func TestSearchTruncated(t *testing.T) {
	assert := newAsserter(t)

	db := buildFixture(t, smallFixture)
	truncated := db[:len(db)-8]

	_, _, err := Search(truncated, []byte("dash"))
	assert(err != nil, "expected an error on truncated database")
}

// TestPaddingAlignment exercises the column-padding rule directly:
// the widest repo/package combination among a query's providers sets
// the padding for every line of that query's report.
func TestPaddingAlignment(t *testing.T) {
	assert := newAsserter(t)

	fixture := "" +
		"core\x00binutils\x001-1\x00usr/bin/ld\n" +
		"extra-long-repo-name\x00binutils\x001-1\x00usr/bin/ld\n" +
		"aur\x00ld-wrapper\x001-1\x00usr/bin/ld\n"

	db := buildFixture(t, fixture)
	report, found, err := Search(db, []byte("ld"))
	assert(err == nil, "search error: %s", err)
	assert(found, "expected ld to be found")

	lines := strings.Split(strings.TrimRight(report, "\n"), "\n")
	assert(len(lines) == 4, "expected header + 3 provider lines, saw %d", len(lines))

	tabCol := -1
	for _, l := range lines[1:] {
		i := strings.IndexByte(l, '\t')
		assert(i > 0, "no tab in line %q", l)
		if tabCol == -1 {
			tabCol = i
		}
		assert(i == tabCol, "misaligned tab column in line %q: exp %d, saw %d", l, tabCol, i)
	}
}
