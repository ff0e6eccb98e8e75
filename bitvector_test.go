// bitvector_test.go -- test suite for bitvector

package fcnf

import (
	"fmt"
	"runtime"
	"testing"
)

func newAsserter(t *testing.T) func(cond bool, msg string, args ...interface{}) {
	return func(cond bool, msg string, args ...interface{}) {
		if cond {
			return
		}

		_, file, line, ok := runtime.Caller(1)
		if !ok {
			file = "???"
			line = 0
		}

		s := fmt.Sprintf(msg, args...)
		t.Fatalf("%s: %d: Assertion failed: %s\n", file, line, s)
	}
}

func Test0(t *testing.T) {
	assert := newAsserter(t)

	bv := newbitVector(100)
	assert(bv.Size() == 128, "size mismatch; exp 128, saw %d", bv.Size())

	var i uint64
	for i = 0; i < bv.Size(); i++ {
		if 1 == (i & 1) {
			bv.Set(i)
		}
	}

	for i = 0; i < bv.Size(); i++ {
		if 1 == (i & 1) {
			assert(bv.IsSet(i), "%d not set", i)
		} else {
			assert(!bv.IsSet(i), "%d is set", i)
		}
	}
}

func TestReset(t *testing.T) {
	assert := newAsserter(t)

	bv := newbitVector(200)
	for i := uint64(0); i < bv.Size(); i++ {
		bv.Set(i)
	}

	bv.Reset()
	for i := uint64(0); i < bv.Size(); i++ {
		assert(!bv.IsSet(i), "%d is set after reset", i)
	}
}

func TestSmallSize(t *testing.T) {
	assert := newAsserter(t)

	bv := newbitVector(1)
	assert(bv.Size() == 64, "size mismatch; exp 64, saw %d", bv.Size())
}
