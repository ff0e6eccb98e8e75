// rng.go -- deterministic hash-key generator for the PHF builder
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package fcnf

import "math/rand"

// fixedSeed is the constant every PHF build seeds its candidate-key
// generator from. It is not a secret and not mutable state -- a build
// over a given key set always tries the same sequence of HashKeys,
// which is what makes the on-disk file a deterministic function of the
// input stream (see phf.go).
const fixedSeed = 1234567890

// hashKeyGen draws successive candidate PHF hash keys in a fixed,
// reproducible sequence.
type hashKeyGen struct {
	r *rand.Rand
}

func newHashKeyGen() *hashKeyGen {
	return &hashKeyGen{r: rand.New(rand.NewSource(fixedSeed))}
}

// next returns the next candidate HashKey in the sequence.
func (h *hashKeyGen) next() uint64 {
	return h.r.Uint64()
}
