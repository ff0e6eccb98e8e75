// phf.go -- CHD (Compress-Hash-Displace) minimal perfect hash builder
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package fcnf

import "sort"

// lambda is the target average bucket occupancy; the bucket count is
// ceil(N/lambda).
const lambda = 5

// maxPhfAttempts bounds the number of candidate HashKeys the builder
// will try before giving up. A failure this deep would indicate a bug
// rather than bad luck -- for any real key set the first handful of
// candidates succeed.
const maxPhfAttempts = 10000

// phf is a built CHD minimal perfect hash over a fixed set of N keys: a
// HashKey, a displacement table of B = ceil(N/lambda) entries, and a
// slot map that is a permutation of 0..N. Lookup of a key present at
// build time resolves to a unique slot in O(1); lookup of an absent key
// resolves to some slot (not necessarily empty), so query.go must still
// verify the hit.
type phf struct {
	key       uint64
	disps     []disp
	slotToKey []int
	n         int
}

// buildPHF constructs a CHD minimal perfect hash over 'keys'. Keys must
// be distinct; the caller (writer.go) is responsible for deduplication.
func buildPHF(keys [][]byte) (*phf, error) {
	n := len(keys)
	if n == 0 {
		return &phf{}, nil
	}

	b := (n + lambda - 1) / lambda
	gen := newHashKeyGen()

	for attempt := 0; attempt < maxPhfAttempts; attempt++ {
		key := gen.next()
		if p, ok := tryBuildPHF(key, keys, n, b); ok {
			return p, nil
		}
	}

	return nil, ErrPhfFailure
}

// bucket groups the indices (into 'keys') of every key whose g-word
// hashes to the same value modulo B.
type bucket struct {
	idx     int
	members []int
}

// tryBuildPHF attempts a single HashKey trial: partition keys into
// buckets, process them largest-first, and search for a displacement
// pair per bucket that leaves every member's candidate slot
// collision-free against both the bucket itself and every
// previously-committed bucket.
func tryBuildPHF(key uint64, keys [][]byte, n, b int) (*phf, bool) {
	hashes := make([]phfHashes, n)
	all := make([]bucket, b)
	for i := range all {
		all[i].idx = i
	}
	for i, k := range keys {
		h := hashKey(key, k)
		hashes[i] = h

		bi := int(h.g % uint32(b))
		all[bi].members = append(all[bi].members, i)
	}

	// all is already in ascending bucket-index order, so the stable sort
	// below breaks size ties by ascending index -- never by map iteration
	// order, which Go deliberately randomizes per process.
	ordered := make([]*bucket, 0, b)
	for i := range all {
		if len(all[i].members) > 0 {
			ordered = append(ordered, &all[i])
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].members) > len(ordered[j].members)
	})

	occupied := newbitVector(uint64(n))
	claimGen := make([]uint32, n)
	var curGen uint32

	disps := make([]disp, b)
	slotToKey := make([]int, n)
	for i := range slotToKey {
		slotToKey[i] = -1
	}

	slots := make([]uint32, 0, lambda*2)

	for _, bk := range ordered {
		found := false

	search:
		for d1 := uint32(0); d1 < uint32(n); d1++ {
			for d2 := uint32(0); d2 < uint32(n); d2++ {
				curGen++
				slots = slots[:0]
				ok := true

				for _, mi := range bk.members {
					h := hashes[mi]
					s := d2 + h.f1*d1 + h.f2
					slot := uint64(s) % uint64(n)

					if occupied.IsSet(slot) || claimGen[slot] == curGen {
						ok = false
						break
					}
					claimGen[slot] = curGen
					slots = append(slots, uint32(slot))
				}

				if !ok {
					continue
				}

				for i, mi := range bk.members {
					slot := uint64(slots[i])
					occupied.Set(slot)
					slotToKey[slot] = mi
				}
				disps[bk.idx] = disp{d1: d1, d2: d2}
				found = true
				break search
			}
		}

		if !found {
			return nil, false
		}
	}

	return &phf{key: key, disps: disps, slotToKey: slotToKey, n: n}, true
}

// slot computes the candidate slot for 'data' under this PHF. The
// result is meaningful only when 0 <= slot < n; callers must still
// confirm a hit by comparing the stored key, since a query for a key
// absent from the build set resolves to some slot regardless.
func (p *phf) slot(data []byte) int {
	if p.n == 0 {
		return -1
	}
	h := hashKey(p.key, data)
	bi := dispIndex(h, len(p.disps))
	// p.disps is a plain in-memory slice built by tryBuildPHF, not a
	// byte-cast view, so its fields are already host-native -- unlike
	// query.go's decoded disps, it needs no fromLE() normalization.
	return slotFromDisp(h, p.disps[bi], p.n)
}

// dispIndex returns the bucket index a key's g-word selects into a
// displacement table of the given length. Shared by the builder and
// the query engine so the two never drift apart on how a key maps to
// its displacement pair.
func dispIndex(h phfHashes, numDisps int) int {
	return int(h.g % uint32(numDisps))
}

// slotFromDisp applies a key's hashes and a (already host-native)
// displacement pair to compute its candidate slot in a table of size n.
func slotFromDisp(h phfHashes, d disp, n int) int {
	s := d.d2 + h.f1*d.d1 + h.f2
	return int(uint64(s) % uint64(n))
}
