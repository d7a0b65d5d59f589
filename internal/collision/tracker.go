// Package collision detects casts that occur more than once in a collection.
package collision

import (
	"github.com/iquod/wod/errs"
)

// Tracker follows WOD unique cast numbers and the fingerprint of the record
// each came from. A uid seen again with the same fingerprint is an exact
// duplicate; seen with a different fingerprint it is a conflict, two versions
// of the same cast.
type Tracker struct {
	hashes    map[int64]uint64 // uid → record fingerprint
	uids      []int64          // first-seen order
	conflicts []int64
	dupes     int
}

// NewTracker creates a new collision tracker.
func NewTracker() *Tracker {
	return &Tracker{
		hashes: make(map[int64]uint64),
		uids:   make([]int64, 0),
	}
}

// Track records a cast.
//
// It returns errs.ErrDuplicateCast when uid was already tracked with the same
// fingerprint; the caller may drop the copy. A uid tracked again with another
// fingerprint is not an error: the conflict is recorded and the first version
// stays the reference.
func (t *Tracker) Track(uid int64, hash uint64) error {
	if prev, exists := t.hashes[uid]; exists {
		if prev == hash {
			t.dupes++
			return errs.ErrDuplicateCast
		}
		t.conflicts = append(t.conflicts, uid)

		return nil
	}

	t.hashes[uid] = hash
	t.uids = append(t.uids, uid)

	return nil
}

// HasConflict reports whether any uid was seen with two different fingerprints.
func (t *Tracker) HasConflict() bool {
	return len(t.conflicts) > 0
}

// Conflicts returns the conflicting uids, once per extra version, in the order seen.
func (t *Tracker) Conflicts() []int64 {
	return t.conflicts
}

// Duplicates returns the number of exact duplicates rejected by Track.
func (t *Tracker) Duplicates() int {
	return t.dupes
}

// UIDs returns the distinct uids in first-seen order.
func (t *Tracker) UIDs() []int64 {
	return t.uids
}

// Count returns the number of distinct uids.
func (t *Tracker) Count() int {
	return len(t.uids)
}

// Reset clears all tracked casts while keeping allocated capacity.
func (t *Tracker) Reset() {
	for k := range t.hashes {
		delete(t.hashes, k)
	}
	t.uids = t.uids[:0]
	t.conflicts = t.conflicts[:0]
	t.dupes = 0
}
