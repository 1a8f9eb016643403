// Package nam implements the Seed (NAM) data type and its Orientation
// Verifier. A NAM ("Non-overlapping Approximate Match") is a seed hit
// produced upstream by the strobemer index; this package never
// constructs one from scratch, only verifies and mutates the ones it
// is handed.
package nam

import "golang.org/x/exp/slices"

// Seed is a single NAM: a half-open reference span matched against a
// half-open query span, plus the bookkeeping the drivers need to rank
// and dedupe it. RefEnd > RefStart and QueryEnd > QueryStart always
// hold; NamID is unique per read and is the memoization key used by the
// full joint-search path when seeds are mutated in place during
// orientation verification.
type Seed struct {
	RefID      int
	RefStart   int
	RefEnd     int
	QueryStart int
	QueryEnd   int
	IsRC       bool
	Score      int
	NHits      int
	NamID      int
}

// RefSpan returns the length of the seed's reference span.
func (s Seed) RefSpan() int {
	return s.RefEnd - s.RefStart
}

// QuerySpan returns the length of the seed's query span.
func (s Seed) QuerySpan() int {
	return s.QueryEnd - s.QueryStart
}

// Dummy is the sentinel seed the Joint-Scorer (package pairing) emits
// to mean "rescue the other mate". RefStart == -1 identifies it; no
// other field is meaningful.
func Dummy() Seed {
	return Seed{RefStart: -1}
}

// IsDummy reports whether s is the rescue-sentinel seed.
func (s Seed) IsDummy() bool {
	return s.RefStart < 0
}

// SortByScoreDesc sorts seeds by Score descending, the order the
// drivers expect seeds in before applying the dropoff/max-tries policy.
func SortByScoreDesc(seeds []Seed) {
	slices.SortFunc(seeds, func(a, b Seed) int {
		return b.Score - a.Score
	})
}
