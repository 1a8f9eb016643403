// Package params holds the immutable configuration bundles: alignment
// scoring parameters and per-run mapping parameters. Both are
// read-only once constructed and safe to share across concurrently
// running drivers.
package params

// Alignment carries the scoring constants the external aligner kernel
// (package alignkernel) and the Extender/Rescuer use.
type Alignment struct {
	Match     int
	Mismatch  int
	GapOpen   int
	GapExtend int
	EndBonus  int
}

// DefaultAlignment mirrors strobealign's default scoring scheme.
func DefaultAlignment() Alignment {
	return Alignment{
		Match:     2,
		Mismatch:  8,
		GapOpen:   12,
		GapExtend: 1,
		EndBonus:  10,
	}
}

// SecondaryDropoff is 2*mismatch + gap_open, the score-gap budget a
// secondary alignment or pair is allowed relative to the best one.
func (a Alignment) SecondaryDropoff() int {
	return 2*a.Mismatch + a.GapOpen
}

// Mapping carries the per-run heuristics the core is configured with.
type Mapping struct {
	DropoffThreshold float64
	MaxTries         int
	MaxSecondary     int
	RescueLevel      int
	RescueCutoff     int
	IsSAMOut         bool
}

// DefaultMapping mirrors strobealign's default mapping parameters.
func DefaultMapping() Mapping {
	return Mapping{
		DropoffThreshold: 0.5,
		MaxTries:         20,
		MaxSecondary:     0,
		RescueLevel:      2,
		RescueCutoff:     1000,
		IsSAMOut:         true,
	}
}
