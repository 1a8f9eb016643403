package driver

import (
	"github.com/luispedro/strobealign/nam"
	"github.com/luispedro/strobealign/params"
	"github.com/luispedro/strobealign/read"
)

// SeedProducer is the upstream collaborator that supplies seeds for a
// read: the strobemer index and NAM finder, kept out of scope here and
// consumed only through this interface.
type SeedProducer interface {
	Seeds(r read.Read) (nonrepetitiveFraction float64, seeds []nam.Seed)
}

// RescueSeedProducer is the secondary seed producer invoked when the
// primary producer comes back empty or too repetitive, given the
// configured rescue_cutoff.
type RescueSeedProducer interface {
	RescueSeeds(r read.Read, cutoff int) []nam.Seed
}

// nonrepetitiveFloor is the nonrepetitive_fraction threshold below
// which the rescue producer is invoked even when the primary producer
// did return seeds.
const nonrepetitiveFloor = 0.7

// ResolveSeeds runs the primary producer and, when rescue_level > 1
// and either it returned nothing or the read was too repetitive,
// replaces its output with the rescue producer's seeds. The second
// return reports whether the rescue producer fired, for the caller to
// fold into its stats.Details.NamRescue counter.
func ResolveSeeds(r read.Read, producer SeedProducer, rescue RescueSeedProducer, mp params.Mapping) ([]nam.Seed, bool) {
	fraction, seeds := producer.Seeds(r)
	usedRescue := false
	if mp.RescueLevel > 1 && (len(seeds) == 0 || fraction < nonrepetitiveFloor) && rescue != nil {
		seeds = rescue.RescueSeeds(r, mp.RescueCutoff)
		usedRescue = true
	}
	nam.SortByScoreDesc(seeds)
	return seeds, usedRescue
}
