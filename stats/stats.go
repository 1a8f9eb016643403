// Package stats holds the purely observational Details/Statistics
// counters. They accumulate during a driver run and are merged by the
// caller; nothing in this package changes alignment behavior.
package stats

// Details accumulates per-read (or per-mate) counters for one
// alignment attempt.
type Details struct {
	Nams            int
	NamRescue       bool
	NamInconsistent int
	TriedAlignment  int
	Gapped          int
	MateRescue      int
}

// Add merges another Details into d, accumulating every counter.
func (d *Details) Add(other Details) {
	d.Nams += other.Nams
	if other.NamRescue {
		d.NamRescue = true
	}
	d.NamInconsistent += other.NamInconsistent
	d.TriedAlignment += other.TriedAlignment
	d.Gapped += other.Gapped
	d.MateRescue += other.MateRescue
}
