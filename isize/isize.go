// Package isize implements the Insert-Size Estimator of :
// an online mean/variance estimator fed by properly paired alignments
// during mapping, used downstream by the Joint-Scorer's pairing model.
package isize

import (
	"fmt"
	"log"
	"math"

	"github.com/guptarohit/asciigraph"
)

const (
	chimeraGuard = 2000
	sampleCap    = 400
	minSigma     = 1e-6
)

// Estimator tracks the running mean and variance of proper-pair insert
// sizes via Welford's online algorithm, updated incrementally as each
// new proper pair is observed.
type Estimator struct {
	mu         float64
	v          float64 // sum of squared deviations from the mean
	sampleSize int
	history    []float64
}

// New returns an estimator primed with a prior mean, as strobealign
// seeds isize stats from a quick first pass before refining online.
func New(priorMu float64) *Estimator {
	return &Estimator{mu: priorMu}
}

// Update folds one observed template length into the running
// statistics. Observations at or beyond the chimera guard distance are
// treated as structural outliers and never reach the estimator, and
// the estimator stops learning once it has accumulated sampleCap
// observations so a long run doesn't dilute early convergence.
func (e *Estimator) Update(templateLen int) {
	if templateLen < 0 || templateLen >= chimeraGuard {
		return
	}
	if e.sampleSize >= sampleCap {
		return
	}
	e.sampleSize++
	x := float64(templateLen)
	delta := x - e.mu
	e.mu += delta / float64(e.sampleSize)
	delta2 := x - e.mu
	e.v += delta * delta2
	e.history = append(e.history, x)

	if e.mu < 0 || e.v < 0 {
		log.Printf("isize: numeric anomaly after update (mu=%.3f, sse=%.3f, n=%d)", e.mu, e.v, e.sampleSize)
	}
}

// Mean returns the current running mean insert size.
func (e *Estimator) Mean() float64 {
	return e.mu
}

// Sigma returns the current running standard deviation. With fewer
// than two samples it returns a small positive floor rather than zero,
// so downstream log-density scoring never divides by zero.
func (e *Estimator) Sigma() float64 {
	if e.sampleSize < 2 {
		return minSigma
	}
	variance := e.v / float64(e.sampleSize-1)
	if variance <= 0 {
		return minSigma
	}
	return math.Sqrt(variance)
}

// SampleSize reports how many observations have been folded in.
func (e *Estimator) SampleSize() int {
	return e.sampleSize
}

// Sparkline renders the accumulated insert-size history as a terminal
// plot, a quick operator-facing sanity check on the fitted curve.
func (e *Estimator) Sparkline() string {
	if len(e.history) == 0 {
		return ""
	}
	return fmt.Sprintf("insert size (n=%d, mu=%.1f, sigma=%.1f)\n%s",
		e.sampleSize, e.mu, e.Sigma(),
		asciigraph.Plot(e.history, asciigraph.Height(10), asciigraph.Precision(0)))
}
