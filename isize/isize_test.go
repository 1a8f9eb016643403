package isize

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"
)

func TestUpdateConvergesTowardTrueMean(t *testing.T) {
	e := New(0)
	samples := []float64{300, 310, 290, 305, 295, 300, 308, 292}
	for _, s := range samples {
		e.Update(int(s))
	}

	wantMean, wantVariance := stat.MeanVariance(samples, nil)
	if math.Abs(e.Mean()-wantMean) > 1e-9 {
		t.Fatalf("mean = %.6f, want %.6f", e.Mean(), wantMean)
	}
	wantSigma := math.Sqrt(wantVariance)
	if math.Abs(e.Sigma()-wantSigma) > 1e-9 {
		t.Fatalf("sigma = %.6f, want %.6f", e.Sigma(), wantSigma)
	}
	if e.SampleSize() != len(samples) {
		t.Fatalf("sample size = %d, want %d", e.SampleSize(), len(samples))
	}
}

func TestUpdateRejectsChimeraGuardOutliers(t *testing.T) {
	e := New(300)
	e.Update(2000)
	e.Update(50000)
	if e.SampleSize() != 0 {
		t.Fatalf("expected chimera-distance templates to be rejected, sample size = %d", e.SampleSize())
	}
}

func TestUpdateStopsAtSampleCap(t *testing.T) {
	e := New(300)
	for i := 0; i < sampleCap+50; i++ {
		e.Update(300 + i%5)
	}
	if e.SampleSize() != sampleCap {
		t.Fatalf("expected sample size capped at %d, got %d", sampleCap, e.SampleSize())
	}
}

func TestSigmaFloorsWithFewSamples(t *testing.T) {
	e := New(300)
	if e.Sigma() != minSigma {
		t.Fatalf("expected sigma floor with zero samples, got %v", e.Sigma())
	}
	e.Update(300)
	if e.Sigma() != minSigma {
		t.Fatalf("expected sigma floor with one sample, got %v", e.Sigma())
	}
}

func TestSparklineEmptyWithNoHistory(t *testing.T) {
	e := New(300)
	if got := e.Sparkline(); got != "" {
		t.Fatalf("expected empty sparkline with no observations, got %q", got)
	}
}
