package aggregate

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSummarize_EmptySequence(t *testing.T) {
	t.Parallel()

	got := Summarize(nil, time.Now(), 7, 10)
	if got.Count != 0 {
		t.Errorf("count = %d, want 0", got.Count)
	}
	if got.Average != 0 {
		t.Errorf("average = %v, want 0 (defined value, no division by zero)", got.Average)
	}
	if got.ResponseRatePct != 0 {
		t.Errorf("response rate = %v, want 0", got.ResponseRatePct)
	}
}

func TestSummarize_WindowFiltersOldSamples(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	samples := []Sample{
		{Score: 4, At: now.AddDate(0, 0, -1)},
		{Score: 2, At: now.AddDate(0, 0, -3)},
		{Score: 5, At: now.AddDate(0, 0, -20)}, // outside 7-day window
	}

	got := Summarize(samples, now, 7, 1)
	if got.Count != 2 {
		t.Fatalf("count = %d, want 2", got.Count)
	}
	if !almostEqual(got.Average, 3.0) {
		t.Errorf("average = %v, want 3.0", got.Average)
	}
	// 2 responses / (1 employee × 7 days) ≈ 28.57%
	if !almostEqual(got.ResponseRatePct, 2.0/7.0*100) {
		t.Errorf("response rate = %v, want %v", got.ResponseRatePct, 2.0/7.0*100)
	}
}

func TestSummarize_ResponseRateUsesPopulation(t *testing.T) {
	t.Parallel()

	now := time.Now()
	samples := make([]Sample, 35)
	for i := range samples {
		samples[i] = Sample{Score: 3, At: now.Add(-time.Duration(i) * time.Hour)}
	}

	// 35 responses / (10 employees × 7 days) = 50%
	got := Summarize(samples, now, 7, 10)
	if !almostEqual(got.ResponseRatePct, 50) {
		t.Errorf("response rate = %v, want 50", got.ResponseRatePct)
	}
}

func TestSplitHalves(t *testing.T) {
	t.Parallel()

	// Newest first: recent half [2,3], prior half [4,4].
	h := SplitHalves([]int{2, 3, 4, 4})
	if !almostEqual(h.Recent.Average, 2.5) {
		t.Errorf("recent average = %v, want 2.5", h.Recent.Average)
	}
	if !almostEqual(h.Prior.Average, 4.0) {
		t.Errorf("prior average = %v, want 4.0", h.Prior.Average)
	}

	delta, ok := h.Delta()
	if !ok {
		t.Fatal("delta not ok, want ok")
	}
	if !almostEqual(delta, 1.5) {
		t.Errorf("delta = %v, want 1.5", delta)
	}
}

func TestSplitHalves_OddTrailingElementDropped(t *testing.T) {
	t.Parallel()

	h := SplitHalves([]int{5, 5, 1, 1, 3})
	if h.Recent.Count != 2 || h.Prior.Count != 2 {
		t.Errorf("counts = %d/%d, want 2/2", h.Recent.Count, h.Prior.Count)
	}
	if !almostEqual(h.Recent.Average, 5) || !almostEqual(h.Prior.Average, 1) {
		t.Errorf("averages = %v/%v, want 5/1", h.Recent.Average, h.Prior.Average)
	}
}

func TestSplitHalves_EmptyHalfExcludedFromDelta(t *testing.T) {
	t.Parallel()

	h := SplitHalves([]int{4})
	if h.Recent.Count != 0 || h.Prior.Count != 0 {
		t.Fatalf("counts = %d/%d, want 0/0", h.Recent.Count, h.Prior.Count)
	}
	if _, ok := h.Delta(); ok {
		t.Error("delta ok = true for empty halves, want false (missing data is not a decline)")
	}
}

func TestMean_Empty(t *testing.T) {
	t.Parallel()

	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
}
