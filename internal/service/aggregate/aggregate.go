// Package aggregate computes rolling statistics over scored check-ins.
// Windows are derived values with no independent lifecycle: everything
// here is recomputed on demand and nothing is persisted.
package aggregate

import "time"

// Sample is one scored check-in. Sequences passed to this package are
// ordered newest first, matching repository read order.
type Sample struct {
	Score int
	At    time.Time
}

// Summary is the aggregate over one window.
//
// Average over an empty window is defined as 0 with Count 0; callers must
// check Count before trusting Average.
type Summary struct {
	Count           int
	Average         float64
	ResponseRatePct float64
}

// Summarize aggregates the samples falling inside the trailing window of
// windowDays ending at now. populationSize is the number of employees
// expected to respond once per day; it is supplied by the caller because
// it is not derivable from the scores alone.
func Summarize(samples []Sample, now time.Time, windowDays, populationSize int) Summary {
	since := now.AddDate(0, 0, -windowDays)

	var count int
	var sum float64
	for _, s := range samples {
		if s.At.Before(since) || s.At.After(now) {
			continue
		}
		count++
		sum += float64(s.Score)
	}

	var avg float64
	if count > 0 {
		avg = sum / float64(count)
	}

	var rate float64
	if expected := populationSize * windowDays; expected > 0 {
		rate = float64(count) / float64(expected) * 100
	}

	return Summary{Count: count, Average: avg, ResponseRatePct: rate}
}

// Half is the mean and sample count of one half of a split window.
// A half with Count 0 has Average 0 and must be excluded from delta
// computation — it is missing data, not a real decline.
type Half struct {
	Average float64
	Count   int
}

// Halves is the result of a split-window comparison. Recent covers the
// first half of a newest-first sequence, Prior the second.
type Halves struct {
	Recent Half
	Prior  Half
}

// Delta returns prior average minus recent average — positive values mean
// mood declined. ok is false when either half has no samples.
func (h Halves) Delta() (delta float64, ok bool) {
	if h.Recent.Count == 0 || h.Prior.Count == 0 {
		return 0, false
	}
	return h.Prior.Average - h.Recent.Average, true
}

// SplitHalves splits a newest-first score sequence into two equal
// contiguous halves and returns the mean of each. An odd trailing element
// is dropped so the halves stay equal.
func SplitHalves(scores []int) Halves {
	half := len(scores) / 2
	return Halves{
		Recent: meanOf(scores[:half]),
		Prior:  meanOf(scores[half : half*2]),
	}
}

func meanOf(scores []int) Half {
	if len(scores) == 0 {
		return Half{}
	}
	var sum float64
	for _, s := range scores {
		sum += float64(s)
	}
	return Half{Average: sum / float64(len(scores)), Count: len(scores)}
}

// Mean is the arithmetic mean of a score slice, 0 for an empty slice.
func Mean(scores []int) float64 {
	return meanOf(scores).Average
}
