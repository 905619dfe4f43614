package sim

import "time"

// PerfSample is one observation of portfolio performance relative to the
// initial balance.
type PerfSample struct {
	Time time.Time `json:"time"`
	Pct  float64   `json:"performancePct"`
}

// perfHistory is a rolling window of per-tick performance samples: one
// sample is appended per tick pass and the oldest is evicted past capacity.
// This is deliberately the only retention policy; there is no daily-upsert
// variant.
type perfHistory struct {
	capacity int
	samples  []PerfSample
}

func newPerfHistory(capacity int) *perfHistory {
	return &perfHistory{capacity: capacity}
}

// Record derives the performance percentage from total portfolio value and
// appends it. totalValue is cash plus mark-to-market; realized P&L is
// already folded into cash and must not be added again.
func (h *perfHistory) Record(totalValue, initialBalance float64, now time.Time) PerfSample {
	s := PerfSample{
		Time: now,
		Pct:  (totalValue - initialBalance) / initialBalance * 100,
	}
	h.samples = append(h.samples, s)
	if len(h.samples) > h.capacity {
		h.samples = h.samples[len(h.samples)-h.capacity:]
	}
	return s
}

func (h *perfHistory) All() []PerfSample {
	out := make([]PerfSample, len(h.samples))
	copy(out, h.samples)
	return out
}
