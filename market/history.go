package market

import "time"

// PricePoint is a single observation in an asset's price series.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// History keeps a bounded per-asset series of observed prices. Once a series
// reaches capacity the oldest point is evicted first.
//
// History is not synchronized; the engine mutates it under its own lock.
type History struct {
	capacity int
	series   map[string][]PricePoint
}

func NewHistory(capacity int) *History {
	return &History{
		capacity: capacity,
		series:   make(map[string][]PricePoint),
	}
}

// Record appends an observation to the asset's series. Price positivity is
// the caller's responsibility.
func (h *History) Record(asset string, price float64, now time.Time) {
	s := append(h.series[asset], PricePoint{Time: now, Price: price})
	if len(s) > h.capacity {
		s = s[len(s)-h.capacity:]
	}
	h.series[asset] = s
}

// Series returns a copy of the asset's series, oldest first.
func (h *History) Series(asset string) []PricePoint {
	s := h.series[asset]
	if s == nil {
		return nil
	}
	out := make([]PricePoint, len(s))
	copy(out, s)
	return out
}

// Snapshot returns a copy of every series, keyed by asset.
func (h *History) Snapshot() map[string][]PricePoint {
	out := make(map[string][]PricePoint, len(h.series))
	for asset := range h.series {
		out[asset] = h.Series(asset)
	}
	return out
}
