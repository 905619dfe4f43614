package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerfHistoryRecord(t *testing.T) {
	t.Parallel()

	h := newPerfHistory(50)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	s := h.Record(11250, 10000, now)
	assert.InDelta(t, 12.5, s.Pct, 1e-9)

	s = h.Record(9000, 10000, now.Add(time.Minute))
	assert.InDelta(t, -10, s.Pct, 1e-9)

	require.Len(t, h.All(), 2)
	assert.Equal(t, now, h.All()[0].Time)
}

func TestPerfHistoryRollingWindow(t *testing.T) {
	t.Parallel()

	h := newPerfHistory(50)
	now := time.Now()
	for i := 0; i < 120; i++ {
		h.Record(float64(10000+i), 10000, now.Add(time.Duration(i)*time.Second))
	}

	samples := h.All()
	require.Len(t, samples, 50)
	// oldest evicted first: the window holds the most recent 50 samples
	assert.InDelta(t, float64(70)/10000*100, samples[0].Pct, 1e-9)
	assert.InDelta(t, float64(119)/10000*100, samples[49].Pct, 1e-9)
}
