package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/levtrader/ledger"
)

func triggerPosition(dir ledger.Direction, leverage int, entry, tp, sl float64, openedAt time.Time) *ledger.Position {
	return &ledger.Position{
		ID:              "t",
		Asset:           "BTC",
		Direction:       dir,
		Leverage:        leverage,
		EntryPrice:      entry,
		Margin:          100,
		NotionalSize:    100 * float64(leverage),
		Quantity:        100 * float64(leverage) / entry,
		TargetProfitPct: tp,
		TargetLossPct:   sl,
		OpenedAt:        openedAt,
	}
}

func TestAutoCloseReason(t *testing.T) {
	t.Parallel()

	opened := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	maxAge := 24 * time.Hour

	tests := []struct {
		name   string
		pos    *ledger.Position
		mark   float64
		now    time.Time
		reason CloseReason
		hit    bool
	}{
		{
			name:   "long_take_profit",
			pos:    triggerPosition(ledger.Long, 5, 100, 50, -30, opened),
			mark:   110, // +50% at 5x
			now:    opened.Add(time.Hour),
			reason: ReasonTakeProfit,
			hit:    true,
		},
		{
			name:   "long_stop_loss",
			pos:    triggerPosition(ledger.Long, 5, 100, 50, -30, opened),
			mark:   94, // -30% at 5x
			now:    opened.Add(time.Hour),
			reason: ReasonStopLoss,
			hit:    true,
		},
		{
			name: "short_take_profit",
			pos:  triggerPosition(ledger.Short, 3, 50, 30, -30, opened),
			mark: 45, // +30% at 3x
			now:  opened.Add(time.Hour),

			reason: ReasonTakeProfit,
			hit:    true,
		},
		{
			name:   "short_stop_loss",
			pos:    triggerPosition(ledger.Short, 3, 50, 30, -30, opened),
			mark:   55, // -30% at 3x
			now:    opened.Add(time.Hour),
			reason: ReasonStopLoss,
			hit:    true,
		},
		{
			name: "inside_targets_stays_open",
			pos:  triggerPosition(ledger.Long, 5, 100, 50, -30, opened),
			mark: 101,
			now:  opened.Add(time.Hour),
			hit:  false,
		},
		{
			name:   "time_limit",
			pos:    triggerPosition(ledger.Long, 5, 100, 50, -30, opened),
			mark:   100.5,
			now:    opened.Add(24 * time.Hour),
			reason: ReasonTimeLimit,
			hit:    true,
		},
		{
			name: "time_limit_beats_take_profit",
			// past both the profit target and the age limit; the reason
			// priority is TIME_LIMIT > TAKE_PROFIT > STOP_LOSS
			pos:    triggerPosition(ledger.Long, 5, 100, 50, -30, opened),
			mark:   120,
			now:    opened.Add(25 * time.Hour),
			reason: ReasonTimeLimit,
			hit:    true,
		},
		{
			name:   "time_limit_beats_stop_loss",
			pos:    triggerPosition(ledger.Long, 5, 100, 50, -30, opened),
			mark:   80,
			now:    opened.Add(24 * time.Hour),
			reason: ReasonTimeLimit,
			hit:    true,
		},
		{
			name:   "exact_target_closes",
			pos:    triggerPosition(ledger.Long, 5, 100, 50, -30, opened),
			mark:   110, // exactly the target
			now:    opened.Add(time.Hour),
			reason: ReasonTakeProfit,
			hit:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reason, hit := autoCloseReason(tt.pos, tt.mark, tt.now, maxAge)
			assert.Equal(t, tt.hit, hit)
			if tt.hit {
				assert.Equal(t, tt.reason, reason)
			}
		})
	}
}
