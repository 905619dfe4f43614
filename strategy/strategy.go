// Package strategy provides the pluggable drivers that decide, on each
// price tick, whether to open new simulated positions. Drivers are pure
// policy; swapping or disabling one never touches the lifecycle engine.
package strategy

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/levtrader/market"
	"github.com/rustyeddy/levtrader/sim"
)

// Noop never opens anything. Used when autonomous trading is disabled.
type Noop struct{}

func (Noop) OnTick(e *sim.Engine, tick market.Tick, now time.Time) {}

// ByName builds a driver from its config name.
func ByName(name string, cfg RandomConfig) (sim.Driver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "noop", "none":
		return Noop{}, nil

	case "random":
		return NewRandom(cfg), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, random)", name)
	}
}
