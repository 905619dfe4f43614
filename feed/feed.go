// Package feed delivers external market prices to the engine. Feeds run
// entirely outside the engine lock, validate price positivity at this
// boundary, and hand ticks over as pure data.
package feed

import "github.com/rustyeddy/levtrader/market"

// TickFunc receives one validated batch of prices.
type TickFunc func(market.Tick)
