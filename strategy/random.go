package strategy

import (
	"math/rand/v2"
	"sort"
	"time"

	"github.com/rustyeddy/levtrader/ledger"
	"github.com/rustyeddy/levtrader/market"
	"github.com/rustyeddy/levtrader/sim"
)

// RandomConfig bounds the randomized position parameters.
type RandomConfig struct {
	// TriggerProbability is the chance per tick that a new position is
	// attempted, in [0,1].
	TriggerProbability float64

	MaxOpenPositions int

	MinLeverage int
	MaxLeverage int

	// Profit target is drawn from [ProfitMin, ProfitMax]; the loss target
	// from [LossMin, LossMax] and negated.
	ProfitMin float64
	ProfitMax float64
	LossMin   float64
	LossMax   float64

	// MarginFraction of current cash is reserved per position.
	MarginFraction float64

	// Seed pins the RNG for reproducible runs; 0 seeds from entropy.
	Seed uint64
}

func DefaultRandomConfig() RandomConfig {
	return RandomConfig{
		TriggerProbability: 0.3,
		MaxOpenPositions:   3,
		MinLeverage:        2,
		MaxLeverage:        10,
		ProfitMin:          20,
		ProfitMax:          80,
		LossMin:            10,
		LossMax:            40,
		MarginFraction:     0.1,
	}
}

// Random opens positions with randomized direction, leverage and targets,
// one at most per tick, capped by MaxOpenPositions.
type Random struct {
	cfg RandomConfig
	rng *rand.Rand
}

func NewRandom(cfg RandomConfig) *Random {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Random{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(seed, seed)),
	}
}

// OnTick runs outside the engine lock and may race benignly with manual
// opens: the engine re-checks funds under its own lock, and an
// insufficient-funds skip is the expected best-effort outcome.
func (d *Random) OnTick(e *sim.Engine, tick market.Tick, now time.Time) {
	if len(tick) == 0 {
		return
	}
	if e.OpenCount() >= d.cfg.MaxOpenPositions {
		return
	}
	if d.rng.Float64() >= d.cfg.TriggerProbability {
		return
	}

	// sorted for a deterministic draw under a pinned seed
	assets := tick.Assets()
	sort.Strings(assets)
	asset := assets[d.rng.IntN(len(assets))]

	direction := ledger.Long
	if d.rng.IntN(2) == 1 {
		direction = ledger.Short
	}

	leverage := d.cfg.MinLeverage
	if d.cfg.MaxLeverage > d.cfg.MinLeverage {
		leverage += d.rng.IntN(d.cfg.MaxLeverage - d.cfg.MinLeverage + 1)
	}

	profit := d.cfg.ProfitMin + d.rng.Float64()*(d.cfg.ProfitMax-d.cfg.ProfitMin)
	loss := -(d.cfg.LossMin + d.rng.Float64()*(d.cfg.LossMax-d.cfg.LossMin))

	margin := e.Cash() * d.cfg.MarginFraction
	if margin <= 0 {
		return
	}

	// A skipped open (insufficient funds) is the expected best-effort
	// outcome; nothing to do either way.
	_, _ = e.OpenPosition(sim.OpenRequest{
		Asset:           asset,
		Direction:       direction,
		Leverage:        leverage,
		EntryPrice:      tick[asset],
		Margin:          margin,
		TargetProfitPct: profit,
		TargetLossPct:   loss,
	})
}
