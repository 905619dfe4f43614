package market

// Tick is one batch of observed prices, keyed by asset symbol. Prices are
// quoted in the account currency (USD). A tick is pure data handed to the
// engine by a feed; it carries no timestamps of its own.
type Tick map[string]float64

// Assets returns the symbols present in the tick. Map order is not defined;
// callers that need determinism sort the result.
func (t Tick) Assets() []string {
	assets := make([]string, 0, len(t))
	for a := range t {
		assets = append(assets, a)
	}
	return assets
}

// Valid splits the tick into entries with positive prices and the list of
// rejected assets. Zero or negative prices would corrupt P&L division and
// are rejected at the feed boundary, never inside the engine.
func (t Tick) Valid() (Tick, []string) {
	var rejected []string
	ok := make(Tick, len(t))
	for asset, price := range t {
		if price <= 0 {
			rejected = append(rejected, asset)
			continue
		}
		ok[asset] = price
	}
	return ok, rejected
}
