package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rustyeddy/levtrader/market"
)

// Poller fetches spot prices from the Binance REST ticker endpoint on a
// cron schedule and pushes one tick per fetch.
type Poller struct {
	client  *http.Client
	baseURL string
	symbols map[string]bool
	spec    string
	fn      TickFunc
	log     *slog.Logger
	cron    *cron.Cron
}

// NewPoller builds a poller for the given symbols. spec is a cron
// expression with a seconds field, e.g. "*/10 * * * * *".
func NewPoller(baseURL, spec string, symbols []string, fn TickFunc, log *slog.Logger) *Poller {
	set := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		set[strings.ToUpper(s)] = true
	}
	return &Poller{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		symbols: set,
		spec:    spec,
		fn:      fn,
		log:     log,
		cron:    cron.New(cron.WithSeconds()),
	}
}

// Start registers the fetch job and starts the scheduler. The context
// bounds each individual fetch, not the scheduler lifetime; call Stop to
// halt polling.
func (p *Poller) Start(ctx context.Context) error {
	_, err := p.cron.AddFunc(p.spec, func() {
		fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		tick, err := p.Fetch(fetchCtx)
		if err != nil {
			p.log.Warn("price fetch failed", "err", err)
			return
		}
		if len(tick) == 0 {
			return
		}
		p.fn(tick)
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", p.spec, err)
	}

	p.cron.Start()
	p.log.Info("price poller started", "spec", p.spec, "symbols", len(p.symbols))
	return nil
}

// Stop halts the scheduler and waits for an in-flight fetch to finish.
func (p *Poller) Stop() {
	<-p.cron.Stop().Done()
}

// Fetch performs one REST call and returns validated prices for the
// configured symbols. Non-positive quotes are dropped here, at the feed
// boundary.
func (p *Poller) Fetch(ctx context.Context) (market.Tick, error) {
	url := p.baseURL + "/api/v3/ticker/price"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ticker endpoint: status=%d body=%s", resp.StatusCode, body)
	}

	var tickers []struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tickers); err != nil {
		return nil, fmt.Errorf("decode tickers: %w", err)
	}

	tick := make(market.Tick)
	for _, t := range tickers {
		if !p.symbols[t.Symbol] {
			continue
		}
		price, err := strconv.ParseFloat(t.Price, 64)
		if err != nil || price <= 0 {
			p.log.Warn("invalid quote dropped", "symbol", t.Symbol, "price", t.Price)
			continue
		}
		tick[t.Symbol] = price
	}
	return tick, nil
}
