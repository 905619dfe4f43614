package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rustyeddy/levtrader/market"
)

// Stream subscribes to the Binance miniTicker websocket channel and pushes
// a single-asset tick per message. On a dropped connection it redials with
// a fixed delay until the context is cancelled.
type Stream struct {
	url     string
	symbols []string
	fn      TickFunc
	log     *slog.Logger

	// RedialDelay is the pause between reconnect attempts.
	RedialDelay time.Duration
}

func NewStream(url string, symbols []string, fn TickFunc, log *slog.Logger) *Stream {
	return &Stream{
		url:         url,
		symbols:     symbols,
		fn:          fn,
		log:         log,
		RedialDelay: 5 * time.Second,
	}
}

// Run dials, subscribes and pumps messages until ctx is cancelled. It only
// returns the context's error; transport failures are logged and retried.
func (s *Stream) Run(ctx context.Context) error {
	for {
		if err := s.connectAndPump(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Warn("stream disconnected", "err", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.RedialDelay):
		}
	}
}

func (s *Stream) connectAndPump(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.url, err)
	}
	defer conn.Close()

	if err := s.subscribe(conn); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	s.log.Info("price stream connected", "url", s.url, "symbols", len(s.symbols))

	// Unblock ReadMessage when the context ends.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		if tick := s.parse(raw); len(tick) > 0 {
			s.fn(tick)
		}
	}
}

func (s *Stream) subscribe(conn *websocket.Conn) error {
	params := make([]string, 0, len(s.symbols))
	for _, sym := range s.symbols {
		params = append(params, strings.ToLower(sym)+"@miniTicker")
	}

	payload := map[string]any{
		"method": "SUBSCRIBE",
		"params": params,
		"id":     time.Now().Unix(),
	}
	return conn.WriteJSON(payload)
}

// binanceMiniTicker is the subset of the miniTicker event we consume.
type binanceMiniTicker struct {
	Event  string `json:"e"`
	Symbol string `json:"s"`
	Close  string `json:"c"`
}

// parse returns a one-asset tick, or nil for control frames and invalid
// quotes. Price positivity is enforced here, at the feed boundary.
func (s *Stream) parse(raw []byte) market.Tick {
	var msg binanceMiniTicker
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil
	}
	if msg.Event != "24hrMiniTicker" || msg.Symbol == "" {
		return nil
	}

	price, err := strconv.ParseFloat(msg.Close, 64)
	if err != nil || price <= 0 {
		s.log.Warn("invalid quote dropped", "symbol", msg.Symbol, "price", msg.Close)
		return nil
	}
	return market.Tick{msg.Symbol: price}
}
