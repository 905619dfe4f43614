package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/levtrader/config"
	"github.com/rustyeddy/levtrader/feed"
	"github.com/rustyeddy/levtrader/journal"
	"github.com/rustyeddy/levtrader/logger"
	"github.com/rustyeddy/levtrader/market"
	"github.com/rustyeddy/levtrader/sim"
	"github.com/rustyeddy/levtrader/strategy"
	"github.com/rustyeddy/levtrader/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the paper-trading service",
	Long: `Start the engine, the configured price feed and the HTTP API.

Example:
  levtrader serve --config examples/configs/basic.yaml`,
	RunE: runServe,
}

var serveConfigPath string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if serveConfigPath != "" {
		var err error
		cfg, err = config.LoadFromFile(serveConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	log := logger.New(cfg.LogLevel)

	eng, j, err := buildEngine(cfg, log)
	if err != nil {
		return err
	}
	defer j.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apply := func(tick market.Tick) { eng.ApplyTick(tick) }

	switch cfg.Feed.Mode {
	case "poll":
		p := feed.NewPoller(cfg.Feed.BaseURL, cfg.Feed.PollSpec, cfg.Feed.Symbols, apply, log)
		if err := p.Start(ctx); err != nil {
			return fmt.Errorf("start poller: %w", err)
		}
		defer p.Stop()

	case "stream":
		url := cfg.Feed.StreamURL
		if url == "" {
			url = "wss://stream.binance.com:9443/ws"
		}
		s := feed.NewStream(url, cfg.Feed.Symbols, apply, log)
		go func() {
			if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("price stream stopped", "err", err)
			}
		}()
	}

	srv := web.NewServer(eng, log)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildEngine wires journal, strategy driver and engine from config.
func buildEngine(cfg *config.Config, log *slog.Logger) (*sim.Engine, journal.Journal, error) {
	var j journal.Journal = journal.Nop{}
	var err error
	switch cfg.Journal.Type {
	case "csv":
		j, err = journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.PerfFile)
	case "sqlite":
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("create journal: %w", err)
	}

	driver, err := strategy.ByName(cfg.Strategy.Name, strategy.RandomConfig{
		TriggerProbability: cfg.Strategy.TriggerProbability,
		MaxOpenPositions:   cfg.Strategy.MaxOpenPositions,
		MinLeverage:        cfg.Strategy.MinLeverage,
		MaxLeverage:        cfg.Strategy.MaxLeverage,
		ProfitMin:          cfg.Strategy.ProfitMin,
		ProfitMax:          cfg.Strategy.ProfitMax,
		LossMin:            cfg.Strategy.LossMin,
		LossMax:            cfg.Strategy.LossMax,
		MarginFraction:     cfg.Strategy.MarginFraction,
		Seed:               cfg.Strategy.Seed,
	})
	if err != nil {
		j.Close()
		return nil, nil, err
	}

	maxAge, err := cfg.Engine.ParseMaxAge()
	if err != nil {
		j.Close()
		return nil, nil, err
	}

	eng := sim.NewEngine(sim.Config{
		InitialBalance:   cfg.Account.InitialBalance,
		MinimumMargin:    cfg.Account.MinimumMargin,
		PositionMaxAge:   maxAge,
		MaxLeverage:      cfg.Engine.MaxLeverage,
		TradeHistorySize: cfg.Engine.TradeHistorySize,
		PriceHistorySize: cfg.Engine.PriceHistorySize,
		PerfHistorySize:  cfg.Engine.PerfHistorySize,
		Logger:           log,
		Journal:          j,
		Driver:           driver,
	})
	return eng, j, nil
}
