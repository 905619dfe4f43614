package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rustyeddy/levtrader/ledger"
	"github.com/rustyeddy/levtrader/market"
	"github.com/rustyeddy/levtrader/sim"
)

type openRequest struct {
	Asset        string  `json:"asset"`
	Direction    string  `json:"direction"`
	Leverage     int     `json:"leverage"`
	Margin       float64 `json:"margin"`
	Price        float64 `json:"price"`
	TargetProfit float64 `json:"targetProfit"`
	TargetLoss   float64 `json:"targetLoss"`
}

type closeRequest struct {
	PositionID string  `json:"positionId"`
	ClosePrice float64 `json:"closePrice"`
}

type pricesRequest struct {
	Prices market.Tick `json:"prices"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) getState(c echo.Context) error {
	return c.JSON(http.StatusOK, s.eng.GetState())
}

func (s *Server) openPosition(c echo.Context) error {
	var req openRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false, "error": "malformed request body",
		})
	}

	p, err := s.eng.OpenPosition(sim.OpenRequest{
		Asset:           req.Asset,
		Direction:       ledger.Direction(req.Direction),
		Leverage:        req.Leverage,
		EntryPrice:      req.Price,
		Margin:          req.Margin,
		TargetProfitPct: req.TargetProfit,
		TargetLossPct:   req.TargetLoss,
	})
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		// best-effort semantics: the open was skipped, not failed
		return c.JSON(http.StatusOK, map[string]any{
			"success": false, "skipped": "insufficient_funds",
		})
	case err != nil:
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false, "error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"position": p,
		"state":    s.eng.GetState(),
	})
}

func (s *Server) closePosition(c echo.Context) error {
	var req closeRequest
	if err := c.Bind(&req); err != nil || req.PositionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false, "error": "positionId is required",
		})
	}

	trade, err := s.eng.ClosePosition(req.PositionID, req.ClosePrice)
	switch {
	case errors.Is(err, sim.ErrPositionNotFound):
		return c.JSON(http.StatusNotFound, map[string]any{
			"success": false, "error": "position not found",
		})
	case err != nil:
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false, "error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"trade":   trade,
		"state":   s.eng.GetState(),
	})
}

func (s *Server) updatePrices(c echo.Context) error {
	var req pricesRequest
	if err := c.Bind(&req); err != nil || len(req.Prices) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false, "error": "prices mapping is required",
		})
	}

	// Report the per-asset rejections; valid assets still proceed inside
	// the engine's tick pass.
	_, rejected := req.Prices.Valid()
	snap := s.eng.ApplyTick(req.Prices)

	resp := map[string]any{
		"success": true,
		"state":   snap,
	}
	if len(rejected) > 0 {
		resp["rejected"] = rejected
	}
	return c.JSON(http.StatusOK, resp)
}
