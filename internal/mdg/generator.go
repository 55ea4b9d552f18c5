// Package mdg creates synthetic market data so the backtester can be
// exercised without vendor history.
package mdg

import (
	"math/rand"

	"github.com/yanun0323/errors"

	"main/internal/schema"
)

// Config controls the random walk.
type Config struct {
	Symbol    string
	Date      uint32
	BasePrice float64
	Spread    float64 // touch distance from last, also the walk step
	Seed      int64
}

// Generator produces a deterministic random-walk tick series for one
// symbol and date. The same seed always yields the same series.
type Generator struct {
	cfg    Config
	rng    *rand.Rand
	price  float64
	volume float64
	turn   float64
}

// NewGenerator validates the config and seeds the walk.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.Symbol == "" {
		return nil, errors.New("invalid generator config: empty symbol")
	}
	if cfg.Date == 0 {
		return nil, errors.New("invalid generator config: zero date")
	}
	if cfg.BasePrice <= 0 {
		return nil, errors.New("invalid generator config: base price must be positive")
	}
	if cfg.Spread <= 0 {
		cfg.Spread = 1
	}
	return &Generator{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		price: cfg.BasePrice,
	}, nil
}

// Next creates the next tick of the series, stamped at ts.
func (g *Generator) Next(ts int64) schema.Tick {
	step := float64(g.rng.Intn(3)-1) * g.cfg.Spread
	g.price += step
	if g.price < g.cfg.Spread {
		g.price = g.cfg.Spread
	}
	lastVol := float64(g.rng.Intn(20) + 1)
	g.volume += lastVol
	g.turn += lastVol * g.price

	tick := schema.Tick{
		Symbol:      g.cfg.Symbol,
		TradingDate: g.cfg.Date,
		TsExchange:  ts,
		TsLocal:     ts,
		Last:        g.price,
		LastVolume:  lastVol,
		Volume:      g.volume,
		Turnover:    g.turn,
	}
	for i := 0; i < schema.DepthLevels; i++ {
		depth := float64(i + 1)
		tick.Bids[i] = schema.Level{
			Price:  g.price - depth*g.cfg.Spread,
			Volume: float64(g.rng.Intn(80) + 20),
		}
		tick.Asks[i] = schema.Level{
			Price:  g.price + depth*g.cfg.Spread,
			Volume: float64(g.rng.Intn(80) + 20),
		}
	}
	return tick
}
