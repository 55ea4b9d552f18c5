package main

import (
	"github.com/yanun0323/logs"

	"main/internal/core"
	"main/internal/replay"
	"main/internal/schema"
)

// demoStrategy is a minute-bar momentum toy used when no user
// strategy is plugged in. It buys one lot after two rising closes
// and flattens on the first falling close.
type demoStrategy struct {
	core.NopStrategy

	registry  *schema.Registry
	lastClose map[string]float64
	rising    map[string]int
}

func newDemoStrategy(registry *schema.Registry) *demoStrategy {
	return &demoStrategy{
		registry:  registry,
		lastClose: make(map[string]float64),
		rising:    make(map[string]int),
	}
}

func (s *demoStrategy) OnInit(ctx *core.Context) {
	for _, symbol := range s.registry.Symbols() {
		ctx.SubTick(symbol)
		ctx.SubKline(symbol, schema.IntervalMinute1, 1)
	}
	ctx.RegisterTask(1, 0, 1455, replay.TaskDaily)
}

func (s *demoStrategy) OnBarClose(ctx *core.Context, symbol string, interval schema.Interval, bar *schema.Bar) {
	prev, ok := s.lastClose[symbol]
	s.lastClose[symbol] = bar.Close
	if !ok {
		return
	}
	if bar.Close > prev {
		s.rising[symbol]++
	} else {
		s.rising[symbol] = 0
	}

	tick := ctx.LastTick(symbol)
	if tick == nil {
		return
	}
	pos := ctx.Position(symbol)
	switch {
	case pos == 0 && s.rising[symbol] >= 2 && tick.Asks[0].Price > 0:
		ctx.Buy(symbol, tick.Asks[0].Price, 1)
	case pos > 0 && bar.Close < prev && tick.Bids[0].Price > 0:
		ctx.Sell(symbol, tick.Bids[0].Price, pos)
	}
}

// OnSchedule flattens everything before the close.
func (s *demoStrategy) OnSchedule(ctx *core.Context, date, tm uint32) {
	for _, symbol := range s.registry.Symbols() {
		pos := ctx.Position(symbol)
		if pos <= 0 {
			continue
		}
		tick := ctx.LastTick(symbol)
		if tick == nil || tick.Bids[0].Price <= 0 {
			continue
		}
		logs.Infof("flatten %s %.0f before close", symbol, pos)
		ctx.Sell(symbol, tick.Bids[0].Price, pos)
	}
}
