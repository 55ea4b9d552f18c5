// Package core wires the replay loop, the matching engine, the
// strategy and result persistence into one run.
package core

import (
	"main/internal/replay"
	"main/internal/schema"
)

// Strategy is the user code driven by replayed events. OnInit runs
// before any data is loaded and is the place to subscribe streams.
type Strategy interface {
	OnInit(ctx *Context)
	OnTick(ctx *Context, tick *schema.Tick, simulated bool)
	OnBarClose(ctx *Context, symbol string, interval schema.Interval, bar *schema.Bar)
	OnSchedule(ctx *Context, date, tm uint32)
}

// NopStrategy implements Strategy with no-ops, for embedding.
type NopStrategy struct{}

func (NopStrategy) OnInit(*Context)                                        {}
func (NopStrategy) OnTick(*Context, *schema.Tick, bool)                    {}
func (NopStrategy) OnBarClose(*Context, string, schema.Interval, *schema.Bar) {}
func (NopStrategy) OnSchedule(*Context, uint32, uint32)                    {}

// Context is the strategy's view of the run: order entry on the
// matching engine plus the replay query surface.
type Context struct {
	runner *Runner
}

// SubTick subscribes a symbol's tick stream.
func (c *Context) SubTick(symbol string) { c.runner.replayer.SubTick(symbol) }

// SubOrderDetail subscribes a symbol's raw order flow.
func (c *Context) SubOrderDetail(symbol string) { c.runner.replayer.SubOrderDetail(symbol) }

// SubTransaction subscribes a symbol's raw trade feed.
func (c *Context) SubTransaction(symbol string) { c.runner.replayer.SubTransaction(symbol) }

// SubKline subscribes bar aggregation for a symbol.
func (c *Context) SubKline(symbol string, interval schema.Interval, times uint32) {
	c.runner.replayer.SubKline(symbol, interval, times)
}

// RegisterTask schedules a recurring task.
func (c *Context) RegisterTask(id uint32, date, tm uint32, policy replay.TaskPolicy) {
	c.runner.replayer.RegisterTask(id, date, tm, policy)
}

// Buy places a simulated limit buy.
func (c *Context) Buy(symbol string, price, qty float64) []uint64 {
	return c.runner.engine.Buy(symbol, price, qty, c.runner.replayer.Now())
}

// Sell places a simulated limit sell.
func (c *Context) Sell(symbol string, price, qty float64) []uint64 {
	return c.runner.engine.Sell(symbol, price, qty, c.runner.replayer.Now())
}

// Cancel requests cancellation of one order, returning its signed
// remaining quantity.
func (c *Context) Cancel(localID uint64) float64 {
	return c.runner.engine.Cancel(localID)
}

// CancelBulk cancels active orders on one symbol and side up to qty.
func (c *Context) CancelBulk(symbol string, buy bool, qty float64) []uint64 {
	return c.runner.engine.CancelBulk(symbol, buy, qty, nil)
}

// Invalidate force-fails every working order on a halted symbol.
func (c *Context) Invalidate(symbol string) {
	c.runner.engine.InvalidateSymbol(symbol, c.runner.replayer.Now())
}

// KlineSlice reads the newest closed bars.
func (c *Context) KlineSlice(symbol string, interval schema.Interval, count int, times uint32) *schema.Slice[schema.Bar] {
	return c.runner.replayer.KlineSlice(symbol, interval, count, times)
}

// TickSlice reads the newest replayed ticks.
func (c *Context) TickSlice(symbol string, count int) *schema.Slice[schema.Tick] {
	return c.runner.replayer.TickSlice(symbol, count)
}

// OrderDetailSlice reads the newest replayed order-flow rows.
func (c *Context) OrderDetailSlice(symbol string, count int) *schema.Slice[schema.OrderDetail] {
	return c.runner.replayer.OrderDetailSlice(symbol, count)
}

// TransactionSlice reads the newest replayed trades.
func (c *Context) TransactionSlice(symbol string, count int) *schema.Slice[schema.Transaction] {
	return c.runner.replayer.TransactionSlice(symbol, count)
}

// LastTick returns the most recent tick for a symbol.
func (c *Context) LastTick(symbol string) *schema.Tick {
	return c.runner.replayer.LastTick(symbol)
}

// CurPrice returns the latest known price for a symbol.
func (c *Context) CurPrice(symbol string) float64 {
	return c.runner.replayer.CurPrice(symbol)
}

// DayPrice returns today's open/high/low/latest price.
func (c *Context) DayPrice(symbol string, flag int) float64 {
	return c.runner.replayer.DayPrice(symbol, flag)
}

// CalculateFee computes the commission for a hypothetical fill.
func (c *Context) CalculateFee(symbol string, price, qty float64, offset schema.Offset) float64 {
	return c.runner.replayer.CalculateFee(symbol, price, qty, offset)
}

// Position returns the current net simulated position for a symbol.
func (c *Context) Position(symbol string) float64 {
	return c.runner.positions.Position(symbol)
}

// TradingDate returns the current session date.
func (c *Context) TradingDate() uint32 { return c.runner.replayer.TradingDate() }

// MinTime returns the replay clock minute as HHMM.
func (c *Context) MinTime() uint32 { return c.runner.replayer.MinTime() }

// Secs returns the replay clock as HHMMSS.
func (c *Context) Secs() uint32 { return c.runner.replayer.Secs() }
