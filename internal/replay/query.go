package replay

import (
	"main/internal/schema"
)

// Day price flags.
const (
	DayPriceOpen = iota
	DayPriceHigh
	DayPriceLow
	DayPriceLast
)

// KlineSlice returns the newest count closed bars for a subscription.
// Symbols without an aggregator fall back to the loader's
// factor-adjusted history, bounded at current replay time.
func (r *Replayer) KlineSlice(symbol string, interval schema.Interval, count int, times uint32) *schema.Slice[schema.Bar] {
	if times == 0 {
		times = 1
	}
	key := klineSub{symbol: symbol, interval: interval, times: times}.key()
	if a, ok := r.accums[key]; ok {
		return schema.NewSlice(symbol, a.window(count))
	}

	bars, ok := r.finals[symbol]
	if !ok {
		r.cfg.Loader.LoadFinalHistoryBars(symbol, interval, func(batch []schema.Bar) {
			bars = append(bars, batch...)
		})
		r.finals[symbol] = bars
	}
	end := len(bars)
	for end > 0 && bars[end-1].Ts > r.nowMs {
		end--
	}
	begin := end - count
	if count <= 0 || begin < 0 {
		begin = 0
	}
	return schema.NewSlice(symbol, bars[begin:end])
}

// TickSlice returns the newest count replayed ticks of the current
// session for a tick-subscribed symbol.
func (r *Replayer) TickSlice(symbol string, count int) *schema.Slice[schema.Tick] {
	return schema.NewSlice(symbol, r.ticks[symbol].window(count))
}

// OrderDetailSlice returns the newest count replayed order-flow rows.
func (r *Replayer) OrderDetailSlice(symbol string, count int) *schema.Slice[schema.OrderDetail] {
	return schema.NewSlice(symbol, r.orderDetails[symbol].window(count))
}

// TransactionSlice returns the newest count replayed trades.
func (r *Replayer) TransactionSlice(symbol string, count int) *schema.Slice[schema.Transaction] {
	return schema.NewSlice(symbol, r.transactions[symbol].window(count))
}

// LastTick returns the most recent tick dispatched for a symbol, nil
// if none was seen yet.
func (r *Replayer) LastTick(symbol string) *schema.Tick {
	if tick, ok := r.lastTick[symbol]; ok {
		return &tick
	}
	return nil
}

// CurPrice returns the latest known price for a symbol, 0 if unknown.
func (r *Replayer) CurPrice(symbol string) float64 {
	if price, ok := r.prices[symbol]; ok {
		return price
	}
	return 0
}

// UpdatePrice overrides the latest known price, used by sinks that
// mark prices themselves.
func (r *Replayer) UpdatePrice(symbol string, price float64) {
	r.prices[symbol] = price
}

// DayPrice returns today's open/high/low/latest price for a symbol.
func (r *Replayer) DayPrice(symbol string, flag int) float64 {
	d, ok := r.day[symbol]
	if !ok {
		return 0
	}
	switch flag {
	case DayPriceHigh:
		return d.high
	case DayPriceLow:
		return d.low
	case DayPriceLast:
		return d.last
	default:
		return d.open
	}
}

// CalculateFee computes the commission for one fill. Unknown symbols
// cost nothing.
func (r *Replayer) CalculateFee(symbol string, price, qty float64, offset schema.Offset) float64 {
	fee, ok := r.cfg.Fees[symbol]
	if !ok {
		return 0
	}
	rate := fee.Rate(offset)
	if fee.ByVolume {
		return qty * rate
	}
	multiplier := 1.0
	if inst, ok := r.cfg.Registry.Instrument(symbol); ok {
		multiplier = inst.Multiplier
	}
	return price * qty * multiplier * rate
}

// Date returns the calendar date (YYYYMMDD) of the replay clock.
func (r *Replayer) Date() uint32 { return r.curDate }

// TradingDate returns the session date, which can differ from the
// calendar date around session rollover.
func (r *Replayer) TradingDate() uint32 { return r.curTDate }

// MinTime returns the replay clock minute as HHMM.
func (r *Replayer) MinTime() uint32 { return r.curTime }

// Secs returns the replay clock as HHMMSS.
func (r *Replayer) Secs() uint32 { return r.curSecs }

// Now returns the replay clock in unix milliseconds.
func (r *Replayer) Now() int64 { return r.nowMs }

// TickSimulated reports whether the tick being dispatched right now
// was synthesized from bars.
func (r *Replayer) TickSimulated() bool { return r.simulated }
