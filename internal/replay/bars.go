package replay

import "main/internal/schema"

// barAccum aggregates ticks into bars for one subscribed symbol.
// times stretches the base interval: with times=N a bar closes only
// on every Nth minute boundary.
type barAccum struct {
	symbol   string
	interval schema.Interval
	times    uint32
	minutes  uint32
	active   bool
	cur      schema.Bar
	hist     []schema.Bar
}

func newBarAccum(symbol string, interval schema.Interval, times uint32) *barAccum {
	if times == 0 {
		times = 1
	}
	return &barAccum{symbol: symbol, interval: interval, times: times}
}

// update folds one tick into the open bar, opening one if needed.
func (a *barAccum) update(tick *schema.Tick) {
	if !a.active {
		a.active = true
		a.cur = schema.Bar{
			Symbol:   a.symbol,
			Interval: a.interval,
			Open:     tick.Last,
			High:     tick.Last,
			Low:      tick.Last,
		}
	}
	if tick.Last > a.cur.High {
		a.cur.High = tick.Last
	}
	if tick.Last < a.cur.Low {
		a.cur.Low = tick.Last
	}
	a.cur.Close = tick.Last
	a.cur.Volume += tick.LastVolume
	a.cur.Turnover += tick.LastVolume * tick.Last
	a.cur.OpenInterest = tick.OpenInterest
}

// closeAt counts one minute boundary and closes the open bar when the
// interval multiple is reached. Returns the closed bar, or nil.
func (a *barAccum) closeAt(date, tm uint32, ts int64) *schema.Bar {
	if !a.active {
		return nil
	}
	a.minutes++
	if a.minutes%a.times != 0 {
		return nil
	}
	a.minutes = 0
	a.active = false
	a.cur.Date = date
	a.cur.Time = tm
	a.cur.Ts = ts
	a.hist = append(a.hist, a.cur)
	return &a.hist[len(a.hist)-1]
}

// window returns up to count closed bars, newest last.
func (a *barAccum) window(count int) []schema.Bar {
	if a == nil {
		return nil
	}
	begin := len(a.hist) - count
	if count <= 0 || begin < 0 {
		begin = 0
	}
	return a.hist[begin:]
}

// barSource replays preloaded bars for a symbol carrying no tick
// subscription. Each bar close synthesizes one tick.
type barSource struct {
	symbol string
	cursor int
	bars   []schema.Bar
}

// nextAt returns the bar closing exactly at ts, advancing past any
// older leftovers.
func (b *barSource) nextAt(ts int64) *schema.Bar {
	for b.cursor < len(b.bars) && b.bars[b.cursor].Ts < ts {
		b.cursor++
	}
	if b.cursor < len(b.bars) && b.bars[b.cursor].Ts == ts {
		bar := &b.bars[b.cursor]
		b.cursor++
		return bar
	}
	return nil
}
