package replay

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync/atomic"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/calendar"
	"main/internal/ingest"
	"main/internal/obs"
	"main/internal/schema"
)

// Config carries everything a replay run needs up front.
type Config struct {
	Mode     Mode
	BeginMs  int64
	EndMs    int64
	Calendar *calendar.Calendar
	Loader   ingest.Loader
	Registry *schema.Registry
	Fees     schema.FeeSchedule
	Metrics  *obs.Metrics
}

type eventKind uint8

const (
	evNone eventKind = iota
	evTick
	evOrderDetail
	evTransaction
)

type dayStats struct {
	open, high, low, last float64
}

// Replayer owns the per-symbol stream cursors and caches of one run.
// It is single threaded: one logical clock drives all dispatch, and
// nothing here may be shared across concurrent runs.
type Replayer struct {
	cfg  Config
	sink Sink
	cal  *calendar.Calendar

	ticks        map[string]*stream[schema.Tick]
	orderDetails map[string]*stream[schema.OrderDetail]
	transactions map[string]*stream[schema.Transaction]

	tickSyms []string
	odSyms   []string
	trSyms   []string

	accums    map[string]*barAccum
	accumKeys []string
	barOnly   map[string]*barSource
	barSyms   []string
	finals    map[string][]schema.Bar
	factors   map[string]map[uint32]float64

	klineSubs map[string]klineSub

	tasks []*Task

	lastTick map[string]schema.Tick
	prices   map[string]float64
	day      map[string]*dayStats

	minuteGrid  []uint32
	sectionEnds map[uint32]struct{}

	curDate   uint32
	curTime   uint32
	curSecs   uint32
	curTDate  uint32
	nowMs     int64
	simulated bool

	stopped atomic.Bool
}

type klineSub struct {
	symbol   string
	interval schema.Interval
	times    uint32
}

func (k klineSub) key() string {
	return fmt.Sprintf("%s#%s#%d", k.symbol, k.interval, k.times)
}

// New validates the configuration and binds the sink. The sink's
// OnInit fires at Run, after which subscriptions are frozen.
func New(cfg Config, sink Sink) (*Replayer, error) {
	if sink == nil {
		return nil, errors.New("invalid replay config: nil sink")
	}
	if cfg.Calendar == nil {
		return nil, errors.New("invalid replay config: nil calendar")
	}
	if cfg.Loader == nil {
		return nil, errors.New("invalid replay config: nil loader")
	}
	if cfg.Registry == nil {
		return nil, errors.New("invalid replay config: nil registry")
	}
	if cfg.Mode == ModeUnknown {
		return nil, errors.Wrap(ErrUnknownMode, "invalid replay config")
	}
	if cfg.EndMs < cfg.BeginMs {
		return nil, errors.Errorf("invalid replay config: end %d before begin %d", cfg.EndMs, cfg.BeginMs)
	}
	return &Replayer{
		cfg:          cfg,
		sink:         sink,
		cal:          cfg.Calendar,
		ticks:        map[string]*stream[schema.Tick]{},
		orderDetails: map[string]*stream[schema.OrderDetail]{},
		transactions: map[string]*stream[schema.Transaction]{},
		accums:       map[string]*barAccum{},
		barOnly:      map[string]*barSource{},
		finals:       map[string][]schema.Bar{},
		factors:      map[string]map[uint32]float64{},
		klineSubs:    map[string]klineSub{},
		lastTick:     map[string]schema.Tick{},
		prices:       map[string]float64{},
		day:          map[string]*dayStats{},
		sectionEnds:  map[uint32]struct{}{},
	}, nil
}

// SubTick subscribes a symbol's raw tick stream.
func (r *Replayer) SubTick(symbol string) {
	if _, ok := r.ticks[symbol]; ok {
		return
	}
	r.ticks[symbol] = newStream(symbol, func(t *schema.Tick) int64 { return t.TsExchange })
	r.tickSyms = append(r.tickSyms, symbol)
	sort.Strings(r.tickSyms)
}

// SubOrderDetail subscribes a symbol's raw order flow.
func (r *Replayer) SubOrderDetail(symbol string) {
	if _, ok := r.orderDetails[symbol]; ok {
		return
	}
	r.orderDetails[symbol] = newStream(symbol, func(od *schema.OrderDetail) int64 { return od.Ts })
	r.odSyms = append(r.odSyms, symbol)
	sort.Strings(r.odSyms)
}

// SubTransaction subscribes a symbol's raw trade feed.
func (r *Replayer) SubTransaction(symbol string) {
	if _, ok := r.transactions[symbol]; ok {
		return
	}
	r.transactions[symbol] = newStream(symbol, func(tr *schema.Transaction) int64 { return tr.Ts })
	r.trSyms = append(r.trSyms, symbol)
	sort.Strings(r.trSyms)
}

// SubKline subscribes bar aggregation for a symbol. times stretches
// the base interval to N-minute bars.
func (r *Replayer) SubKline(symbol string, interval schema.Interval, times uint32) {
	if times == 0 {
		times = 1
	}
	sub := klineSub{symbol: symbol, interval: interval, times: times}
	key := sub.key()
	if _, ok := r.accums[key]; ok {
		return
	}
	r.klineSubs[key] = sub
	r.accums[key] = newBarAccum(symbol, interval, times)
	r.accumKeys = append(r.accumKeys, key)
	sort.Strings(r.accumKeys)
}

// RegisterTask schedules a recurring task anchored at date/time.
func (r *Replayer) RegisterTask(id uint32, date, tm uint32, policy TaskPolicy) {
	r.tasks = append(r.tasks, &Task{ID: id, Date: date, Time: tm, Policy: policy})
}

// Stop requests cooperative termination. The current event finishes;
// nothing is preempted mid-dispatch.
func (r *Replayer) Stop() { r.stopped.Store(true) }

func (r *Replayer) halted(ctx context.Context) bool {
	return r.stopped.Load() || ctx.Err() != nil
}

// Run replays the configured range, driving the sink in global
// chronological order. Out-of-order raw input aborts the run.
func (r *Replayer) Run(ctx context.Context) error {
	defer r.sink.OnReplayDone()

	r.sink.OnInit()
	r.prepare()

	dates := r.cal.TradingDates(r.cfg.BeginMs, r.cfg.EndMs)
	logs.Infof("replay %s: %d sessions, %d tick subs, %d kline subs, %d tasks",
		r.cfg.Mode, len(dates), len(r.tickSyms), len(r.accumKeys), len(r.tasks))
	for _, date := range dates {
		if r.halted(ctx) {
			break
		}
		r.beginSession(date)
		var err error
		if r.cfg.Mode == ModeTicks {
			err = r.replayTicks(ctx, date)
		} else {
			err = r.replayMinutes(ctx, date)
		}
		r.sink.OnSessionEnd(date)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Replayer) prepare() {
	r.cfg.Loader.LoadAllFactors(func(symbol string, dates []uint32, factors []float64) {
		m := r.factors[symbol]
		if m == nil {
			m = map[uint32]float64{}
			r.factors[symbol] = m
		}
		for i, date := range dates {
			m[date] = factors[i]
		}
	})

	// Symbols without a replayed tick stream get their ticks
	// synthesized from preloaded minute bars. Outside tick mode no
	// stream is replayed at all, so every kline subscription needs a
	// bar source there.
	for _, key := range r.accumKeys {
		sub := r.klineSubs[key]
		if r.cfg.Mode == ModeTicks {
			if _, ok := r.ticks[sub.symbol]; ok {
				continue
			}
		}
		if _, ok := r.barOnly[sub.symbol]; ok {
			continue
		}
		src := &barSource{symbol: sub.symbol}
		ok := r.cfg.Loader.LoadRawHistoryBars(sub.symbol, schema.IntervalMinute1, func(bars []schema.Bar) {
			src.bars = append(src.bars, bars...)
		})
		if !ok {
			logs.Infof("no bar data for %s, symbol stays silent", sub.symbol)
		}
		r.barOnly[sub.symbol] = src
		r.barSyms = append(r.barSyms, sub.symbol)
	}
	sort.Strings(r.barSyms)

	grid := map[uint32]struct{}{}
	for _, symbol := range r.cfg.Registry.Symbols() {
		inst, _ := r.cfg.Registry.Instrument(symbol)
		for _, sec := range inst.Sections {
			for tm := minuteAfter(sec.Begin); tm <= sec.End; tm = minuteAfter(tm) {
				grid[tm] = struct{}{}
			}
			r.sectionEnds[sec.End] = struct{}{}
		}
	}
	r.minuteGrid = r.minuteGrid[:0]
	for tm := range grid {
		r.minuteGrid = append(r.minuteGrid, tm)
	}
	sort.Slice(r.minuteGrid, func(i, j int) bool { return r.minuteGrid[i] < r.minuteGrid[j] })

	// Tasks registered without an anchor date start on the first
	// session of the range.
	first := r.cal.Date(r.cfg.BeginMs)
	for _, task := range r.tasks {
		if task.Date == 0 {
			task.Date = first
		}
	}
}

func (r *Replayer) beginSession(date uint32) {
	r.curDate = date
	r.curTDate = date
	r.curTime = 0
	r.curSecs = 0
	for symbol := range r.day {
		delete(r.day, symbol)
	}
	r.sink.OnSessionBegin(date)
}

// loadDate pulls every subscribed stream for one trading date. Missing
// symbol/date data stays silent; corrupt ordering is fatal.
func (r *Replayer) loadDate(date uint32) error {
	var loadErr error
	for _, symbol := range r.tickSyms {
		s := r.ticks[symbol]
		ok := r.cfg.Loader.LoadRawHistoryTicks(symbol, date, func(items []schema.Tick) {
			if err := s.load(date, items); err != nil {
				loadErr = err
			}
		})
		if !ok {
			s.drop(date)
		}
		s.skipBefore(r.cfg.BeginMs)
	}
	for _, symbol := range r.odSyms {
		s := r.orderDetails[symbol]
		ok := r.cfg.Loader.LoadRawOrderDetails(symbol, date, func(items []schema.OrderDetail) {
			if err := s.load(date, items); err != nil {
				loadErr = err
			}
		})
		if !ok {
			s.drop(date)
		}
		s.skipBefore(r.cfg.BeginMs)
	}
	for _, symbol := range r.trSyms {
		s := r.transactions[symbol]
		ok := r.cfg.Loader.LoadRawTransactions(symbol, date, func(items []schema.Transaction) {
			if err := s.load(date, items); err != nil {
				loadErr = err
			}
		})
		if !ok {
			s.drop(date)
		}
		s.skipBefore(r.cfg.BeginMs)
	}
	if loadErr != nil {
		return errors.Wrapf(loadErr, "load date %d", date)
	}
	return nil
}

// peekNext scans all active cursors for the earliest pending event.
// Ties dispatch ticks before order details before transactions, and
// lower symbols first within a kind.
func (r *Replayer) peekNext() (eventKind, string, int64) {
	kind, symbol := evNone, ""
	var best int64 = math.MaxInt64
	for _, sym := range r.tickSyms {
		if ts, ok := r.ticks[sym].peek(); ok && ts < best {
			kind, symbol, best = evTick, sym, ts
		}
	}
	for _, sym := range r.odSyms {
		if ts, ok := r.orderDetails[sym].peek(); ok && ts < best {
			kind, symbol, best = evOrderDetail, sym, ts
		}
	}
	for _, sym := range r.trSyms {
		if ts, ok := r.transactions[sym].peek(); ok && ts < best {
			kind, symbol, best = evTransaction, sym, ts
		}
	}
	return kind, symbol, best
}

func (r *Replayer) replayTicks(ctx context.Context, date uint32) error {
	if err := r.loadDate(date); err != nil {
		return err
	}
	gi := 0
	for {
		if r.halted(ctx) {
			return nil
		}
		kind, symbol, ts := r.peekNext()
		for gi < len(r.minuteGrid) {
			bms := r.cal.Compose(date, r.minuteGrid[gi])
			if kind != evNone && bms > ts {
				break
			}
			if bms > r.cfg.EndMs {
				gi = len(r.minuteGrid)
				break
			}
			if bms >= r.cfg.BeginMs {
				r.onMinuteEnd(date, r.minuteGrid[gi], bms)
			}
			gi++
			if r.halted(ctx) {
				return nil
			}
		}
		if kind == evNone || ts > r.cfg.EndMs {
			return nil
		}
		switch kind {
		case evTick:
			r.dispatchTick(r.ticks[symbol].next(), false)
		case evOrderDetail:
			od := r.orderDetails[symbol].next()
			r.advanceClock(od.Ts)
			if r.cfg.Metrics != nil {
				r.cfg.Metrics.IncOrderDetail()
			}
			r.sink.OnOrderDetail(od)
		case evTransaction:
			tr := r.transactions[symbol].next()
			r.advanceClock(tr.Ts)
			if r.cfg.Metrics != nil {
				r.cfg.Metrics.IncTransaction()
			}
			r.sink.OnTransaction(tr)
		}
	}
}

// replayMinutes is the bar and task stepped driver: it walks the
// session minute grid and lets onMinuteEnd do all the work.
func (r *Replayer) replayMinutes(ctx context.Context, date uint32) error {
	for _, tm := range r.minuteGrid {
		if r.halted(ctx) {
			return nil
		}
		bms := r.cal.Compose(date, tm)
		if bms < r.cfg.BeginMs {
			continue
		}
		if bms > r.cfg.EndMs {
			return nil
		}
		r.onMinuteEnd(date, tm, bms)
	}
	return nil
}

func (r *Replayer) dispatchTick(tick *schema.Tick, simulated bool) {
	r.advanceClock(tick.TsExchange)
	r.lastTick[tick.Symbol] = *tick
	r.prices[tick.Symbol] = tick.Last

	d := r.day[tick.Symbol]
	if d == nil {
		d = &dayStats{open: tick.Last, high: tick.Last, low: tick.Last}
		r.day[tick.Symbol] = d
	}
	if tick.Last > d.high {
		d.high = tick.Last
	}
	if tick.Last < d.low {
		d.low = tick.Last
	}
	d.last = tick.Last

	for _, key := range r.accumKeys {
		if a := r.accums[key]; a.symbol == tick.Symbol {
			a.update(tick)
		}
	}

	if r.cfg.Metrics != nil {
		r.cfg.Metrics.IncTick(simulated)
	}
	r.simulated = simulated
	r.sink.OnTick(tick, simulated)
	r.simulated = false
}

// onMinuteEnd runs all boundary work for one closed minute: bar-only
// tick synthesis, accumulator closes, task fires, section ends.
func (r *Replayer) onMinuteEnd(date, tm uint32, bms int64) {
	r.curDate = date
	r.curTime = tm
	r.curSecs = tm * 100
	r.nowMs = bms

	for _, symbol := range r.barSyms {
		bar := r.barOnly[symbol].nextAt(bms)
		if bar == nil {
			continue
		}
		price := bar.Close * r.factorFor(symbol, date)
		tick := schema.Tick{
			Symbol:       symbol,
			TradingDate:  r.curTDate,
			TsExchange:   bms,
			TsLocal:      bms,
			Last:         price,
			LastVolume:   bar.Volume,
			Volume:       bar.Volume,
			Turnover:     bar.Turnover,
			OpenInterest: bar.OpenInterest,
		}
		r.dispatchTick(&tick, true)
	}

	for _, key := range r.accumKeys {
		a := r.accums[key]
		if bar := a.closeAt(r.curTDate, tm, bms); bar != nil {
			if r.cfg.Metrics != nil {
				r.cfg.Metrics.IncBarClose()
			}
			r.sink.OnBarClose(a.symbol, a.interval, tm, bar)
		}
	}

	for _, t := range r.tasks {
		for {
			due := NextDue(r.cal, *t, t.LastFired)
			if due == 0 || due > bms {
				break
			}
			t.LastFired = due
			if r.cfg.Metrics != nil {
				r.cfg.Metrics.IncTaskFire()
			}
			r.sink.OnSchedule(r.cal.Date(due), r.cal.MinuteTime(due))
		}
	}

	if _, ok := r.sectionEnds[tm]; ok {
		r.sink.OnSectionEnd(date, tm)
	}
}

func (r *Replayer) advanceClock(ts int64) {
	r.nowMs = ts
	r.curDate = r.cal.Date(ts)
	r.curTime = r.cal.MinuteTime(ts)
	r.curSecs = r.cal.Seconds(ts)
}

func (r *Replayer) factorFor(symbol string, date uint32) float64 {
	if m, ok := r.factors[symbol]; ok {
		if f, ok := m[date]; ok && f > 0 {
			return f
		}
	}
	return 1
}

func minuteAfter(tm uint32) uint32 {
	hh, mm := tm/100, tm%100+1
	if mm == 60 {
		hh, mm = hh+1, 0
	}
	return hh*100 + mm
}
