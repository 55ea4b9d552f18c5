package core

import (
	"context"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/bus"
	"main/internal/match"
	"main/internal/obs"
	"main/internal/replay"
	"main/internal/schema"
	"main/internal/state"
	"main/internal/store"
)

const resultQueueSize = 4096

// resultEvent carries one persistable match event off the dispatch
// path. Exactly one field is set.
type resultEvent struct {
	trade *store.Trade
	order *store.OrderUpdate
}

// Runner is the replay sink and match sink of one backtest run. It
// forwards ticks into the engine, hands events to the strategy and
// streams results to the store through a bounded queue.
type Runner struct {
	replayer *replay.Replayer
	engine   *match.Engine
	strategy Strategy
	results  *store.Store
	metrics  *obs.Metrics

	positions *state.PositionReducer
	queue     *bus.Queue[resultEvent]
	ctx       *Context

	runID     uint64
	trades    uint64
	drainDone chan struct{}
}

// NewRunner builds a runner. results may be nil to skip persistence.
func NewRunner(strategy Strategy, results *store.Store, metrics *obs.Metrics) (*Runner, error) {
	if strategy == nil {
		return nil, errors.New("invalid runner config: nil strategy")
	}
	r := &Runner{
		strategy:  strategy,
		results:   results,
		metrics:   metrics,
		positions: state.NewPositionReducer(),
		queue:     bus.NewQueue[resultEvent](resultQueueSize),
		drainDone: make(chan struct{}),
	}
	r.ctx = &Context{runner: r}
	return r, nil
}

// Bind attaches the replayer and engine the runner drives. Both must
// have been constructed with this runner as their sink.
func (r *Runner) Bind(replayer *replay.Replayer, engine *match.Engine) {
	r.replayer = replayer
	r.engine = engine
}

// Run executes the whole backtest and blocks until results are
// flushed.
func (r *Runner) Run(ctx context.Context, mode replay.Mode, beginMs, endMs int64) error {
	if r.replayer == nil || r.engine == nil {
		return errors.New("runner not bound")
	}

	if r.results != nil {
		runID, err := r.results.CreateRun(mode.String(), beginMs, endMs)
		if err != nil {
			return err
		}
		r.runID = runID
	}

	go func() {
		defer close(r.drainDone)
		r.queue.Run(context.Background(), r.persist)
	}()

	runErr := r.replayer.Run(ctx)

	r.queue.Close()
	<-r.drainDone

	if r.results != nil {
		status := "done"
		if runErr != nil {
			status = "failed"
		}
		if err := r.results.FinishRun(r.runID, status, r.trades); err != nil {
			logs.Errorf("finish run %d: %+v", r.runID, err)
		}
	}
	return runErr
}

// Stop requests cooperative termination of the replay loop.
func (r *Runner) Stop() { r.replayer.Stop() }

func (r *Runner) persist(e resultEvent) {
	if r.results == nil {
		return
	}
	var err error
	switch {
	case e.trade != nil:
		err = r.results.AppendTrade(e.trade)
	case e.order != nil:
		err = r.results.AppendOrderUpdate(e.order)
	}
	if err != nil {
		logs.Errorf("persist result: %+v", err)
	}
}

func (r *Runner) publish(e resultEvent) {
	if r.results == nil {
		return
	}
	if err := r.queue.TryPublish(e); err != nil {
		if r.metrics != nil {
			r.metrics.IncStoreDrop()
		}
		logs.Warnf("result event dropped: %+v", err)
	}
}

// replay.Sink

func (r *Runner) OnInit() {
	r.strategy.OnInit(r.ctx)
}

func (r *Runner) OnSessionBegin(date uint32) {
	logs.Infof("session %d begin", date)
}

func (r *Runner) OnTick(tick *schema.Tick, simulated bool) {
	r.engine.HandleTick(tick)
	r.strategy.OnTick(r.ctx, tick, simulated)
}

func (r *Runner) OnOrderDetail(*schema.OrderDetail) {}

func (r *Runner) OnTransaction(*schema.Transaction) {}

func (r *Runner) OnBarClose(symbol string, interval schema.Interval, _ uint32, bar *schema.Bar) {
	r.strategy.OnBarClose(r.ctx, symbol, interval, bar)
}

func (r *Runner) OnSchedule(date, tm uint32) {
	r.strategy.OnSchedule(r.ctx, date, tm)
}

func (r *Runner) OnSectionEnd(uint32, uint32) {}

func (r *Runner) OnSessionEnd(date uint32) {
	logs.Infof("session %d end, %d trades so far", date, r.trades)
}

func (r *Runner) OnReplayDone() {
	logs.Infof("replay done, %d trades, %d orders working", r.trades, r.engine.Orders())
}

// match.Sink

func (r *Runner) HandleTrade(localID uint64, symbol string, buy bool, qty, firePrice, price float64, ts int64) {
	offset := schema.OffsetOpen
	if prior := r.positions.Position(symbol); (buy && prior < 0) || (!buy && prior > 0) {
		offset = schema.OffsetClose
	}
	position := r.positions.ApplyFill(symbol, buy, qty)
	fee := r.replayer.CalculateFee(symbol, price, qty, offset)
	r.trades++

	r.publish(resultEvent{trade: &store.Trade{
		RunID:     r.runID,
		LocalID:   localID,
		Symbol:    symbol,
		Buy:       buy,
		Qty:       qty,
		FirePrice: firePrice,
		Price:     price,
		Fee:       fee,
		Position:  position,
		Ts:        ts,
	}})
}

func (r *Runner) HandleOrder(localID uint64, symbol string, buy bool, leftover, price float64, canceled bool, ts int64) {
	r.publish(resultEvent{order: &store.OrderUpdate{
		RunID:    r.runID,
		LocalID:  localID,
		Symbol:   symbol,
		Buy:      buy,
		Leftover: leftover,
		Price:    price,
		Canceled: canceled,
		Ts:       ts,
	}})
}

func (r *Runner) HandleEntrust(localID uint64, symbol string, success bool, message string, _ int64) {
	if !success {
		logs.Warnf("entrust %d on %s rejected: %s", localID, symbol, message)
	}
}
