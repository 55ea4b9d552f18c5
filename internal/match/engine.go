package match

import (
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/num"
	"main/internal/obs"
	"main/internal/schema"
)

// Engine matches resting and aggressive orders against replayed
// ticks. It exclusively owns its tick cache and order books; sharing
// one instance across concurrent runs is not safe.
type Engine struct {
	sink       Sink
	seq        *obs.Sequence
	metrics    *obs.Metrics
	cancelRate float64

	orders   map[uint64]*Order
	orderIDs []uint64 // insertion order, keeps matching deterministic
	books    map[string]*Book
	lastTick map[string]*schema.Tick
}

// NewEngine builds an engine. cancelRate in [0,1] is the fraction of
// a seeded queue assumed already canceled ahead of a new order.
func NewEngine(cancelRate float64, seq *obs.Sequence, sink Sink, metrics *obs.Metrics) (*Engine, error) {
	if sink == nil {
		return nil, errors.New("invalid match config: nil sink")
	}
	if seq == nil {
		return nil, errors.New("invalid match config: nil sequence")
	}
	if cancelRate < 0 || cancelRate > 1 {
		return nil, errors.Errorf("invalid match config: cancel rate %v out of [0,1]", cancelRate)
	}
	return &Engine{
		sink:       sink,
		seq:        seq,
		metrics:    metrics,
		cancelRate: cancelRate,
		orders:     map[uint64]*Order{},
		books:      map[string]*Book{},
		lastTick:   map[string]*schema.Tick{},
	}, nil
}

// Clear drops all working orders, books and cached ticks.
func (e *Engine) Clear() {
	e.orders = map[uint64]*Order{}
	e.orderIDs = e.orderIDs[:0]
	e.books = map[string]*Book{}
	e.lastTick = map[string]*schema.Tick{}
}

// LastTick returns the cached tick for a symbol, nil if none arrived.
func (e *Engine) LastTick(symbol string) *schema.Tick {
	return e.lastTick[symbol]
}

// Book returns the maintained price ladder for a symbol, nil before
// its first tick.
func (e *Engine) Book(symbol string) *Book {
	return e.books[symbol]
}

// Orders returns the number of working orders.
func (e *Engine) Orders() int { return len(e.orderIDs) }

// HandleTick is the per-tick orchestration: cache the tick, update
// the book, ack pending orders, match, then drop settled orders.
func (e *Engine) HandleTick(tick *schema.Tick) {
	if tick == nil {
		return
	}
	e.lastTick[tick.Symbol] = tick

	book := e.books[tick.Symbol]
	if book == nil {
		book = newBook()
		e.books[tick.Symbol] = book
	}
	book.Update(tick)

	e.ackPending(tick.Symbol)

	toErase := e.matchOrders(tick)
	for _, localID := range toErase {
		e.removeOrder(localID)
	}
}

// ackPending confirms entrusts for newly created orders on the ticked
// symbol, moving them into the active set.
func (e *Engine) ackPending(symbol string) {
	for _, localID := range e.orderIDs {
		order := e.orders[localID]
		if order.state != stateNew || order.Symbol != symbol {
			continue
		}
		if e.metrics != nil {
			e.metrics.IncEntrust()
		}
		e.sink.HandleEntrust(localID, order.Symbol, true, "", order.Time)
		e.sink.HandleOrder(localID, order.Symbol, order.Buy, order.Left, order.Limit, false, order.Time)
		order.state = stateActive
	}
}

// InvalidateSymbol force-fails every working order on a halted
// symbol: pending orders are reported as rejected, active ones as
// canceled, and all are removed.
func (e *Engine) InvalidateSymbol(symbol string, ts int64) {
	var toErase []uint64
	for _, localID := range e.orderIDs {
		order := e.orders[localID]
		if order.Symbol != symbol || order.state == stateCanceled {
			continue
		}
		if order.state == stateNew {
			e.sink.HandleEntrust(localID, order.Symbol, false, "symbol halted", ts)
		} else {
			e.sink.HandleOrder(localID, order.Symbol, order.Buy, 0, order.Limit, true, ts)
		}
		order.state = stateCanceled
		order.Left = 0
		toErase = append(toErase, localID)
	}
	for _, localID := range toErase {
		e.removeOrder(localID)
	}
}

func (e *Engine) matchOrders(tick *schema.Tick) []uint64 {
	var toErase []uint64
	for _, localID := range e.orderIDs {
		order := e.orders[localID]
		if order.Symbol != tick.Symbol {
			continue
		}

		if order.state == stateCancelRequested {
			e.sink.HandleOrder(localID, order.Symbol, order.Buy, 0, order.Limit, true, order.Time)
			order.state = stateCanceled
			toErase = append(toErase, localID)
			logs.Infof("local order %d canceled, left: %v", localID, signedLeft(order))
			order.Left = 0
			continue
		}

		if order.state != stateActive || tick.Volume == 0 {
			continue
		}

		var price, volume float64
		if order.Buy {
			if order.Positive {
				price, volume = tick.Asks[0].Price, tick.Asks[0].Volume
			} else {
				price, volume = tick.Last, tick.LastVolume
			}
			if !num.LessEqual(price, order.Limit) {
				continue
			}
		} else {
			if order.Positive {
				price, volume = tick.Bids[0].Price, tick.Bids[0].Volume
			} else {
				price, volume = tick.Last, tick.LastVolume
			}
			if !num.GreaterEqual(price, order.Limit) {
				continue
			}
		}

		if !order.Positive && num.Equal(price, order.Limit) {
			// Incoming volume at the order's price first burns the
			// estimated queue ahead of it.
			if volume <= order.Queue {
				order.Queue -= volume
				continue
			}
			if order.Queue != 0 {
				volume -= order.Queue
				order.Queue = 0
			}
		} else if !order.Positive {
			// Price improved past the limit: treat as fully available.
			volume = order.Left
		}

		qty := num.Min(volume, order.Left)
		if num.IsZero(qty) {
			qty = 1
		}

		if e.metrics != nil {
			e.metrics.IncTrade()
		}
		e.sink.HandleTrade(localID, order.Symbol, order.Buy, qty, order.FirePrice, price, order.Time)

		order.Traded += qty
		order.Left -= qty

		if e.metrics != nil {
			e.metrics.IncOrderUpdate()
		}
		e.sink.HandleOrder(localID, order.Symbol, order.Buy, order.Left, price, false, order.Time)

		if order.Left == 0 {
			toErase = append(toErase, localID)
		}
	}
	return toErase
}

// Buy places a limit buy. It needs a cached tick for the symbol to
// seed the queue position and returns no ids without one.
func (e *Engine) Buy(symbol string, price, qty float64, ts int64) []uint64 {
	tick := e.lastTick[symbol]
	if tick == nil {
		return nil
	}

	order := &Order{
		LocalID:   e.seq.Next(),
		Symbol:    symbol,
		Buy:       true,
		Qty:       qty,
		Left:      qty,
		Limit:     price,
		FirePrice: tick.Last,
		Time:      ts,
	}

	if num.GreaterEqual(price, tick.Asks[0].Price) {
		order.Positive = true
	} else if num.Equal(price, tick.Bids[0].Price) {
		order.Queue = tick.Bids[0].Volume
	}
	if num.Equal(price, tick.Last) {
		order.Queue = crossQueue(tick)
	}
	order.Queue -= float64(num.RoundInt(order.Queue * e.cancelRate))

	e.insertOrder(order)
	return []uint64{order.LocalID}
}

// Sell places a limit sell, mirroring Buy's queue seeding.
func (e *Engine) Sell(symbol string, price, qty float64, ts int64) []uint64 {
	tick := e.lastTick[symbol]
	if tick == nil {
		return nil
	}

	order := &Order{
		LocalID:   e.seq.Next(),
		Symbol:    symbol,
		Qty:       qty,
		Left:      qty,
		Limit:     price,
		FirePrice: tick.Last,
		Time:      ts,
	}

	if num.Equal(price, tick.Asks[0].Price) {
		order.Queue = tick.Asks[0].Volume
	} else if num.LessEqual(price, tick.Bids[0].Price) {
		order.Positive = true
	}
	if num.Equal(price, tick.Last) {
		order.Queue = crossQueue(tick)
	}
	order.Queue -= float64(num.RoundInt(order.Queue * e.cancelRate))

	e.insertOrder(order)
	return []uint64{order.LocalID}
}

// crossQueue estimates an unseen resting queue at the last price from
// the volume-weighted level-1 depth.
func crossQueue(tick *schema.Tick) float64 {
	denom := tick.Asks[0].Price + tick.Bids[0].Price
	if denom == 0 {
		return 0
	}
	return float64(num.RoundInt((tick.Asks[0].Volume*tick.Asks[0].Price + tick.Bids[0].Volume*tick.Bids[0].Price) / denom))
}

// Cancel requests cancellation of one order and returns its signed
// remaining quantity, 0 when the id is unknown or already settled.
func (e *Engine) Cancel(localID uint64) float64 {
	order, ok := e.orders[localID]
	if !ok || order.state == stateCanceled {
		return 0
	}
	order.state = stateCancelRequested
	return signedLeft(order)
}

// CancelBulk requests cancellation of active orders matching symbol
// and side, reporting each signed leftover to cb. qty caps the total
// canceled size; the compare truncates the running remainder to an
// integer, and the order crossing the cap is still included. qty 0
// cancels everything matching.
func (e *Engine) CancelBulk(symbol string, buy bool, qty float64, cb func(signedLeft float64)) []uint64 {
	var canceled []uint64
	left := qty
	for _, localID := range e.orderIDs {
		order := e.orders[localID]
		if order.state != stateActive || order.Symbol != symbol || order.Buy != buy {
			continue
		}
		canceled = append(canceled, localID)
		order.state = stateCancelRequested
		if cb != nil {
			cb(signedLeft(order))
		}
		if qty != 0 {
			// The running remainder is truncated before the compare.
			if float64(int64(left)) <= order.Left {
				break
			}
			left -= order.Left
		}
	}
	return canceled
}

func (e *Engine) insertOrder(order *Order) {
	e.orders[order.LocalID] = order
	e.orderIDs = append(e.orderIDs, order.LocalID)
}

func (e *Engine) removeOrder(localID uint64) {
	if _, ok := e.orders[localID]; !ok {
		return
	}
	delete(e.orders, localID)
	for i, id := range e.orderIDs {
		if id == localID {
			e.orderIDs = append(e.orderIDs[:i], e.orderIDs[i+1:]...)
			break
		}
	}
}

func signedLeft(order *Order) float64 {
	if order.Buy {
		return order.Left
	}
	return -order.Left
}
