package match

import (
	"testing"

	"main/internal/obs"
	"main/internal/schema"
)

type tradeEvent struct {
	localID   uint64
	buy       bool
	qty       float64
	firePrice float64
	price     float64
}

type orderEvent struct {
	localID  uint64
	leftover float64
	canceled bool
}

type entrustEvent struct {
	localID uint64
	success bool
}

type captureSink struct {
	trades   []tradeEvent
	orders   []orderEvent
	entrusts []entrustEvent
	sequence []string
}

func (s *captureSink) HandleTrade(localID uint64, _ string, buy bool, qty, firePrice, price float64, _ int64) {
	s.trades = append(s.trades, tradeEvent{localID, buy, qty, firePrice, price})
	s.sequence = append(s.sequence, "trade")
}

func (s *captureSink) HandleOrder(localID uint64, _ string, _ bool, leftover, _ float64, canceled bool, _ int64) {
	s.orders = append(s.orders, orderEvent{localID, leftover, canceled})
	s.sequence = append(s.sequence, "order")
}

func (s *captureSink) HandleEntrust(localID uint64, _ string, success bool, _ string, _ int64) {
	s.entrusts = append(s.entrusts, entrustEvent{localID, success})
	s.sequence = append(s.sequence, "entrust")
}

func newTestEngine(t *testing.T, cancelRate float64) (*Engine, *captureSink) {
	t.Helper()
	sink := &captureSink{}
	e, err := NewEngine(cancelRate, obs.NewSequence(0), sink, obs.NewMetrics())
	if err != nil {
		t.Fatalf("new engine: %+v", err)
	}
	return e, sink
}

func depthTick(symbol string, last, lastVol, bidPx, bidVol, askPx, askVol float64) *schema.Tick {
	tick := &schema.Tick{
		Symbol:     symbol,
		TsExchange: 1683161100000,
		Last:       last,
		LastVolume: lastVol,
		Volume:     1000,
	}
	tick.Bids[0] = schema.Level{Price: bidPx, Volume: bidVol}
	tick.Asks[0] = schema.Level{Price: askPx, Volume: askVol}
	return tick
}

func TestBuyWithoutTickReturnsEmpty(t *testing.T) {
	e, _ := newTestEngine(t, 0)
	if ids := e.Buy("rb2401", 3600, 1, 1); len(ids) != 0 {
		t.Fatalf("buy without tick returned ids: %v", ids)
	}
	if ids := e.Sell("rb2401", 3600, 1, 1); len(ids) != 0 {
		t.Fatalf("sell without tick returned ids: %v", ids)
	}
}

func TestAggressiveBuyFillsAtAsk(t *testing.T) {
	e, sink := newTestEngine(t, 0)
	e.HandleTick(depthTick("rb2401", 10.02, 5, 10.00, 100, 10.05, 50))

	ids := e.Buy("rb2401", 10.05, 30, 7)
	if len(ids) != 1 {
		t.Fatalf("buy returned %v", ids)
	}
	if order := e.orders[ids[0]]; !order.Positive {
		t.Fatal("limit at the ask not marked positive")
	}

	e.HandleTick(depthTick("rb2401", 10.03, 2, 10.00, 100, 10.04, 60))
	if len(sink.trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(sink.trades))
	}
	trade := sink.trades[0]
	if trade.qty != 30 || trade.price != 10.04 || trade.firePrice != 10.02 {
		t.Fatalf("trade = %+v", trade)
	}
	if e.Orders() != 0 {
		t.Fatalf("filled order not removed, %d working", e.Orders())
	}
}

func TestEntrustAckPrecedesFirstTrade(t *testing.T) {
	e, sink := newTestEngine(t, 0)
	e.HandleTick(depthTick("rb2401", 10.02, 5, 10.00, 100, 10.05, 50))
	e.Buy("rb2401", 10.05, 30, 7)
	e.HandleTick(depthTick("rb2401", 10.03, 2, 10.00, 100, 10.05, 60))

	if len(sink.entrusts) != 1 || !sink.entrusts[0].success {
		t.Fatalf("entrusts = %+v", sink.entrusts)
	}
	if len(sink.sequence) < 2 || sink.sequence[0] != "entrust" {
		t.Fatalf("event sequence = %v, want entrust first", sink.sequence)
	}
	for i, kind := range sink.sequence {
		if kind == "trade" {
			return
		}
		if i == len(sink.sequence)-1 {
			t.Fatalf("no trade in sequence %v", sink.sequence)
		}
	}
}

func TestPassiveBuyConsumesQueueFirst(t *testing.T) {
	e, sink := newTestEngine(t, 0)
	e.HandleTick(depthTick("rb2401", 10.02, 5, 10.00, 100, 10.05, 50))

	ids := e.Buy("rb2401", 10.00, 40, 7)
	if order := e.orders[ids[0]]; order.Positive || order.Queue != 100 {
		t.Fatalf("seed = positive %v queue %v, want passive queue 100", order.Positive, order.Queue)
	}

	// 60 trade at the level only burns queue.
	e.HandleTick(depthTick("rb2401", 10.00, 60, 10.00, 40, 10.05, 50))
	if len(sink.trades) != 0 {
		t.Fatalf("filled while queue ahead: %+v", sink.trades)
	}
	if order := e.orders[ids[0]]; order.Queue != 40 {
		t.Fatalf("queue = %v, want 40", order.Queue)
	}

	// 70 more: 40 finish the queue, 30 fill the order.
	e.HandleTick(depthTick("rb2401", 10.00, 70, 10.00, 40, 10.05, 50))
	if len(sink.trades) != 1 || sink.trades[0].qty != 30 {
		t.Fatalf("trades = %+v, want one fill of 30", sink.trades)
	}

	// Queue exhausted: incoming volume fills directly.
	e.HandleTick(depthTick("rb2401", 10.00, 5, 10.00, 40, 10.05, 50))
	if len(sink.trades) != 2 || sink.trades[1].qty != 5 {
		t.Fatalf("trades = %+v, want second fill of 5", sink.trades)
	}
	if order := e.orders[ids[0]]; order.Left != 5 {
		t.Fatalf("left = %v, want 5", order.Left)
	}
}

func TestCancelRateHaircut(t *testing.T) {
	seed := func(rate float64) float64 {
		e, _ := newTestEngine(t, rate)
		e.HandleTick(depthTick("rb2401", 10.02, 5, 10.00, 100, 10.05, 50))
		ids := e.Buy("rb2401", 10.00, 40, 7)
		return e.orders[ids[0]].Queue
	}
	if q := seed(0); q != 100 {
		t.Fatalf("rate 0 queue = %v, want 100", q)
	}
	if q := seed(1); q != 0 {
		t.Fatalf("rate 1 queue = %v, want 0", q)
	}
	if q := seed(0.3); q != 70 {
		t.Fatalf("rate 0.3 queue = %v, want 70", q)
	}
	if !(seed(0) >= seed(0.3) && seed(0.3) >= seed(0.7) && seed(0.7) >= seed(1)) {
		t.Fatal("haircut not monotonic in cancel rate")
	}
}

func TestCrossQueueSeedOverridesTouchSeed(t *testing.T) {
	e, _ := newTestEngine(t, 0)
	// Last trade sits on the bid: both seeding rules apply, the
	// volume-weighted estimate wins.
	e.HandleTick(depthTick("rb2401", 10.00, 5, 10.00, 100, 10.05, 60))
	ids := e.Buy("rb2401", 10.00, 40, 7)
	// (60*10.05 + 100*10.00) / (10.05 + 10.00) = 79.95... -> 80
	if order := e.orders[ids[0]]; order.Queue != 80 {
		t.Fatalf("queue = %v, want 80", order.Queue)
	}
}

func TestMinimumOneUnitFill(t *testing.T) {
	e, sink := newTestEngine(t, 0)
	e.HandleTick(depthTick("rb2401", 10.02, 5, 10.00, 100, 10.05, 50))
	e.Buy("rb2401", 10.05, 30, 7)

	// Crossing tick with zero announced ask volume still trades one unit.
	e.HandleTick(depthTick("rb2401", 10.03, 2, 10.00, 100, 10.04, 0))
	if len(sink.trades) != 1 || sink.trades[0].qty != 1 {
		t.Fatalf("trades = %+v, want forced one-unit fill", sink.trades)
	}
}

func TestZeroVolumeTickSkipsMatching(t *testing.T) {
	e, sink := newTestEngine(t, 0)
	e.HandleTick(depthTick("rb2401", 10.02, 5, 10.00, 100, 10.05, 50))
	e.Buy("rb2401", 10.05, 30, 7)

	halted := depthTick("rb2401", 10.03, 2, 10.00, 100, 10.04, 60)
	halted.Volume = 0
	e.HandleTick(halted)
	if len(sink.trades) != 0 {
		t.Fatalf("matched on zero-volume tick: %+v", sink.trades)
	}
}

func TestCancelLifecycle(t *testing.T) {
	e, sink := newTestEngine(t, 0)
	e.HandleTick(depthTick("rb2401", 10.02, 5, 10.00, 100, 10.05, 50))
	ids := e.Buy("rb2401", 9.00, 40, 7)
	e.HandleTick(depthTick("rb2401", 10.02, 5, 10.00, 100, 10.05, 50))

	if left := e.Cancel(ids[0]); left != 40 {
		t.Fatalf("cancel returned %v, want 40", left)
	}
	if left := e.Cancel(12345); left != 0 {
		t.Fatalf("cancel of unknown id returned %v", left)
	}

	e.HandleTick(depthTick("rb2401", 10.02, 5, 10.00, 100, 10.05, 50))
	last := sink.orders[len(sink.orders)-1]
	if !last.canceled || last.leftover != 0 {
		t.Fatalf("final order event = %+v, want canceled leftover 0", last)
	}
	if e.Orders() != 0 {
		t.Fatalf("canceled order not removed, %d working", e.Orders())
	}
	if left := e.Cancel(ids[0]); left != 0 {
		t.Fatalf("cancel of settled id returned %v", left)
	}
}

func TestCancelBulkCapTruncation(t *testing.T) {
	e, _ := newTestEngine(t, 0)
	e.HandleTick(depthTick("rb2401", 10.02, 5, 10.00, 100, 10.05, 50))
	e.Buy("rb2401", 9.00, 2, 7)
	e.Buy("rb2401", 9.00, 3, 7)
	e.Buy("rb2401", 9.00, 4, 7)
	e.Sell("rb2401", 11.00, 5, 7)
	e.HandleTick(depthTick("rb2401", 10.02, 5, 10.00, 100, 10.05, 50))

	var reported []float64
	canceled := e.CancelBulk("rb2401", true, 5.9, func(left float64) {
		reported = append(reported, left)
	})
	// Cap 5.9 truncates to 5 against the running remainder: the first
	// order leaves 3.9 -> 3, which the second order's size reaches.
	if len(canceled) != 2 {
		t.Fatalf("canceled %d orders, want 2", len(canceled))
	}
	if len(reported) != 2 || reported[0] != 2 || reported[1] != 3 {
		t.Fatalf("reported leftovers = %v, want [2 3]", reported)
	}

	// Side and symbol must both match.
	if more := e.CancelBulk("rb2401", false, 0, nil); len(more) != 1 {
		t.Fatalf("sell-side bulk cancel hit %d orders, want 1", len(more))
	}
	if other := e.CancelBulk("hc2401", true, 0, nil); len(other) != 0 {
		t.Fatalf("bulk cancel crossed symbols: %d orders", len(other))
	}
}

func TestInvalidateSymbol(t *testing.T) {
	e, sink := newTestEngine(t, 0)
	e.HandleTick(depthTick("rb2401", 10.02, 5, 10.00, 100, 10.05, 50))
	active := e.Buy("rb2401", 9.00, 4, 7)
	e.HandleTick(depthTick("rb2401", 10.02, 5, 10.00, 100, 10.05, 50))
	pending := e.Buy("rb2401", 9.00, 2, 8)

	e.InvalidateSymbol("rb2401", 9)
	if e.Orders() != 0 {
		t.Fatalf("%d orders survived invalidation", e.Orders())
	}
	var rejected bool
	for _, ev := range sink.entrusts {
		if ev.localID == pending[0] && !ev.success {
			rejected = true
		}
	}
	if !rejected {
		t.Fatalf("pending order not rejected: %+v", sink.entrusts)
	}
	last := sink.orders[len(sink.orders)-1]
	if !last.canceled || last.localID != active[0] {
		t.Fatalf("active order not canceled: %+v", last)
	}
}
