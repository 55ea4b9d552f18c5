package obs

import "sync/atomic"

// Metrics collects lightweight counters for one replay run.
type Metrics struct {
	ticks        uint64
	simTicks     uint64
	orderDetails uint64
	transactions uint64
	barCloses    uint64
	taskFires    uint64
	trades       uint64
	orderUpdates uint64
	entrusts     uint64
	storeDrops   uint64
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	Ticks        uint64
	SimTicks     uint64
	OrderDetails uint64
	Transactions uint64
	BarCloses    uint64
	TaskFires    uint64
	Trades       uint64
	OrderUpdates uint64
	Entrusts     uint64
	StoreDrops   uint64
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// IncTick counts one dispatched tick; simulated marks synthesized ticks.
func (m *Metrics) IncTick(simulated bool) {
	if m == nil {
		return
	}
	if simulated {
		atomic.AddUint64(&m.simTicks, 1)
		return
	}
	atomic.AddUint64(&m.ticks, 1)
}

// IncOrderDetail counts one dispatched order-detail record.
func (m *Metrics) IncOrderDetail() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.orderDetails, 1)
}

// IncTransaction counts one dispatched transaction record.
func (m *Metrics) IncTransaction() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.transactions, 1)
}

// IncBarClose counts one closed bar.
func (m *Metrics) IncBarClose() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.barCloses, 1)
}

// IncTaskFire counts one scheduled task firing.
func (m *Metrics) IncTaskFire() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.taskFires, 1)
}

// IncTrade counts one simulated fill.
func (m *Metrics) IncTrade() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.trades, 1)
}

// IncOrderUpdate counts one order-update event.
func (m *Metrics) IncOrderUpdate() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.orderUpdates, 1)
}

// IncEntrust counts one entrust ack.
func (m *Metrics) IncEntrust() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.entrusts, 1)
}

// IncStoreDrop records a result event dropped by a full store queue.
func (m *Metrics) IncStoreDrop() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.storeDrops, 1)
}

// Snapshot returns a copy of the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		Ticks:        atomic.LoadUint64(&m.ticks),
		SimTicks:     atomic.LoadUint64(&m.simTicks),
		OrderDetails: atomic.LoadUint64(&m.orderDetails),
		Transactions: atomic.LoadUint64(&m.transactions),
		BarCloses:    atomic.LoadUint64(&m.barCloses),
		TaskFires:    atomic.LoadUint64(&m.taskFires),
		Trades:       atomic.LoadUint64(&m.trades),
		OrderUpdates: atomic.LoadUint64(&m.orderUpdates),
		Entrusts:     atomic.LoadUint64(&m.entrusts),
		StoreDrops:   atomic.LoadUint64(&m.storeDrops),
	}
}

// Events returns the total number of dispatched replay events.
func (s Snapshot) Events() uint64 {
	return s.Ticks + s.SimTicks + s.OrderDetails + s.Transactions + s.BarCloses + s.TaskFires
}
