package ingest

import "main/internal/schema"

type barKey struct {
	symbol   string
	interval schema.Interval
}

type dateKey struct {
	symbol string
	date   uint32
}

// MemoryLoader serves history from in-memory batches. Useful for tests
// and synthetic runs.
type MemoryLoader struct {
	rawBars      map[barKey][]schema.Bar
	finalBars    map[barKey][]schema.Bar
	ticks        map[dateKey][]schema.Tick
	orderDetails map[dateKey][]schema.OrderDetail
	transactions map[dateKey][]schema.Transaction
	factorDates  map[string][]uint32
	factors      map[string][]float64
	symbols      []string
}

// NewMemoryLoader returns an empty in-memory loader.
func NewMemoryLoader() *MemoryLoader {
	return &MemoryLoader{
		rawBars:      map[barKey][]schema.Bar{},
		finalBars:    map[barKey][]schema.Bar{},
		ticks:        map[dateKey][]schema.Tick{},
		orderDetails: map[dateKey][]schema.OrderDetail{},
		transactions: map[dateKey][]schema.Transaction{},
		factorDates:  map[string][]uint32{},
		factors:      map[string][]float64{},
	}
}

// AddRawBars appends raw bars for one symbol/interval.
func (m *MemoryLoader) AddRawBars(symbol string, interval schema.Interval, bars ...schema.Bar) {
	k := barKey{symbol, interval}
	m.rawBars[k] = append(m.rawBars[k], bars...)
}

// AddFinalBars appends factor-adjusted bars for one symbol/interval.
func (m *MemoryLoader) AddFinalBars(symbol string, interval schema.Interval, bars ...schema.Bar) {
	k := barKey{symbol, interval}
	m.finalBars[k] = append(m.finalBars[k], bars...)
}

// AddTicks appends ticks for one symbol/date.
func (m *MemoryLoader) AddTicks(symbol string, date uint32, ticks ...schema.Tick) {
	k := dateKey{symbol, date}
	m.ticks[k] = append(m.ticks[k], ticks...)
}

// AddOrderDetails appends raw order flow for one symbol/date.
func (m *MemoryLoader) AddOrderDetails(symbol string, date uint32, rows ...schema.OrderDetail) {
	k := dateKey{symbol, date}
	m.orderDetails[k] = append(m.orderDetails[k], rows...)
}

// AddTransactions appends raw trades for one symbol/date.
func (m *MemoryLoader) AddTransactions(symbol string, date uint32, rows ...schema.Transaction) {
	k := dateKey{symbol, date}
	m.transactions[k] = append(m.transactions[k], rows...)
}

// AddFactor appends one per-date adjustment factor for a symbol.
func (m *MemoryLoader) AddFactor(symbol string, date uint32, factor float64) {
	if _, ok := m.factors[symbol]; !ok {
		m.symbols = append(m.symbols, symbol)
	}
	m.factorDates[symbol] = append(m.factorDates[symbol], date)
	m.factors[symbol] = append(m.factors[symbol], factor)
}

func (m *MemoryLoader) LoadRawHistoryBars(symbol string, interval schema.Interval, cb BarsCallback) bool {
	bars, ok := m.rawBars[barKey{symbol, interval}]
	if !ok {
		return false
	}
	cb(bars)
	return true
}

func (m *MemoryLoader) LoadFinalHistoryBars(symbol string, interval schema.Interval, cb BarsCallback) bool {
	bars, ok := m.finalBars[barKey{symbol, interval}]
	if !ok {
		return false
	}
	cb(bars)
	return true
}

func (m *MemoryLoader) LoadRawHistoryTicks(symbol string, date uint32, cb TicksCallback) bool {
	ticks, ok := m.ticks[dateKey{symbol, date}]
	if !ok {
		return false
	}
	cb(ticks)
	return true
}

func (m *MemoryLoader) LoadRawOrderDetails(symbol string, date uint32, cb OrderDetailsCallback) bool {
	rows, ok := m.orderDetails[dateKey{symbol, date}]
	if !ok {
		return false
	}
	cb(rows)
	return true
}

func (m *MemoryLoader) LoadRawTransactions(symbol string, date uint32, cb TransactionsCallback) bool {
	rows, ok := m.transactions[dateKey{symbol, date}]
	if !ok {
		return false
	}
	cb(rows)
	return true
}

func (m *MemoryLoader) LoadAllFactors(cb FactorsCallback) bool {
	if len(m.symbols) == 0 {
		return false
	}
	for _, symbol := range m.symbols {
		cb(symbol, m.factorDates[symbol], m.factors[symbol])
	}
	return true
}

func (m *MemoryLoader) LoadFactor(symbol string, cb FactorsCallback) bool {
	dates, ok := m.factorDates[symbol]
	if !ok {
		return false
	}
	cb(symbol, dates, m.factors[symbol])
	return true
}
