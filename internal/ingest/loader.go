// Package ingest is the boundary to historical data sources. Loaders
// push contiguous batches of typed records to callbacks; there is no
// pull/iterator surface. A false return means the source has nothing
// for that request — the caller decides whether that is fatal.
package ingest

import "main/internal/schema"

// BarsCallback receives one contiguous batch of bars.
type BarsCallback func(bars []schema.Bar)

// TicksCallback receives one contiguous batch of ticks.
type TicksCallback func(ticks []schema.Tick)

// OrderDetailsCallback receives one contiguous batch of order-detail records.
type OrderDetailsCallback func(rows []schema.OrderDetail)

// TransactionsCallback receives one contiguous batch of transactions.
type TransactionsCallback func(rows []schema.Transaction)

// FactorsCallback receives per-date adjustment factors for one symbol.
type FactorsCallback func(symbol string, dates []uint32, factors []float64)

// Loader supplies raw history streams per symbol/date.
type Loader interface {
	LoadRawHistoryBars(symbol string, interval schema.Interval, cb BarsCallback) bool
	LoadFinalHistoryBars(symbol string, interval schema.Interval, cb BarsCallback) bool
	LoadRawHistoryTicks(symbol string, date uint32, cb TicksCallback) bool
	LoadRawOrderDetails(symbol string, date uint32, cb OrderDetailsCallback) bool
	LoadRawTransactions(symbol string, date uint32, cb TransactionsCallback) bool
	LoadAllFactors(cb FactorsCallback) bool
	LoadFactor(symbol string, cb FactorsCallback) bool
}
