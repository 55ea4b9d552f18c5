// Package match simulates order execution against replayed ticks with
// queue-position modeling. One engine instance serves one account and
// is driven synchronously by the replay loop.
package match

// Sink receives matching events. HandleTrade carries both the
// reference price captured at submit time and the actual fill price.
type Sink interface {
	HandleTrade(localID uint64, symbol string, buy bool, qty, firePrice, price float64, ts int64)
	HandleOrder(localID uint64, symbol string, buy bool, leftover, price float64, canceled bool, ts int64)
	HandleEntrust(localID uint64, symbol string, success bool, message string, ts int64)
}

// NopSink implements Sink with no-ops, for embedding.
type NopSink struct{}

func (NopSink) HandleTrade(uint64, string, bool, float64, float64, float64, int64)  {}
func (NopSink) HandleOrder(uint64, string, bool, float64, float64, bool, int64)     {}
func (NopSink) HandleEntrust(uint64, string, bool, string, int64)                   {}
