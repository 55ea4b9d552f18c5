// Package replay merges per-symbol historical streams into one global,
// time-ordered event sequence and drives a Sink through it. It owns
// the stream cursors, bar aggregation, task scheduling and the query
// surface strategies read from.
package replay

import "main/internal/schema"

// Sink receives replay events in global chronological order. OnTick
// reports simulated=true for ticks synthesized from bar closes.
type Sink interface {
	OnInit()
	OnSessionBegin(date uint32)
	OnTick(tick *schema.Tick, simulated bool)
	OnOrderDetail(od *schema.OrderDetail)
	OnTransaction(tr *schema.Transaction)
	OnBarClose(symbol string, interval schema.Interval, barTime uint32, bar *schema.Bar)
	OnSchedule(date, tm uint32)
	OnSectionEnd(date, tm uint32)
	OnSessionEnd(date uint32)
	OnReplayDone()
}

// NopSink implements Sink with no-ops, for embedding.
type NopSink struct{}

func (NopSink) OnInit()                                                   {}
func (NopSink) OnSessionBegin(uint32)                                     {}
func (NopSink) OnTick(*schema.Tick, bool)                                 {}
func (NopSink) OnOrderDetail(*schema.OrderDetail)                         {}
func (NopSink) OnTransaction(*schema.Transaction)                         {}
func (NopSink) OnBarClose(string, schema.Interval, uint32, *schema.Bar)   {}
func (NopSink) OnSchedule(uint32, uint32)                                 {}
func (NopSink) OnSectionEnd(uint32, uint32)                               {}
func (NopSink) OnSessionEnd(uint32)                                       {}
func (NopSink) OnReplayDone()                                             {}
