// Package codec provides fixed-width little-endian payload encodings
// for history records. Symbols are carried by file naming, not by the
// payloads themselves.
package codec

import (
	"encoding/binary"
	"math"

	"main/internal/schema"
)

const TickPayloadSize = 64 + 2*schema.DepthLevels*16

// EncodeTick serializes a tick into a fixed-size payload.
func EncodeTick(dst []byte, tick schema.Tick) []byte {
	if cap(dst) < TickPayloadSize {
		dst = make([]byte, TickPayloadSize)
	} else {
		dst = dst[:TickPayloadSize]
	}

	binary.LittleEndian.PutUint32(dst[0:4], tick.TradingDate)
	binary.LittleEndian.PutUint32(dst[4:8], 0)
	binary.LittleEndian.PutUint64(dst[8:16], uint64(tick.TsExchange))
	binary.LittleEndian.PutUint64(dst[16:24], uint64(tick.TsLocal))
	putFloat(dst[24:32], tick.Last)
	putFloat(dst[32:40], tick.LastVolume)
	putFloat(dst[40:48], tick.Volume)
	putFloat(dst[48:56], tick.Turnover)
	putFloat(dst[56:64], tick.OpenInterest)

	off := 64
	for i := 0; i < schema.DepthLevels; i++ {
		putFloat(dst[off:off+8], tick.Bids[i].Price)
		putFloat(dst[off+8:off+16], tick.Bids[i].Volume)
		off += 16
	}
	for i := 0; i < schema.DepthLevels; i++ {
		putFloat(dst[off:off+8], tick.Asks[i].Price)
		putFloat(dst[off+8:off+16], tick.Asks[i].Volume)
		off += 16
	}
	return dst
}

// DecodeTick parses a fixed-size tick payload. The symbol field is
// left empty for the caller to fill.
func DecodeTick(src []byte) (schema.Tick, bool) {
	if len(src) < TickPayloadSize {
		return schema.Tick{}, false
	}
	tick := schema.Tick{
		TradingDate:  binary.LittleEndian.Uint32(src[0:4]),
		TsExchange:   int64(binary.LittleEndian.Uint64(src[8:16])),
		TsLocal:      int64(binary.LittleEndian.Uint64(src[16:24])),
		Last:         getFloat(src[24:32]),
		LastVolume:   getFloat(src[32:40]),
		Volume:       getFloat(src[40:48]),
		Turnover:     getFloat(src[48:56]),
		OpenInterest: getFloat(src[56:64]),
	}
	off := 64
	for i := 0; i < schema.DepthLevels; i++ {
		tick.Bids[i] = schema.Level{Price: getFloat(src[off : off+8]), Volume: getFloat(src[off+8 : off+16])}
		off += 16
	}
	for i := 0; i < schema.DepthLevels; i++ {
		tick.Asks[i] = schema.Level{Price: getFloat(src[off : off+8]), Volume: getFloat(src[off+8 : off+16])}
		off += 16
	}
	return tick, true
}

func putFloat(dst []byte, v float64) {
	binary.LittleEndian.PutUint64(dst, math.Float64bits(v))
}

func getFloat(src []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(src))
}
