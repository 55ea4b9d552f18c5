package codec

import (
	"encoding/binary"

	"main/internal/schema"
)

const BarPayloadSize = 80

// EncodeBar serializes a bar into a fixed-size payload.
func EncodeBar(dst []byte, bar schema.Bar) []byte {
	if cap(dst) < BarPayloadSize {
		dst = make([]byte, BarPayloadSize)
	} else {
		dst = dst[:BarPayloadSize]
	}

	binary.LittleEndian.PutUint16(dst[0:2], uint16(bar.Interval))
	binary.LittleEndian.PutUint16(dst[2:4], 0)
	binary.LittleEndian.PutUint32(dst[4:8], bar.Date)
	binary.LittleEndian.PutUint32(dst[8:12], bar.Time)
	binary.LittleEndian.PutUint32(dst[12:16], 0)
	binary.LittleEndian.PutUint64(dst[16:24], uint64(bar.Ts))
	putFloat(dst[24:32], bar.Open)
	putFloat(dst[32:40], bar.High)
	putFloat(dst[40:48], bar.Low)
	putFloat(dst[48:56], bar.Close)
	putFloat(dst[56:64], bar.Volume)
	putFloat(dst[64:72], bar.Turnover)
	putFloat(dst[72:80], bar.OpenInterest)
	return dst
}

// DecodeBar parses a fixed-size bar payload.
func DecodeBar(src []byte) (schema.Bar, bool) {
	if len(src) < BarPayloadSize {
		return schema.Bar{}, false
	}
	return schema.Bar{
		Interval:     schema.Interval(binary.LittleEndian.Uint16(src[0:2])),
		Date:         binary.LittleEndian.Uint32(src[4:8]),
		Time:         binary.LittleEndian.Uint32(src[8:12]),
		Ts:           int64(binary.LittleEndian.Uint64(src[16:24])),
		Open:         getFloat(src[24:32]),
		High:         getFloat(src[32:40]),
		Low:          getFloat(src[40:48]),
		Close:        getFloat(src[48:56]),
		Volume:       getFloat(src[56:64]),
		Turnover:     getFloat(src[64:72]),
		OpenInterest: getFloat(src[72:80]),
	}, true
}
