package codec

import "encoding/binary"

// FactorPayloadSize is the fixed payload size of one adjustment factor record.
const FactorPayloadSize = 16

// EncodeFactor serializes one per-date adjustment factor.
func EncodeFactor(dst []byte, date uint32, factor float64) []byte {
	if cap(dst) < FactorPayloadSize {
		dst = make([]byte, FactorPayloadSize)
	} else {
		dst = dst[:FactorPayloadSize]
	}
	binary.LittleEndian.PutUint32(dst[0:4], date)
	binary.LittleEndian.PutUint32(dst[4:8], 0)
	putFloat(dst[8:16], factor)
	return dst
}

// DecodeFactor parses one per-date adjustment factor payload.
func DecodeFactor(src []byte) (uint32, float64, bool) {
	if len(src) < FactorPayloadSize {
		return 0, 0, false
	}
	return binary.LittleEndian.Uint32(src[0:4]), getFloat(src[8:16]), true
}
