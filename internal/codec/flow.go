package codec

import (
	"encoding/binary"

	"main/internal/schema"
)

const (
	OrderDetailPayloadSize = 32
	TransactionPayloadSize = 32
)

// EncodeOrderDetail serializes an order-detail record.
func EncodeOrderDetail(dst []byte, od schema.OrderDetail) []byte {
	if cap(dst) < OrderDetailPayloadSize {
		dst = make([]byte, OrderDetailPayloadSize)
	} else {
		dst = dst[:OrderDetailPayloadSize]
	}
	binary.LittleEndian.PutUint16(dst[0:2], uint16(od.Side))
	for i := 2; i < 8; i++ {
		dst[i] = 0
	}
	binary.LittleEndian.PutUint64(dst[8:16], uint64(od.Ts))
	putFloat(dst[16:24], od.Price)
	putFloat(dst[24:32], od.Volume)
	return dst
}

// DecodeOrderDetail parses an order-detail payload.
func DecodeOrderDetail(src []byte) (schema.OrderDetail, bool) {
	if len(src) < OrderDetailPayloadSize {
		return schema.OrderDetail{}, false
	}
	return schema.OrderDetail{
		Side:   schema.Side(binary.LittleEndian.Uint16(src[0:2])),
		Ts:     int64(binary.LittleEndian.Uint64(src[8:16])),
		Price:  getFloat(src[16:24]),
		Volume: getFloat(src[24:32]),
	}, true
}

// EncodeTransaction serializes a transaction record.
func EncodeTransaction(dst []byte, tr schema.Transaction) []byte {
	if cap(dst) < TransactionPayloadSize {
		dst = make([]byte, TransactionPayloadSize)
	} else {
		dst = dst[:TransactionPayloadSize]
	}
	binary.LittleEndian.PutUint16(dst[0:2], uint16(tr.Side))
	for i := 2; i < 8; i++ {
		dst[i] = 0
	}
	binary.LittleEndian.PutUint64(dst[8:16], uint64(tr.Ts))
	putFloat(dst[16:24], tr.Price)
	putFloat(dst[24:32], tr.Volume)
	return dst
}

// DecodeTransaction parses a transaction payload.
func DecodeTransaction(src []byte) (schema.Transaction, bool) {
	if len(src) < TransactionPayloadSize {
		return schema.Transaction{}, false
	}
	return schema.Transaction{
		Side:   schema.Side(binary.LittleEndian.Uint16(src[0:2])),
		Ts:     int64(binary.LittleEndian.Uint64(src[8:16])),
		Price:  getFloat(src[16:24]),
		Volume: getFloat(src[24:32]),
	}, true
}
