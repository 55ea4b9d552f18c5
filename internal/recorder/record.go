// Package recorder reads and writes segmented binary history files.
// Each file carries one symbol/date (ticks, order flow) or one
// symbol/interval (bars) as a sequence of checksummed records.
package recorder

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"

	"github.com/yanun0323/errors"
)

const (
	recordVersion      uint16 = 1
	recordHeaderSize          = 32
	recordChecksumSize        = 4
)

var (
	recordMagic = [4]byte{'H', 'S', 'T', '1'}
	crcTable    = crc32.MakeTable(crc32.Castagnoli)
)

var (
	ErrInvalidMagic            = errors.New("history invalid magic")
	ErrUnsupportedRecordVer    = errors.New("history unsupported record version")
	ErrInvalidRecordHeaderSize = errors.New("history invalid header size")
)

// RecordKind tags the payload type of one record.
type RecordKind uint16

const (
	KindUnknown RecordKind = iota
	KindTick
	KindBar
	KindOrderDetail
	KindTransaction
	KindFactor
)

// Header is the per-record metadata.
type Header struct {
	Kind RecordKind
	Seq  uint64
	Ts   int64 // exchange timestamp, unix milliseconds
}

func encodeHeader(dst []byte, header Header, payloadLen int) {
	_ = dst[recordHeaderSize-1]
	copy(dst[0:4], recordMagic[:])
	binary.LittleEndian.PutUint16(dst[4:6], recordVersion)
	binary.LittleEndian.PutUint16(dst[6:8], uint16(recordHeaderSize))
	binary.LittleEndian.PutUint16(dst[8:10], uint16(header.Kind))
	binary.LittleEndian.PutUint16(dst[10:12], 0)
	binary.LittleEndian.PutUint32(dst[12:16], uint32(payloadLen))
	binary.LittleEndian.PutUint64(dst[16:24], header.Seq)
	binary.LittleEndian.PutUint64(dst[24:32], uint64(header.Ts))
}

func checksum(header []byte, payload []byte) uint32 {
	crc := crc32.Update(0, crcTable, header)
	return crc32.Update(crc, crcTable, payload)
}

func decodeRecordHeader(src []byte) (Header, uint32, error) {
	if len(src) < recordHeaderSize {
		return Header{}, 0, ErrInvalidRecordHeaderSize
	}
	if !bytes.Equal(src[0:4], recordMagic[:]) {
		return Header{}, 0, ErrInvalidMagic
	}
	if ver := binary.LittleEndian.Uint16(src[4:6]); ver != recordVersion {
		return Header{}, 0, ErrUnsupportedRecordVer
	}
	if headerSize := binary.LittleEndian.Uint16(src[6:8]); headerSize != recordHeaderSize {
		return Header{}, 0, ErrInvalidRecordHeaderSize
	}
	payloadLen := binary.LittleEndian.Uint32(src[12:16])
	h := Header{
		Kind: RecordKind(binary.LittleEndian.Uint16(src[8:10])),
		Seq:  binary.LittleEndian.Uint64(src[16:24]),
		Ts:   int64(binary.LittleEndian.Uint64(src[24:32])),
	}
	return h, payloadLen, nil
}
