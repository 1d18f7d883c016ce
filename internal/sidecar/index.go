package sidecar

import (
	"encoding/binary"

	"fixity/internal/ecc"
	"fixity/internal/errors"
	"fixity/internal/gf"
	"fixity/internal/rs"
)

// indexRecordWidth is the fixed width of one index-sidecar record: 1 byte
// of record type (1=entry marker, 2=field marker) followed by an 8-byte
// big-endian file offset, each individually protected by RS(27,9) — 9
// message bytes (1 type + 8 offset) padded and expanded to 27 total bytes.
// Kept unchanged from the reference implementation's layout per the
// corresponding OPEN QUESTION decision recorded in DESIGN.md.
const (
	indexMessageWidth = 9
	indexRecordWidth  = 27
	indexECCSize      = indexRecordWidth - indexMessageWidth
)

// IndexRecord is one entry in the index sidecar: the byte offset of a
// marker occurrence in the primary sidecar, and which kind of marker it
// is, so a framing repair can relocate markers even after corruption
// without relying on heuristics.
type IndexRecord struct {
	Offset     int64
	RecordType byte
}

// IndexCodec encodes and decodes fixed-width, individually-protected index
// records using a dedicated small-block RS codec.
type IndexCodec struct {
	mgr *ecc.Manager
}

// NewIndexCodec builds an IndexCodec over the standard field parameters.
func NewIndexCodec() (*IndexCodec, error) {
	codec, err := rs.NewCodec(indexRecordWidth, 1, gf.Standard)
	if err != nil {
		return nil, err
	}
	return &IndexCodec{mgr: ecc.NewManager(codec)}, nil
}

// Encode serializes one record to its protected 27-byte on-disk form
// (9 message bytes followed by 18 ECC bytes).
func (ic *IndexCodec) Encode(rec IndexRecord) ([]byte, error) {
	msg := make([]byte, indexMessageWidth)
	msg[0] = rec.RecordType
	binary.BigEndian.PutUint64(msg[1:9], uint64(rec.Offset))
	eccBytes, err := ic.mgr.Encode(msg, indexMessageWidth)
	if err != nil {
		return nil, err
	}
	block := make([]byte, indexRecordWidth)
	copy(block, msg)
	copy(block[indexMessageWidth:], eccBytes)
	return block, nil
}

// Decode recovers one record from its protected on-disk form, correcting
// up to indexECCSize/2 byte errors.
func (ic *IndexCodec) Decode(block []byte) (IndexRecord, error) {
	if len(block) != indexRecordWidth {
		return IndexRecord{}, errors.NewParameterError("block", "index record must be exactly 27 bytes")
	}
	msg, _, err := ic.mgr.Decode(block[:indexMessageWidth], block[indexMessageWidth:], indexMessageWidth, ecc.DecodeOptions{})
	if err != nil {
		return IndexRecord{}, err
	}
	rec := IndexRecord{
		Offset:     int64(binary.BigEndian.Uint64(msg[1:9])),
		RecordType: msg[0],
	}
	return rec, nil
}

// RecordWidth reports the fixed on-disk width of one index record.
func RecordWidth() int {
	return indexRecordWidth
}
