package codec

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"math"
)

// castagnoliTable is the CRC-32C polynomial table; every checksum in a
// segment file is computed against it.
var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

// Encode appends the on-disk frame for rec to dst. payload is reused scratch
// space for assembling the pre-length-prefixed body (it is reset internally,
// callers just need to pass the same *bytes.Buffer across calls to amortize
// its backing array). scratch must have length at least
// binary.MaxVarintLen64.
func Encode(dst *bytes.Buffer, payload *bytes.Buffer, scratch []byte, rec Record) error {
	if rec.Tombstone && len(rec.Value) != 0 {
		return ErrTombstoneHasValue
	}

	payload.Reset()
	payload.Grow(1 + 8 + 2*binary.MaxVarintLen64 + len(rec.Key) + len(rec.Value))

	payload.WriteByte(rec.flags())
	if rec.HasTTL {
		var ttl [8]byte
		Endian.PutUint64(ttl[:], uint64(rec.TTL.Milliseconds()))
		payload.Write(ttl[:])
	}
	if _, err := WriteUvarint(payload, scratch, uint64(len(rec.Key))); err != nil {
		return err
	}
	if _, err := WriteUvarint(payload, scratch, uint64(len(rec.Value))); err != nil {
		return err
	}
	payload.Write(rec.Key)
	payload.Write(rec.Value)

	if payload.Len() > math.MaxUint32 {
		return ErrRecordTooLarge
	}

	if _, err := WriteUvarint(dst, scratch, uint64(payload.Len())); err != nil {
		return err
	}
	dst.Write(payload.Bytes())

	checksum := crc32.Checksum(payload.Bytes(), castagnoliTable)
	var crc [4]byte
	Endian.PutUint32(crc[:], checksum)
	dst.Write(crc[:])
	return nil
}
