// Package saltrec decodes the fixed-layout salt records that hashcat hands to
// bridge plugins.
package saltrec

import (
	"encoding/binary"
	"fmt"
)

const (
	// BufSize is the capacity of each salt buffer in a record.
	BufSize = 256
	// SignSize is the size of the salt signature field.
	SignSize = 8
	// RecordSize is the encoded size of one record.
	RecordSize = 2*BufSize + 5*4 + SignSize + 8*4
)

// Record is one decoded salt entry. Salt and SaltPC are truncated to their
// declared lengths.
type Record struct {
	Salt          []byte
	SaltPC        []byte
	Iter          uint32
	Iter2         uint32
	DimY          uint32
	Sign          [SignSize]byte
	Repeats       uint32
	OrigPos       uint32
	DigestsCnt    uint32
	DigestsDone   uint32
	DigestsOffset uint32
	ScryptN       uint32
	ScryptR       uint32
	ScryptP       uint32
}

// Decode splits blob into records. blob must be a whole number of records.
func Decode(blob []byte) ([]Record, error) {
	if len(blob)%RecordSize != 0 {
		return nil, fmt.Errorf("salt blob is %d bytes, not a multiple of %d", len(blob), RecordSize)
	}
	out := make([]Record, 0, len(blob)/RecordSize)
	for off := 0; off < len(blob); off += RecordSize {
		r, err := decodeOne(blob[off : off+RecordSize])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", off/RecordSize, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func decodeOne(b []byte) (Record, error) {
	le := binary.LittleEndian
	var r Record
	u := func(i int) uint32 { return le.Uint32(b[i : i+4]) }

	const ints = 2 * BufSize
	saltLen, saltLenPC := u(ints), u(ints+4)
	if saltLen > BufSize {
		return r, fmt.Errorf("salt_len %d exceeds %d", saltLen, BufSize)
	}
	if saltLenPC > BufSize {
		return r, fmt.Errorf("salt_len_pc %d exceeds %d", saltLenPC, BufSize)
	}
	r.Salt = append([]byte(nil), b[:saltLen]...)
	r.SaltPC = append([]byte(nil), b[BufSize:BufSize+saltLenPC]...)
	r.Iter = u(ints + 8)
	r.Iter2 = u(ints + 12)
	r.DimY = u(ints + 16)
	copy(r.Sign[:], b[ints+20:ints+20+SignSize])
	tail := ints + 20 + SignSize
	r.Repeats = u(tail)
	r.OrigPos = u(tail + 4)
	r.DigestsCnt = u(tail + 8)
	r.DigestsDone = u(tail + 12)
	r.DigestsOffset = u(tail + 16)
	r.ScryptN = u(tail + 20)
	r.ScryptR = u(tail + 24)
	r.ScryptP = u(tail + 28)
	return r, nil
}

// Encode writes records in the layout Decode reads.
func Encode(recs []Record) ([]byte, error) {
	le := binary.LittleEndian
	out := make([]byte, len(recs)*RecordSize)
	for i, r := range recs {
		if len(r.Salt) > BufSize || len(r.SaltPC) > BufSize {
			return nil, fmt.Errorf("record %d: salt longer than %d bytes", i, BufSize)
		}
		b := out[i*RecordSize : (i+1)*RecordSize]
		copy(b, r.Salt)
		copy(b[BufSize:], r.SaltPC)
		const ints = 2 * BufSize
		vals := []uint32{uint32(len(r.Salt)), uint32(len(r.SaltPC)), r.Iter, r.Iter2, r.DimY}
		for j, v := range vals {
			le.PutUint32(b[ints+4*j:], v)
		}
		copy(b[ints+20:], r.Sign[:])
		tail := ints + 20 + SignSize
		for j, v := range []uint32{r.Repeats, r.OrigPos, r.DigestsCnt, r.DigestsDone, r.DigestsOffset, r.ScryptN, r.ScryptR, r.ScryptP} {
			le.PutUint32(b[tail+4*j:], v)
		}
	}
	return out, nil
}
