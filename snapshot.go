package resumable

import (
	"errors"
	"fmt"

	"github.com/sigurn/crc8"
	"google.golang.org/protobuf/encoding/protowire"
)

// Snapshots use the protobuf wire format:
//
//	message Slot   { repeated Level levels = 1; uint32 checksum = 2; }
//	message Level  { uint32 marker = 1; uint32 owner = 2; bool running = 3; }
//	message Thread { uint32 marker = 1; }
const (
	slotLevels   protowire.Number = 1
	slotChecksum protowire.Number = 2

	levelMarker  protowire.Number = 1
	levelOwner   protowire.Number = 2
	levelRunning protowire.Number = 3

	threadMarker protowire.Number = 1
)

var errExecuting = errors.New("resumable: cannot snapshot a slot while a body is executing")

// The checksum of a slot snapshot is the CRC-8 of its encoded levels.
var checksumTable = crc8.MakeTable(crc8.CRC8)

// MarshalAppend appends a serialized snapshot of the slot to b. The slot
// must not be executing a body.
func (s *Slot[D]) MarshalAppend(b []byte) ([]byte, error) {
	if s.level != 0 {
		return b, errExecuting
	}
	var lb []byte
	crc := crc8.Init(checksumTable)
	for i := 0; i < len(s.levels); i++ {
		lb = appendLevel(lb[:0], &s.levels[i])
		crc = crc8.Update(crc, lb, checksumTable)
		b = protowire.AppendTag(b, slotLevels, protowire.BytesType)
		b = protowire.AppendBytes(b, lb)
	}
	b = protowire.AppendTag(b, slotChecksum, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(crc8.Complete(crc, checksumTable)))
	return b, nil
}

func appendLevel(b []byte, st *state) []byte {
	b = protowire.AppendTag(b, levelMarker, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(st.marker))
	b = protowire.AppendTag(b, levelOwner, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(st.owner))
	b = protowire.AppendTag(b, levelRunning, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeBool(st.running))
	return b
}

// Unmarshal restores the slot from a snapshot produced by MarshalAppend,
// returning the number of bytes that were read. Levels missing from the
// snapshot are reset; a snapshot with more levels than the slot can hold, or
// whose checksum does not match its levels, is rejected.
func (s *Slot[D]) Unmarshal(b []byte) (int, error) {
	if s.level != 0 {
		return 0, errExecuting
	}
	var levels D
	count, n := 0, 0
	crc := crc8.Init(checksumTable)
	checksum := -1
	for n < len(b) {
		num, typ, tn := protowire.ConsumeTag(b[n:])
		if tn < 0 {
			return 0, fmt.Errorf("invalid slot snapshot: %w", protowire.ParseError(tn))
		}
		n += tn
		if num == slotChecksum && typ == protowire.VarintType {
			v, vn := protowire.ConsumeVarint(b[n:])
			if vn < 0 {
				return 0, fmt.Errorf("invalid slot checksum: %w", protowire.ParseError(vn))
			}
			if v > 0xff {
				return 0, fmt.Errorf("invalid slot checksum: %#x does not fit in a byte", v)
			}
			n += vn
			checksum = int(v)
			continue
		}
		if num != slotLevels || typ != protowire.BytesType {
			vn := protowire.ConsumeFieldValue(num, typ, b[n:])
			if vn < 0 {
				return 0, fmt.Errorf("invalid slot snapshot: %w", protowire.ParseError(vn))
			}
			n += vn
			continue
		}
		lb, ln := protowire.ConsumeBytes(b[n:])
		if ln < 0 {
			return 0, fmt.Errorf("invalid slot level: %w", protowire.ParseError(ln))
		}
		n += ln
		if count >= len(levels) {
			return 0, fmt.Errorf("invalid slot snapshot: more than %d levels", len(levels))
		}
		st, err := unmarshalLevel(lb)
		if err != nil {
			return 0, err
		}
		crc = crc8.Update(crc, lb, checksumTable)
		levels[count] = st
		count++
	}
	switch crc = crc8.Complete(crc, checksumTable); {
	case checksum < 0:
		return 0, errors.New("invalid slot snapshot: missing checksum")
	case checksum != int(crc):
		return 0, fmt.Errorf("invalid slot snapshot: checksum mismatch: got %#02x, expect %#02x", checksum, crc)
	}
	s.levels = levels
	return n, nil
}

func unmarshalLevel(b []byte) (state, error) {
	var st state
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return st, fmt.Errorf("invalid slot level: %w", protowire.ParseError(n))
		}
		b = b[n:]
		if typ != protowire.VarintType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return st, fmt.Errorf("invalid slot level: %w", protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return st, fmt.Errorf("invalid slot level: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case levelMarker:
			if v > uint64(Stopped) {
				return st, fmt.Errorf("invalid slot level marker: %d", v)
			}
			st.marker = Marker(v)
		case levelOwner:
			if v > 255 {
				return st, fmt.Errorf("invalid slot level owner: %d", v)
			}
			st.owner = ID(v)
		case levelRunning:
			st.running = protowire.DecodeBool(v)
		}
	}
	return st, nil
}

// MarshalAppend appends a serialized snapshot of the thread to b.
func (t *Thread) MarshalAppend(b []byte) ([]byte, error) {
	b = protowire.AppendTag(b, threadMarker, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(t.marker))
	return b, nil
}

// Unmarshal restores the thread from a snapshot produced by MarshalAppend,
// returning the number of bytes that were read.
func (t *Thread) Unmarshal(b []byte) (int, error) {
	var restored Thread
	n := 0
	for n < len(b) {
		num, typ, tn := protowire.ConsumeTag(b[n:])
		if tn < 0 {
			return 0, fmt.Errorf("invalid thread snapshot: %w", protowire.ParseError(tn))
		}
		n += tn
		if typ != protowire.VarintType {
			vn := protowire.ConsumeFieldValue(num, typ, b[n:])
			if vn < 0 {
				return 0, fmt.Errorf("invalid thread snapshot: %w", protowire.ParseError(vn))
			}
			n += vn
			continue
		}
		v, vn := protowire.ConsumeVarint(b[n:])
		if vn < 0 {
			return 0, fmt.Errorf("invalid thread snapshot: %w", protowire.ParseError(vn))
		}
		n += vn
		if num == threadMarker {
			if v > uint64(Stopped) {
				return 0, fmt.Errorf("invalid thread marker: %d", v)
			}
			restored.marker = Marker(v)
		}
	}
	*t = restored
	return n, nil
}
