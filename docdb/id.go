package docdb

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// IDKind tags the representation held by a DocumentID. It is also the first
// byte of the encoded key, so ids of different kinds never collide.
type IDKind byte

const (
	Int64Kind  IDKind = 0x01
	GuidKind   IDKind = 0x02
	StringKind IDKind = 0x03
)

func (k IDKind) String() string {
	switch k {
	case Int64Kind:
		return "int64"
	case GuidKind:
		return "guid"
	case StringKind:
		return "string"
	default:
		return fmt.Sprintf("IDKind(%d)", byte(k))
	}
}

// DocumentID is the primary key of a document inside a collection.
type DocumentID struct {
	kind IDKind
	n    int64
	g    uuid.UUID
	s    string
}

func Int64ID(n int64) DocumentID {
	return DocumentID{kind: Int64Kind, n: n}
}

func GuidID(g uuid.UUID) DocumentID {
	return DocumentID{kind: GuidKind, g: g}
}

func StringID(s string) DocumentID {
	return DocumentID{kind: StringKind, s: s}
}

func (id DocumentID) Kind() IDKind { return id.kind }

func (id DocumentID) Int64() int64 { return id.n }

func (id DocumentID) Guid() uuid.UUID { return id.g }

func (id DocumentID) Str() string { return id.s }

// IsValid reports whether the id was built by one of the constructors.
func (id DocumentID) IsValid() bool {
	switch id.kind {
	case Int64Kind, GuidKind, StringKind:
		return true
	default:
		return false
	}
}

// Bytes encodes the id as a bucket key. Integers are stored big-endian with
// the sign bit flipped so keys sort in numeric order.
func (id DocumentID) Bytes() []byte {
	switch id.kind {
	case Int64Kind:
		buf := make([]byte, 9)
		buf[0] = byte(Int64Kind)
		binary.BigEndian.PutUint64(buf[1:], uint64(id.n)^(1<<63))
		return buf
	case GuidKind:
		buf := make([]byte, 17)
		buf[0] = byte(GuidKind)
		copy(buf[1:], id.g[:])
		return buf
	case StringKind:
		buf := make([]byte, 1+len(id.s))
		buf[0] = byte(StringKind)
		copy(buf[1:], id.s)
		return buf
	default:
		return nil
	}
}

func (id DocumentID) String() string {
	switch id.kind {
	case Int64Kind:
		return "int64:" + strconv.FormatInt(id.n, 10)
	case GuidKind:
		return "guid:" + id.g.String()
	case StringKind:
		return "string:" + id.s
	default:
		return "invalid"
	}
}

// ParseDocumentID decodes a key produced by Bytes.
func ParseDocumentID(b []byte) (DocumentID, error) {
	if len(b) == 0 {
		return DocumentID{}, fmt.Errorf("%w: empty key", ErrInvalidDocumentID)
	}

	switch IDKind(b[0]) {
	case Int64Kind:
		if len(b) != 9 {
			return DocumentID{}, fmt.Errorf("%w: int64 key has %d bytes", ErrInvalidDocumentID, len(b))
		}
		return Int64ID(int64(binary.BigEndian.Uint64(b[1:]) ^ (1 << 63))), nil
	case GuidKind:
		g, err := uuid.FromBytes(b[1:])
		if err != nil {
			return DocumentID{}, fmt.Errorf("%w: %v", ErrInvalidDocumentID, err)
		}
		return GuidID(g), nil
	case StringKind:
		return StringID(string(b[1:])), nil
	default:
		return DocumentID{}, fmt.Errorf("%w: unknown kind 0x%02x", ErrInvalidDocumentID, b[0])
	}
}
