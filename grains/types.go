package grains

import (
	"fmt"
	"github.com/google/uuid"
	"strconv"
)

type KeyKind int

const (
	StringKey KeyKind = iota
	LongKey
	GuidKey
)

func (k KeyKind) String() string {
	switch k {
	case LongKey:
		return "long"
	case GuidKey:
		return "guid"
	case StringKey:
		return "string"
	default:
		return fmt.Sprintf("KeyKind(%d)", int(k))
	}
}

func ParseKeyKind(s string) (KeyKind, error) {
	switch s {
	case "long", "int", "int64":
		return LongKey, nil
	case "guid", "uuid":
		return GuidKey, nil
	case "string", "str":
		return StringKey, nil
	default:
		return StringKey, fmt.Errorf("unknown grain key kind %q", s)
	}
}

// GrainId identifies a single grain. Each grain type is keyed by exactly one
// KeyKind; the zero value is the empty string key.
type GrainId struct {
	kind KeyKind
	long int64
	guid uuid.UUID
	str  string
}

func NewLongKey(key int64) GrainId {
	return GrainId{kind: LongKey, long: key}
}

func NewGuidKey(key uuid.UUID) GrainId {
	return GrainId{kind: GuidKey, guid: key}
}

func NewStringKey(key string) GrainId {
	return GrainId{kind: StringKey, str: key}
}

// ParseGrainId builds an id of the given kind from its textual key.
func ParseGrainId(kind KeyKind, key string) (GrainId, error) {
	switch kind {
	case LongKey:
		if n, err := strconv.ParseInt(key, 10, 64); err != nil {
			return GrainId{}, fmt.Errorf("invalid long grain key %q: %v", key, err)
		} else {
			return NewLongKey(n), nil
		}
	case GuidKey:
		if g, err := uuid.Parse(key); err != nil {
			return GrainId{}, fmt.Errorf("invalid guid grain key %q: %v", key, err)
		} else {
			return NewGuidKey(g), nil
		}
	case StringKey:
		return NewStringKey(key), nil
	default:
		return GrainId{}, fmt.Errorf("unknown grain key kind %v", kind)
	}
}

func (g GrainId) Kind() KeyKind {
	return g.kind
}

func (g GrainId) IsLongKey() bool {
	return g.kind == LongKey
}

func (g GrainId) PrimaryKeyLong() int64 {
	return g.long
}

// PrimaryKey returns uuid.Nil for grains not keyed by a GUID.
func (g GrainId) PrimaryKey() uuid.UUID {
	return g.guid
}

func (g GrainId) PrimaryKeyString() string {
	switch g.kind {
	case LongKey:
		return strconv.FormatInt(g.long, 10)
	case GuidKey:
		return g.guid.String()
	default:
		return g.str
	}
}

func (g GrainId) String() string {
	return g.kind.String() + "/" + g.PrimaryKeyString()
}
