package docdb

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"sync"
)

var collectionNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*$`)

// StateFactory returns a fresh pointer to the zero value of a state shape.
type StateFactory func() any

// NamingFunc derives a collection name from a state type tag.
type NamingFunc func(stateType string) string

type registration struct {
	collection string
	factory    StateFactory
	shape      reflect.Type
	codec      codec
}

type RegisterOption func(*registration)

// WithCollectionName overrides the collection a state type is stored in.
func WithCollectionName(name string) RegisterOption {
	return func(r *registration) {
		r.collection = name
	}
}

// Mapper maps state type tags to collections and converts values to and
// from documents. It is safe for concurrent use.
type Mapper struct {
	mu     sync.RWMutex
	types  map[string]registration
	naming NamingFunc
}

func newMapper(naming NamingFunc) *Mapper {
	if naming == nil {
		naming = func(stateType string) string { return stateType }
	}
	return &Mapper{
		types:  make(map[string]registration),
		naming: naming,
	}
}

// Register declares a state type. Protobuf messages are stored through
// protojson, everything else through encoding/json.
func (m *Mapper) Register(stateType string, factory StateFactory, opts ...RegisterOption) error {
	if factory == nil {
		return ErrInvalidStateFactory
	}
	sample := factory()
	if sample == nil {
		return ErrInvalidStateFactory
	}
	if v := reflect.ValueOf(sample); v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("%w: got %T", ErrInvalidStateFactory, sample)
	}

	reg := registration{
		collection: m.naming(stateType),
		factory:    factory,
		shape:      reflect.TypeOf(sample),
		codec:      codecFor(sample),
	}
	for _, opt := range opts {
		opt(&reg)
	}

	if !collectionNamePattern.MatchString(reg.collection) {
		return fmt.Errorf("%w: %q (state type %q)", ErrInvalidCollectionName, reg.collection, stateType)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.types[stateType]; ok {
		return fmt.Errorf("%w: %q", ErrStateTypeRegistered, stateType)
	}
	m.types[stateType] = reg
	return nil
}

func (m *Mapper) lookup(stateType string) (registration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if reg, ok := m.types[stateType]; ok {
		return reg, nil
	}
	return registration{}, fmt.Errorf("%w: %q", ErrUnknownStateType, stateType)
}

func (m *Mapper) ResolveCollectionName(stateType string) (string, error) {
	reg, err := m.lookup(stateType)
	if err != nil {
		return "", err
	}
	return reg.collection, nil
}

// ToDocument encodes value, which must be the factory's pointer type or the
// type it points to. Nil values are rejected since they cannot be read back.
func (m *Mapper) ToDocument(stateType string, value any) (Document, error) {
	reg, err := m.lookup(stateType)
	if err != nil {
		return nil, err
	}

	if value == nil {
		return nil, fmt.Errorf("%w: nil %s state", ErrInvalidDocument, stateType)
	}
	v := reflect.ValueOf(value)
	if v.Type() != reg.shape && v.Type() != reg.shape.Elem() {
		return nil, fmt.Errorf("%w: %s state is %v, got %T", ErrStateTypeMismatch, stateType, reg.shape, value)
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return nil, fmt.Errorf("%w: nil %s state", ErrInvalidDocument, stateType)
	}

	return reg.codec.marshal(value)
}

// ToObject decodes doc into a new value created by the state type's factory
// and returns that pointer.
func (m *Mapper) ToObject(stateType string, doc Document) (any, error) {
	reg, err := m.lookup(stateType)
	if err != nil {
		return nil, err
	}
	target := reg.factory()
	if err := reg.codec.unmarshal(doc, target); err != nil {
		return nil, err
	}
	return target, nil
}

// Registered returns the registered state types, sorted.
func (m *Mapper) Registered() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.types))
	for name := range m.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
