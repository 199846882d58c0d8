package state

import (
	"context"
	"fmt"
	"github.com/johnewart/go-orleans-docstore/grains"
)

// PersistentState is the typed view a grain keeps of its stored state. T is
// normally the pointer type returned by the state type's factory, but a
// value type is accepted as well.
type PersistentState[T any] struct {
	storage    GrainStorage
	stateType  string
	grainId    grains.GrainId
	grainState grains.GrainState
}

func NewPersistentState[T any](storage GrainStorage, stateType string, grainId grains.GrainId) *PersistentState[T] {
	return &PersistentState[T]{
		storage:   storage,
		stateType: stateType,
		grainId:   grainId,
	}
}

func (p *PersistentState[T]) GrainId() grains.GrainId {
	return p.grainId
}

// State returns the zero value of T until a record has been read or set.
func (p *PersistentState[T]) State() T {
	var zero T
	switch v := p.grainState.State.(type) {
	case nil:
		return zero
	case T:
		return v
	case *T:
		if v == nil {
			return zero
		}
		return *v
	default:
		return zero
	}
}

func (p *PersistentState[T]) SetState(value T) {
	p.grainState.State = value
}

func (p *PersistentState[T]) RecordExists() bool {
	return p.grainState.RecordExists
}

func (p *PersistentState[T]) Etag() string {
	return p.grainState.ETag
}

func (p *PersistentState[T]) ReadState(ctx context.Context) error {
	if err := p.storage.ReadState(ctx, p.stateType, p.grainId, &p.grainState); err != nil {
		return err
	}
	if p.grainState.State == nil {
		return nil
	}
	switch p.grainState.State.(type) {
	case T, *T:
		return nil
	default:
		stored := p.grainState.State
		p.grainState = grains.GrainState{}
		return fmt.Errorf("unable to use %s state for grain %v: stored %T is not a %T", p.stateType, p.grainId, stored, *new(T))
	}
}

func (p *PersistentState[T]) WriteState(ctx context.Context) error {
	return p.storage.WriteState(ctx, p.stateType, p.grainId, &p.grainState)
}

// ClearState deletes the stored record and resets the in-memory state.
func (p *PersistentState[T]) ClearState(ctx context.Context) error {
	if err := p.storage.ClearState(ctx, p.stateType, p.grainId, &p.grainState); err != nil {
		return err
	}
	p.grainState.State = nil
	p.grainState.RecordExists = false
	p.grainState.ETag = ""
	return nil
}
