package state

import (
	"context"
	"github.com/johnewart/go-orleans-docstore/grains"
)

// GrainStorage persists grain state on behalf of the silo. Implementations
// are called synchronously; the context carries request-scoped logging
// values and is not used for cancellation.
type GrainStorage interface {
	ReadState(ctx context.Context, stateType string, grainId grains.GrainId, grainState *grains.GrainState) error
	WriteState(ctx context.Context, stateType string, grainId grains.GrainId, grainState *grains.GrainState) error
	ClearState(ctx context.Context, stateType string, grainId grains.GrainId, grainState *grains.GrainState) error
}
