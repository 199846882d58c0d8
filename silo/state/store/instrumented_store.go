package store

import (
	"context"
	"github.com/johnewart/go-orleans-docstore/grains"
	"github.com/johnewart/go-orleans-docstore/metrics"
	"github.com/johnewart/go-orleans-docstore/silo/state"
	"zombiezen.com/go/log"
)

// InstrumentedGrainStorage times every call to the wrapped storage and logs
// failures. Errors are returned untouched.
type InstrumentedGrainStorage struct {
	storage state.GrainStorage
	metrics *metrics.MetricsRegistry
}

var _ state.GrainStorage = (*InstrumentedGrainStorage)(nil)

func NewInstrumentedGrainStorage(storage state.GrainStorage, metricsRegistry *metrics.MetricsRegistry) *InstrumentedGrainStorage {
	return &InstrumentedGrainStorage{
		storage: storage,
		metrics: metricsRegistry,
	}
}

func (s *InstrumentedGrainStorage) ReadState(ctx context.Context, stateType string, grainId grains.GrainId, grainState *grains.GrainState) error {
	err := s.metrics.TimeStorageOperation("read", stateType, func() error {
		return s.storage.ReadState(ctx, stateType, grainId, grainState)
	})
	if err != nil {
		log.Warnf(ctx, "Unable to read %s state for grain %v: %v", stateType, grainId, err)
		return err
	}
	s.metrics.CountStateRead(stateType, grainState.RecordExists)
	return nil
}

func (s *InstrumentedGrainStorage) WriteState(ctx context.Context, stateType string, grainId grains.GrainId, grainState *grains.GrainState) error {
	err := s.metrics.TimeStorageOperation("write", stateType, func() error {
		return s.storage.WriteState(ctx, stateType, grainId, grainState)
	})
	if err != nil {
		log.Warnf(ctx, "Unable to write %s state for grain %v: %v", stateType, grainId, err)
	}
	return err
}

func (s *InstrumentedGrainStorage) ClearState(ctx context.Context, stateType string, grainId grains.GrainId, grainState *grains.GrainState) error {
	err := s.metrics.TimeStorageOperation("clear", stateType, func() error {
		return s.storage.ClearState(ctx, stateType, grainId, grainState)
	})
	if err != nil {
		log.Warnf(ctx, "Unable to clear %s state for grain %v: %v", stateType, grainId, err)
	}
	return err
}
