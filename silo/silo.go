package silo

import (
	"context"
	"fmt"
	"github.com/johnewart/go-orleans-docstore/docdb"
	"github.com/johnewart/go-orleans-docstore/metrics"
	"github.com/johnewart/go-orleans-docstore/silo/state"
	"github.com/johnewart/go-orleans-docstore/silo/state/store"
	"github.com/uber-go/tally/v4"
	"go.uber.org/multierr"
	"time"
	"zombiezen.com/go/log"
)

type SiloConfig struct {
	DatabasePath        string
	OpenTimeout         time.Duration
	MetricsPort         int
	StorageProviderName string
	CollectionNaming    docdb.NamingFunc
}

// Silo is the host-side wiring for the document storage provider: it owns
// the database handle and exposes the provider through a registry.
type Silo struct {
	ctx          context.Context
	database     *docdb.Database
	metrics      *metrics.MetricsRegistry
	storage      *GrainStorageRegistry
	serveMetrics bool
	served       chan struct{}
}

func NewSilo(ctx context.Context, config SiloConfig) (*Silo, error) {
	if config.DatabasePath == "" {
		return nil, fmt.Errorf("unable to start silo: no database path configured")
	}

	opts := []docdb.Option{}
	if config.OpenTimeout > 0 {
		opts = append(opts, docdb.WithTimeout(config.OpenTimeout))
	}
	if config.CollectionNaming != nil {
		opts = append(opts, docdb.WithCollectionNaming(config.CollectionNaming))
	}

	database, err := docdb.Open(config.DatabasePath, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to open grain database: %v", err)
	}
	log.Infof(ctx, "Opened grain database at %s", config.DatabasePath)

	var metricsRegistry *metrics.MetricsRegistry
	if config.MetricsPort > 0 {
		metricsRegistry = metrics.NewMetricRegistry(config.MetricsPort)
	} else {
		metricsRegistry = metrics.NewScopedMetricRegistry(tally.NoopScope)
	}

	registry := NewGrainStorageRegistry()
	storage := store.NewInstrumentedGrainStorage(store.NewDocumentGrainStorage(database), metricsRegistry)
	if err := registry.Register(ctx, config.StorageProviderName, storage); err != nil {
		return nil, multierr.Append(err, database.Close())
	}

	return &Silo{
		ctx:          ctx,
		database:     database,
		metrics:      metricsRegistry,
		storage:      registry,
		serveMetrics: config.MetricsPort > 0,
	}, nil
}

func (s *Silo) Database() *docdb.Database {
	return s.database
}

func (s *Silo) StorageProviders() *GrainStorageRegistry {
	return s.storage
}

// RegisterStateType declares a grain state shape and the collection it is
// stored in.
func (s *Silo) RegisterStateType(stateType string, factory docdb.StateFactory, opts ...docdb.RegisterOption) error {
	if err := s.database.Mapper().Register(stateType, factory, opts...); err != nil {
		return fmt.Errorf("unable to register state type %s: %w", stateType, err)
	}
	collection, err := s.database.Mapper().ResolveCollectionName(stateType)
	if err != nil {
		return fmt.Errorf("unable to resolve collection for state type %s: %w", stateType, err)
	}
	log.Infof(s.ctx, "Registered state type %s in collection %s", stateType, collection)
	return nil
}

func (s *Silo) Storage(name string) (state.GrainStorage, error) {
	return s.storage.Get(name)
}

// Start serves metrics in the background when a metrics port is configured.
func (s *Silo) Start() error {
	if !s.serveMetrics || s.served != nil {
		return nil
	}

	served := make(chan struct{})
	s.served = served
	go func() {
		defer close(served)
		log.Infof(s.ctx, "Starting metrics service")
		if err := s.metrics.Serve(); err != nil {
			log.Warnf(s.ctx, "Unable to start metrics service: %v", err)
		}
	}()

	return nil
}

// Close shuts down the metrics endpoint and waits for it before closing the
// database.
func (s *Silo) Close() error {
	log.Infof(s.ctx, "Closing grain database %s", s.database.Path())
	err := s.metrics.Close()
	if s.served != nil {
		<-s.served
	}
	return multierr.Append(err, s.database.Close())
}
