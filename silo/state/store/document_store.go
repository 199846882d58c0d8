package store

import (
	"context"
	"github.com/google/uuid"
	"github.com/johnewart/go-orleans-docstore/docdb"
	"github.com/johnewart/go-orleans-docstore/grains"
	"github.com/johnewart/go-orleans-docstore/silo/state"
	"zombiezen.com/go/log"
)

// DocumentGrainStorage stores each grain's state as one document in the
// collection of its state type. ETags are never issued, so concurrent
// writers for the same grain overwrite each other.
type DocumentGrainStorage struct {
	database *docdb.Database
}

var _ state.GrainStorage = (*DocumentGrainStorage)(nil)

func NewDocumentGrainStorage(database *docdb.Database) *DocumentGrainStorage {
	return &DocumentGrainStorage{
		database: database,
	}
}

func (s *DocumentGrainStorage) ReadState(ctx context.Context, stateType string, grainId grains.GrainId, grainState *grains.GrainState) error {
	documentId := DocumentID(grainId)
	collectionName, err := s.database.Mapper().ResolveCollectionName(stateType)
	if err != nil {
		return err
	}

	document, found, err := s.database.GetCollection(collectionName).FindByID(documentId)
	if err != nil {
		return err
	}

	if !found {
		log.Debugf(ctx, "No %s state stored for %v", stateType, documentId)
		grainState.ETag = ""
		grainState.RecordExists = false
		grainState.State = nil
		return nil
	}

	value, err := s.database.Mapper().ToObject(stateType, document)
	if err != nil {
		return err
	}

	grainState.ETag = ""
	grainState.RecordExists = true
	grainState.State = value
	return nil
}

func (s *DocumentGrainStorage) WriteState(ctx context.Context, stateType string, grainId grains.GrainId, grainState *grains.GrainState) error {
	documentId := DocumentID(grainId)
	collectionName, err := s.database.Mapper().ResolveCollectionName(stateType)
	if err != nil {
		return err
	}

	document, err := s.database.Mapper().ToDocument(stateType, grainState.State)
	if err != nil {
		return err
	}

	if inserted, err := s.database.GetCollection(collectionName).Upsert(documentId, document); err != nil {
		return err
	} else {
		log.Debugf(ctx, "Stored %s state for %v in %s (inserted: %v)", stateType, documentId, collectionName, inserted)
	}

	grainState.ETag = ""
	grainState.RecordExists = true
	return nil
}

// ClearState removes the stored document. The envelope is left as the
// caller set it.
func (s *DocumentGrainStorage) ClearState(ctx context.Context, stateType string, grainId grains.GrainId, grainState *grains.GrainState) error {
	documentId := DocumentID(grainId)
	collectionName, err := s.database.Mapper().ResolveCollectionName(stateType)
	if err != nil {
		return err
	}

	if deleted, err := s.database.GetCollection(collectionName).Delete(documentId); err != nil {
		return err
	} else {
		log.Debugf(ctx, "Cleared %s state for %v (deleted: %v)", stateType, documentId, deleted)
	}

	return nil
}

// DocumentID picks the document key for a grain: its integer key when the
// grain is keyed by long, otherwise its GUID unless that is empty, otherwise
// its string key.
func DocumentID(grainId grains.GrainId) docdb.DocumentID {
	if grainId.IsLongKey() {
		return docdb.Int64ID(grainId.PrimaryKeyLong())
	}

	if guid := grainId.PrimaryKey(); guid != uuid.Nil {
		return docdb.GuidID(guid)
	}

	return docdb.StringID(grainId.PrimaryKeyString())
}
