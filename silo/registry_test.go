package silo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnewart/go-orleans-docstore/grains"
)

type nopStorage struct{}

func (nopStorage) ReadState(context.Context, string, grains.GrainId, *grains.GrainState) error {
	return nil
}

func (nopStorage) WriteState(context.Context, string, grains.GrainId, *grains.GrainState) error {
	return nil
}

func (nopStorage) ClearState(context.Context, string, grains.GrainId, *grains.GrainState) error {
	return nil
}

func TestGrainStorageRegistry(t *testing.T) {
	ctx := context.Background()
	r := NewGrainStorageRegistry()

	require.NoError(t, r.Register(ctx, "", nopStorage{}))
	require.NoError(t, r.Register(ctx, "archive", nopStorage{}))
	require.Equal(t, []string{"Default", "archive"}, r.Names())

	err := r.Register(ctx, "archive", nopStorage{})
	var dup DuplicateStorageProviderError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, "archive", dup.Name)

	storage, err := r.Get("")
	require.NoError(t, err)
	require.NotNil(t, storage)

	r.Deregister("archive")
	_, err = r.Get("archive")
	require.EqualError(t, err, `no grain storage provider registered as "archive"`)
}
