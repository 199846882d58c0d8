package grains

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGrainIdAccessors(t *testing.T) {
	t.Run("long", func(t *testing.T) {
		id := NewLongKey(-42)
		require.True(t, id.IsLongKey())
		require.Equal(t, LongKey, id.Kind())
		require.EqualValues(t, -42, id.PrimaryKeyLong())
		require.Equal(t, uuid.Nil, id.PrimaryKey())
		require.Equal(t, "-42", id.PrimaryKeyString())
		require.Equal(t, "long/-42", id.String())
	})

	t.Run("guid", func(t *testing.T) {
		g := uuid.New()
		id := NewGuidKey(g)
		require.False(t, id.IsLongKey())
		require.Equal(t, g, id.PrimaryKey())
		require.Equal(t, g.String(), id.PrimaryKeyString())
	})

	t.Run("string", func(t *testing.T) {
		id := NewStringKey("player-7")
		require.Equal(t, StringKey, id.Kind())
		require.Equal(t, uuid.Nil, id.PrimaryKey())
		require.Equal(t, "player-7", id.PrimaryKeyString())
	})

	t.Run("zero value is the empty string key", func(t *testing.T) {
		var id GrainId
		require.Equal(t, StringKey, id.Kind())
		require.Equal(t, "", id.PrimaryKeyString())
	})
}

func TestParseGrainId(t *testing.T) {
	g := uuid.New()

	id, err := ParseGrainId(LongKey, "1234")
	require.NoError(t, err)
	require.Equal(t, NewLongKey(1234), id)

	id, err = ParseGrainId(GuidKey, g.String())
	require.NoError(t, err)
	require.Equal(t, NewGuidKey(g), id)

	id, err = ParseGrainId(StringKey, "abc")
	require.NoError(t, err)
	require.Equal(t, NewStringKey("abc"), id)

	_, err = ParseGrainId(LongKey, "twelve")
	require.Error(t, err)

	_, err = ParseGrainId(GuidKey, "not-a-guid")
	require.Error(t, err)

	_, err = ParseGrainId(KeyKind(99), "x")
	require.Error(t, err)
}

func TestParseKeyKind(t *testing.T) {
	for in, want := range map[string]KeyKind{
		"long":   LongKey,
		"int64":  LongKey,
		"guid":   GuidKey,
		"uuid":   GuidKey,
		"string": StringKey,
	} {
		got, err := ParseKeyKind(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
		if in == want.String() {
			require.Equal(t, in, got.String())
		}
	}

	_, err := ParseKeyKind("compound")
	require.Error(t, err)
}
