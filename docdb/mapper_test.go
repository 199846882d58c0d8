package docdb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type account struct {
	Owner   string   `json:"owner"`
	Balance int64    `json:"balance"`
	Tags    []string `json:"tags,omitempty"`
}

func TestMapperRegister(t *testing.T) {
	m := newMapper(nil)

	require.NoError(t, m.Register("account", func() any { return new(account) }))
	require.NoError(t, m.Register("audit", func() any { return new(account) }, WithCollectionName("audit_log")))

	name, err := m.ResolveCollectionName("account")
	require.NoError(t, err)
	require.Equal(t, "account", name)

	name, err = m.ResolveCollectionName("audit")
	require.NoError(t, err)
	require.Equal(t, "audit_log", name)

	require.Equal(t, []string{"account", "audit"}, m.Registered())
}

func TestMapperRegisterErrors(t *testing.T) {
	m := newMapper(nil)
	factory := func() any { return new(account) }

	require.ErrorIs(t, m.Register("x", nil), ErrInvalidStateFactory)
	require.ErrorIs(t, m.Register("x", func() any { return nil }), ErrInvalidStateFactory)
	require.ErrorIs(t, m.Register("x", func() any { return account{} }), ErrInvalidStateFactory)
	require.ErrorIs(t, m.Register("", factory), ErrInvalidCollectionName)
	require.ErrorIs(t, m.Register("bad name", factory), ErrInvalidCollectionName)
	require.ErrorIs(t, m.Register("ok", factory, WithCollectionName("9lives")), ErrInvalidCollectionName)

	require.NoError(t, m.Register("account", factory))
	require.ErrorIs(t, m.Register("account", factory), ErrStateTypeRegistered)
}

func TestMapperNamingFunc(t *testing.T) {
	m := newMapper(func(stateType string) string {
		return "state_" + strings.ToLower(stateType)
	})
	require.NoError(t, m.Register("Account", func() any { return new(account) }))

	name, err := m.ResolveCollectionName("Account")
	require.NoError(t, err)
	require.Equal(t, "state_account", name)
}

func TestMapperUnknownStateType(t *testing.T) {
	m := newMapper(nil)

	_, err := m.ResolveCollectionName("missing")
	require.ErrorIs(t, err, ErrUnknownStateType)
	_, err = m.ToDocument("missing", &account{})
	require.ErrorIs(t, err, ErrUnknownStateType)
	_, err = m.ToObject("missing", Document(`{}`))
	require.ErrorIs(t, err, ErrUnknownStateType)
}

func TestMapperJSONRoundTrip(t *testing.T) {
	m := newMapper(nil)
	require.NoError(t, m.Register("account", func() any { return new(account) }))

	in := &account{Owner: "ada", Balance: 100, Tags: []string{"vip"}}
	doc, err := m.ToDocument("account", in)
	require.NoError(t, err)
	require.True(t, doc.Valid())
	require.JSONEq(t, `{"owner":"ada","balance":100,"tags":["vip"]}`, doc.String())

	out, err := m.ToObject("account", doc)
	require.NoError(t, err)
	require.Equal(t, in, out)

	// values and pointers serialize the same way
	byValue, err := m.ToDocument("account", *in)
	require.NoError(t, err)
	require.JSONEq(t, doc.String(), byValue.String())
}

func TestMapperProtoRoundTrip(t *testing.T) {
	m := newMapper(nil)
	require.NoError(t, m.Register("greeting", func() any { return new(wrapperspb.StringValue) }))

	doc, err := m.ToDocument("greeting", wrapperspb.String("hello"))
	require.NoError(t, err)
	require.True(t, doc.Valid())

	out, err := m.ToObject("greeting", doc)
	require.NoError(t, err)
	msg, ok := out.(*wrapperspb.StringValue)
	require.True(t, ok)
	require.True(t, proto.Equal(wrapperspb.String("hello"), msg))

	_, err = m.ToDocument("greeting", "not a message")
	require.ErrorIs(t, err, ErrStateTypeMismatch)
}

func TestMapperToDocumentRejectsForeignValues(t *testing.T) {
	m := newMapper(nil)
	require.NoError(t, m.Register("account", func() any { return new(account) }))

	_, err := m.ToDocument("account", "oops")
	require.ErrorIs(t, err, ErrStateTypeMismatch)
	_, err = m.ToDocument("account", map[string]any{"owner": "ada"})
	require.ErrorIs(t, err, ErrStateTypeMismatch)
	_, err = m.ToDocument("account", wrapperspb.String("ada"))
	require.ErrorIs(t, err, ErrStateTypeMismatch)

	_, err = m.ToDocument("account", nil)
	require.ErrorIs(t, err, ErrInvalidDocument)
	_, err = m.ToDocument("account", (*account)(nil))
	require.ErrorIs(t, err, ErrInvalidDocument)
}

func TestMapperToObjectShapeMismatch(t *testing.T) {
	m := newMapper(nil)
	require.NoError(t, m.Register("account", func() any { return new(account) }))

	_, err := m.ToObject("account", Document(`{"balance":"lots"}`))
	require.Error(t, err)
}
