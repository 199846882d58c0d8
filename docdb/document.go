package docdb

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Document is the stored form of a value: a single JSON object or value.
type Document []byte

func (d Document) Valid() bool {
	return len(d) > 0 && json.Valid(d)
}

func (d Document) String() string {
	return string(d)
}

type codec interface {
	marshal(v any) (Document, error)
	unmarshal(doc Document, v any) error
}

type jsonCodec struct{}

func (jsonCodec) marshal(v any) (Document, error) {
	return json.Marshal(v)
}

func (jsonCodec) unmarshal(doc Document, v any) error {
	return json.Unmarshal(doc, v)
}

// protoCodec keeps protobuf states readable as documents by going through
// the canonical JSON mapping instead of the binary wire format.
type protoCodec struct{}

func (protoCodec) marshal(v any) (Document, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("docdb: %T is not a proto.Message", v)
	}
	return protojson.Marshal(msg)
}

func (protoCodec) unmarshal(doc Document, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return fmt.Errorf("docdb: %T is not a proto.Message", v)
	}
	return protojson.UnmarshalOptions{DiscardUnknown: true}.Unmarshal(doc, msg)
}

func codecFor(sample any) codec {
	if _, ok := sample.(proto.Message); ok {
		return protoCodec{}
	}
	return jsonCodec{}
}
