package threadpb

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// Codec serializes the messages of this package as JSON on the gRPC wire.
// It is forced on both ends with grpc.ForceServerCodec and grpc.ForceCodec.
type Codec struct{}

var _ encoding.Codec = Codec{}

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (Codec) Name() string {
	return "json"
}
