package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec implements google.golang.org/grpc/encoding.Codec over plain
// JSON, registered under the subtype name "json" so grpc-go selects it
// for connections that negotiate that content-subtype instead of the
// default "proto" codec -- the mechanism this package uses in place of
// protoc-generated Marshal/Unmarshal methods.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string { return "json" }
