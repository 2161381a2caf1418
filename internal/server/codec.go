package server

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// JSONCodec encodes plain Go messages as JSON. It replaces connect's protojson codec,
// so the service can be served without generated protobuf types.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string {
	return "json"
}

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// MarshalStable is what connect uses to put a message into a GET query string.
// encoding/json already writes struct fields in declaration order and map keys sorted.
func (c JSONCodec) MarshalStable(msg any) ([]byte, error) {
	return c.Marshal(msg)
}

func (JSONCodec) IsBinary() bool {
	return false
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
