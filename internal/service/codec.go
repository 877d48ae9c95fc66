package service

import (
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the grpc content-subtype the ledger wire format travels
// under. Clients must dial with grpc.CallContentSubtype(CodecName).
const CodecName = "emotive"

// message is implemented by every RPC request and reply so the codec can
// dispatch without reflection.
type message interface {
	marshal(b []byte) []byte
	unmarshal(buf []byte) error
}

// wireCodec adapts the hand-maintained message set to grpc's codec registry.
type wireCodec struct{}

func init() {
	encoding.RegisterCodec(wireCodec{})
}

func (wireCodec) Marshal(v interface{}) ([]byte, error) {
	m, ok := v.(message)
	if !ok {
		return nil, fmt.Errorf("emotive codec: cannot marshal %T", v)
	}
	return m.marshal(nil), nil
}

func (wireCodec) Unmarshal(data []byte, v interface{}) error {
	m, ok := v.(message)
	if !ok {
		return fmt.Errorf("emotive codec: cannot unmarshal into %T", v)
	}
	return m.unmarshal(data)
}

func (wireCodec) Name() string {
	return CodecName
}
