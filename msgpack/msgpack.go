// Package msgpack provides the MessagePack response codec.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/egress"
)

// Codec encodes responses as MessagePack. Struct fields fall back to their
// json tag names so the wire keys match the JSON rendering.
type Codec struct{}

// New returns a MessagePack codec.
func New() egress.Codec {
	return Codec{}
}

// ContentType returns the MIME type for MessagePack.
func (Codec) ContentType() string {
	return "application/msgpack"
}

// MediaTypes lists the Accept values this codec answers.
func (Codec) MediaTypes() []string {
	return []string{"application/msgpack", "application/x-msgpack", "application/vnd.msgpack"}
}

// Marshal encodes v as MessagePack.
func (Codec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into v.
func (Codec) Unmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
