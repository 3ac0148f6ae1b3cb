// Package json provides the JSON response codec.
package json

import (
	"bytes"
	"encoding/json"

	"github.com/zoobzio/egress"
)

// Codec encodes responses as JSON. HTML characters are not escaped and no
// trailing newline is written.
type Codec struct{}

// New returns a JSON codec.
func New() egress.Codec {
	return Codec{}
}

// ContentType returns the MIME type for JSON.
func (Codec) ContentType() string {
	return "application/json"
}

// MediaTypes lists the Accept values this codec answers.
func (Codec) MediaTypes() []string {
	return []string{"application/json", "text/json", "application/*+json"}
}

// Marshal encodes v as JSON.
func (Codec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Unmarshal decodes JSON data into v.
func (Codec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
