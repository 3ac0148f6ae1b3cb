// Package yaml provides the YAML response codec.
package yaml

import (
	"bytes"

	"github.com/zoobzio/egress"
	"gopkg.in/yaml.v3"
)

// Codec encodes responses as YAML with two-space indentation.
type Codec struct{}

// New returns a YAML codec.
func New() egress.Codec {
	return Codec{}
}

// ContentType returns the MIME type for YAML.
func (Codec) ContentType() string {
	return "application/yaml"
}

// MediaTypes lists the Accept values this codec answers.
func (Codec) MediaTypes() []string {
	return []string{"application/yaml", "application/x-yaml", "text/yaml"}
}

// Marshal encodes v as YAML.
func (Codec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes YAML data into v.
func (Codec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
