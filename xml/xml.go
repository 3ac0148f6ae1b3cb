// Package xml provides the XML response codec.
package xml

import (
	"encoding/xml"

	"github.com/zoobzio/egress"
)

// Codec encodes responses as XML documents with the standard header.
type Codec struct{}

// New returns an XML codec.
func New() egress.Codec {
	return Codec{}
}

// ContentType returns the MIME type for XML.
func (Codec) ContentType() string {
	return "application/xml"
}

// MediaTypes lists the Accept values this codec answers.
func (Codec) MediaTypes() []string {
	return []string{"application/xml", "text/xml"}
}

// Marshal encodes v as an XML document.
func (Codec) Marshal(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// Unmarshal decodes XML data into v.
func (Codec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}
