// Package bson provides the BSON response codec.
package bson

import (
	"reflect"

	"github.com/zoobzio/egress"
	"go.mongodb.org/mongo-driver/bson"
)

// Codec encodes responses as BSON. A BSON payload must be a document, so
// values that are not structs or maps are wrapped under the "data" key.
type Codec struct{}

// New returns a BSON codec.
func New() egress.Codec {
	return Codec{}
}

// ContentType returns the MIME type for BSON.
func (Codec) ContentType() string {
	return "application/bson"
}

// MediaTypes lists the Accept values this codec answers.
func (Codec) MediaTypes() []string {
	return []string{"application/bson"}
}

// Marshal encodes v as a BSON document.
func (Codec) Marshal(v any) ([]byte, error) {
	if !isDocument(v) {
		v = bson.M{"data": v}
	}
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v.
func (Codec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}

func isDocument(v any) bool {
	if _, ok := v.(bson.D); ok {
		return true
	}
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t != nil && (t.Kind() == reflect.Struct || t.Kind() == reflect.Map)
}
