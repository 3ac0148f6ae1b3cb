package egress

import (
	"reflect"
	"sort"
	"strconv"

	"github.com/invopop/jsonschema"
)

// DeclaredType describes the type a response is documented to conform to.
type DeclaredType struct {
	Type   reflect.Type
	Name   string
	Schema *jsonschema.Schema
}

// ResponseOf declares T as a response type and reflects its JSON schema.
func ResponseOf[T any]() DeclaredType {
	return Declare(reflect.TypeFor[T]())
}

// Declare builds a DeclaredType from a reflect.Type.
func Declare(t reflect.Type) DeclaredType {
	t = baseType(t)
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	return DeclaredType{
		Type:   t,
		Name:   typeName(t),
		Schema: reflector.ReflectFromType(t),
	}
}

// Responses maps a status code to the type declared for it.
type Responses map[int]DeclaredType

// Lookup returns the type declared for status.
func (rs Responses) Lookup(status int) (DeclaredType, bool) {
	dt, ok := rs[status]
	return dt, ok && dt.Type != nil
}

// Endpoint is the per-handler metadata the interceptor consults: a name for
// logs and the declared responses. The endpoint value is also the identity
// that opt-out flags attach to.
type Endpoint struct {
	Name      string
	Responses Responses
}

// NewEndpoint creates an Endpoint. handler only supplies the default name,
// its runtime function name, when name is empty.
func NewEndpoint(name string, handler any, responses Responses) *Endpoint {
	if name == "" {
		name = HandlerName(handler)
	}
	if responses == nil {
		responses = Responses{}
	}
	return &Endpoint{
		Name:      name,
		Responses: responses,
	}
}

// Respond declares dt for status and returns the endpoint for chaining.
func (e *Endpoint) Respond(status int, dt DeclaredType) *Endpoint {
	if e.Responses == nil {
		e.Responses = Responses{}
	}
	e.Responses[status] = dt
	return e
}

// Document returns declared schemas keyed by status code string.
func (e *Endpoint) Document() map[string]*jsonschema.Schema {
	doc := make(map[string]*jsonschema.Schema, len(e.Responses))
	for status, dt := range e.Responses {
		doc[strconv.Itoa(status)] = dt.Schema
	}
	return doc
}

// Statuses returns the declared status codes in ascending order.
func (e *Endpoint) Statuses() []int {
	out := make([]int, 0, len(e.Responses))
	for status := range e.Responses {
		out = append(out, status)
	}
	sort.Ints(out)
	return out
}
