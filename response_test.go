package egress

import (
	"reflect"
	"testing"
)

type docUser struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

type docError struct {
	Message string `json:"message"`
}

func TestResponseOf(t *testing.T) {
	dt := ResponseOf[docUser]()

	if dt.Type != reflect.TypeOf(docUser{}) {
		t.Errorf("Type = %v, want docUser", dt.Type)
	}
	if dt.Name != "docUser" {
		t.Errorf("Name = %q, want docUser", dt.Name)
	}
	if dt.Schema == nil {
		t.Fatal("Schema = nil")
	}
	if dt.Schema.Properties == nil {
		t.Fatal("Schema.Properties = nil")
	}
	if _, ok := dt.Schema.Properties.Get("email"); !ok {
		t.Error("schema missing email property")
	}
}

func TestResponseOf_Pointer(t *testing.T) {
	dt := ResponseOf[*docUser]()
	if dt.Type != reflect.TypeOf(docUser{}) {
		t.Errorf("Type = %v, want docUser", dt.Type)
	}
}

func TestResponses_Lookup(t *testing.T) {
	rs := Responses{
		200: ResponseOf[docUser](),
		404: {Name: "incomplete"},
	}

	if _, ok := rs.Lookup(200); !ok {
		t.Error("Lookup(200) should succeed")
	}
	if _, ok := rs.Lookup(201); ok {
		t.Error("Lookup(201) should fail")
	}
	if _, ok := rs.Lookup(404); ok {
		t.Error("Lookup() should ignore entries without a type")
	}
	if _, ok := Responses(nil).Lookup(200); ok {
		t.Error("nil Responses should find nothing")
	}
}

func TestNewEndpoint(t *testing.T) {
	ep := NewEndpoint("", regularHandler, nil)

	if ep.Name != HandlerName(regularHandler) {
		t.Errorf("Name = %q, want handler name", ep.Name)
	}
	if ep.Responses == nil {
		t.Error("Responses should be initialized")
	}
}

func TestEndpoint_RespondAndDocument(t *testing.T) {
	ep := (&Endpoint{Name: "getUser"}).
		Respond(404, ResponseOf[docError]()).
		Respond(200, ResponseOf[docUser]())

	doc := ep.Document()
	if len(doc) != 2 {
		t.Fatalf("Document() len = %d, want 2", len(doc))
	}
	if doc["200"] == nil || doc["404"] == nil {
		t.Errorf("Document() keys = %v", doc)
	}

	statuses := ep.Statuses()
	if len(statuses) != 2 || statuses[0] != 200 || statuses[1] != 404 {
		t.Errorf("Statuses() = %v, want [200 404]", statuses)
	}
}
