package egress

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func regularHandler() {}

func TestOptOut(t *testing.T) {
	r := NewRegistry()
	metrics := NewEndpoint("metrics", nil, nil)
	users := NewEndpoint("listUsers", nil, nil)

	if err := r.OptOut(metrics); err != nil {
		t.Fatalf("OptOut() error: %v", err)
	}
	if err := r.OptOut(metrics); err != nil {
		t.Fatalf("OptOut() twice error: %v", err)
	}

	if !r.OptedOut(metrics) {
		t.Error("OptedOut(metrics) = false, want true")
	}
	if r.OptedOut(users) {
		t.Error("OptedOut(listUsers) = true, want false")
	}
}

func TestOptOut_SameHandlerDistinctEndpoints(t *testing.T) {
	r := NewRegistry()
	health := NewEndpoint("", regularHandler, nil)
	user := NewEndpoint("", regularHandler, nil)

	if err := r.OptOut(health); err != nil {
		t.Fatalf("OptOut() error: %v", err)
	}
	if r.OptedOut(user) {
		t.Error("opting out one endpoint must not exempt another built from the same handler")
	}
}

func TestOptOut_Unresolvable(t *testing.T) {
	r := NewRegistry()
	if err := r.OptOut(nil); !errors.Is(err, ErrUnresolvableHandler) {
		t.Errorf("OptOut(nil) error = %v, want ErrUnresolvableHandler", err)
	}

	tests := []struct {
		name   string
		target any
	}{
		{"nil", nil},
		{"func", regularHandler},
		{"string", "handler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Define(tt.target, "custom", true)
			if !errors.Is(err, ErrUnresolvableHandler) {
				t.Errorf("Define(%v) error = %v, want ErrUnresolvableHandler", tt.target, err)
			}
		})
	}
}

func TestOptOut_Sealed(t *testing.T) {
	r := NewRegistry()
	r.Seal()

	if err := r.OptOut(NewEndpoint("metrics", nil, nil)); !errors.Is(err, ErrSealed) {
		t.Errorf("OptOut() after Seal error = %v, want ErrSealed", err)
	}
}

func TestOptedOut_Nil(t *testing.T) {
	r := NewRegistry()
	if r.OptedOut(nil) {
		t.Error("OptedOut(nil) should be false")
	}
}

func TestOptOut_ForeignFlagValue(t *testing.T) {
	r := NewRegistry()
	ep := NewEndpoint("metrics", nil, nil)
	if err := r.Define(ep, OptOutKey, "yes"); err != nil {
		t.Fatalf("Define() error: %v", err)
	}

	if r.OptedOut(ep) {
		t.Error("OptedOut() should only honor boolean flags")
	}
	if err := r.OptOut(ep); !errors.Is(err, ErrPrecondition) {
		t.Errorf("OptOut() over foreign value error = %v, want ErrPrecondition", err)
	}
}

func TestHandlerName(t *testing.T) {
	if name := HandlerName(regularHandler); !strings.HasSuffix(name, ".regularHandler") {
		t.Errorf("HandlerName() = %q, want suffix .regularHandler", name)
	}
	if name := HandlerName("x"); name != "" {
		t.Errorf("HandlerName(string) = %q, want empty", name)
	}
	if name := HandlerName(reflect.TypeOf(0)); name != "" {
		t.Errorf("HandlerName(type) = %q, want empty", name)
	}
}
