package egress

import (
	"errors"
	"testing"
)

type shapedContact struct {
	Phone string `egress.mask:"phone"`
}

type shapedUser struct {
	ID      int
	Email   string `egress.mask:"email"`
	Token   string `egress.redact:"[REDACTED]"`
	Contact shapedContact
	Plain   string
}

type badShape struct {
	Email string `egress.mask:"unknown"`
}

type plainShape struct {
	ID int
}

func TestBuildShapePlan(t *testing.T) {
	plan, err := buildShapePlan[shapedUser]()
	if err != nil {
		t.Fatalf("buildShapePlan() error: %v", err)
	}
	if plan == nil {
		t.Fatal("buildShapePlan() = nil, want plan")
	}
	if len(plan.fields) != 3 {
		t.Fatalf("plan fields = %d, want 3", len(plan.fields))
	}

	names := map[string]bool{}
	for _, f := range plan.fields {
		names[f.name] = true
	}
	for _, want := range []string{"Email", "Token", "Contact.Phone"} {
		if !names[want] {
			t.Errorf("plan missing field %s", want)
		}
	}
}

func TestBuildShapePlan_Pointer(t *testing.T) {
	plan, err := buildShapePlan[*shapedUser]()
	if err != nil {
		t.Fatalf("buildShapePlan() error: %v", err)
	}
	if plan == nil || len(plan.fields) != 3 {
		t.Errorf("buildShapePlan[*T]() = %+v, want 3 fields", plan)
	}
}

func TestBuildShapePlan_None(t *testing.T) {
	if plan, err := buildShapePlan[plainShape](); err != nil || plan != nil {
		t.Errorf("buildShapePlan(untagged) = %v, %v; want nil, nil", plan, err)
	}
	if plan, err := buildShapePlan[map[string]any](); err != nil || plan != nil {
		t.Errorf("buildShapePlan(map) = %v, %v; want nil, nil", plan, err)
	}
}

func TestBuildShapePlan_InvalidTag(t *testing.T) {
	_, err := buildShapePlan[badShape]()
	if !errors.Is(err, ErrInvalidTag) {
		t.Errorf("buildShapePlan() error = %v, want ErrInvalidTag", err)
	}

	r := NewRegistry()
	if err := AllowReturnAsSelf[badShape](r); !errors.Is(err, ErrInvalidTag) {
		t.Errorf("AllowReturnAsSelf() error = %v, want ErrInvalidTag", err)
	}
}

func TestShapePlan_Apply(t *testing.T) {
	plan, _ := buildShapePlan[shapedUser]()
	in := shapedUser{
		ID:      1,
		Email:   "alice@example.com",
		Token:   "secret",
		Contact: shapedContact{Phone: "(555) 123-4567"},
		Plain:   "kept",
	}

	out := plan.apply(in, builtinMaskers()).(shapedUser)
	if out.Email != "a***@example.com" {
		t.Errorf("Email = %q", out.Email)
	}
	if out.Token != "[REDACTED]" {
		t.Errorf("Token = %q", out.Token)
	}
	if out.Contact.Phone != "***-***-4567" {
		t.Errorf("Contact.Phone = %q", out.Contact.Phone)
	}
	if out.Plain != "kept" || out.ID != 1 {
		t.Errorf("untagged fields changed: %+v", out)
	}
	if in.Email != "alice@example.com" || in.Token != "secret" {
		t.Errorf("original modified: %+v", in)
	}
}

func TestShapePlan_ApplyPointer(t *testing.T) {
	plan, _ := buildShapePlan[shapedUser]()
	in := &shapedUser{Email: "bob@example.com"}

	out := plan.apply(in, builtinMaskers()).(*shapedUser)
	if out == in {
		t.Fatal("apply should return a copy")
	}
	if out.Email != "b***@example.com" {
		t.Errorf("Email = %q", out.Email)
	}
	if in.Email != "bob@example.com" {
		t.Errorf("original modified: %q", in.Email)
	}

	var nilUser *shapedUser
	if got := plan.apply(nilUser, builtinMaskers()); got != any(nilUser) {
		t.Error("apply(nil) should return the input")
	}
	if got := plan.apply("scalar", builtinMaskers()); got != "scalar" {
		t.Error("apply(non-struct) should return the input")
	}
}
