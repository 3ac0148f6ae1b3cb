// Package testing provides fixtures for egress tests.
package testing

import (
	"github.com/zoobzio/egress"
)

// User is an internal entity carrying a field that must never be returned.
type User struct {
	ID           int
	Email        string
	PasswordHash string
}

// UserPublic is the declared response shape for User.
type UserPublic struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

// Health is safe to return as itself.
type Health struct {
	Status string `json:"status"`
}

// ToPublic strips User down to UserPublic.
func ToPublic(u User) UserPublic {
	return UserPublic{ID: u.ID, Email: u.Email}
}

// SampleUser returns the canonical fixture user.
func SampleUser() User {
	return User{ID: 1, Email: "a@b.com", PasswordHash: "x"}
}

// Registry returns an unsealed registry with User -> UserPublic and
// Health -> Health declared.
func Registry() *egress.Registry {
	reg := egress.NewRegistry()
	if err := egress.AllowReturnAs(reg, ToPublic); err != nil {
		panic(err)
	}
	if err := egress.AllowReturnAsSelf[Health](reg); err != nil {
		panic(err)
	}
	return reg
}

// UserEndpoint returns an endpoint declaring UserPublic for 200.
func UserEndpoint(handler any) *egress.Endpoint {
	return egress.NewEndpoint("getUser", handler, egress.Responses{
		200: egress.ResponseOf[UserPublic](),
	})
}
