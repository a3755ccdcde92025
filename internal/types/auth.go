// Package types provides the request and response shapes shared by the API
// layers of the OneLink portfolio service.
package types

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// validate reports failing fields by their JSON names, which is what clients
// see in error messages.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

func (r *CreateUserRequest) Validate() error { return validate.Struct(r) }

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error { return validate.Struct(r) }

// UpdateProfileRequest is a partial update: nil fields keep their stored
// value. Résumé text is not editable here; only uploads write it.
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

func (r *UpdateProfileRequest) Validate() error { return validate.Struct(r) }

func (r *UpdateProfileRequest) Empty() bool {
	return r.Name == nil && r.Email == nil && r.Phone == nil
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func (r *UpdatePasswordRequest) Validate() error { return validate.Struct(r) }

// User is the public view of an account. Password hashes and stored résumé
// text are never part of it; HasResume stands in for the latter.
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	PasswordSet bool      `json:"password_set"`
	HasResume   bool      `json:"has_resume"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginResponse is returned by both register and login.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
