package model

import (
	"strings"
	"time"
)

// Role is the privilege level of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a user account in the database.
type User struct {
	ID           int64     `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Role         Role      `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

// Response returns the public projection of u.
func (u *User) Response() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Identity is the trusted content of a verified session token.
type Identity struct {
	ID    int64
	Email string
	Role  Role
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// SignUpRequest represents a user registration request.
type SignUpRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,bcryptmax"`
	Role     Role   `json:"role" validate:"omitempty,oneof=user admin"`
}

// Normalize trims whitespace and lowercases the email.
func (r *SignUpRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = Role(strings.TrimSpace(string(r.Role)))
}

// SignInRequest represents a user login request.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Normalize trims whitespace and lowercases the email.
func (r *SignInRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// UserUpdate is a partial update of a user account. Nil fields are left
// unchanged.
type UserUpdate struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,bcryptmax"`
	Role     *Role   `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
}

// Normalize trims whitespace and lowercases the email.
func (u *UserUpdate) Normalize() {
	if u.Name != nil {
		v := strings.TrimSpace(*u.Name)
		u.Name = &v
	}
	if u.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*u.Email))
		u.Email = &v
	}
	if u.Role != nil {
		v := Role(strings.TrimSpace(string(*u.Role)))
		u.Role = &v
	}
}

// Empty reports whether the update changes nothing.
func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Password == nil && u.Role == nil
}

// UserResponse represents user data safe for API responses (no password hash).
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserEnvelope wraps a single user in an API response.
type UserEnvelope struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// UserListEnvelope wraps a user listing in an API response.
type UserListEnvelope struct {
	Message string         `json:"message"`
	Users   []UserResponse `json:"users"`
	Count   int            `json:"count"`
}

// MessageResponse is a response carrying only a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserChanges is a prepared partial update: the password is already hashed
// and UpdatedAt is always written.
type UserChanges struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *Role
	UpdatedAt    time.Time
}
