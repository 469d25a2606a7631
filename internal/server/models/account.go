// Package models holds the account types shared by the repository, service
// and HTTP layers.
package models

import "time"

// Account is a stored user account. PasswordHash never leaves the server.
type Account struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	IsSuperuser  bool
	IsVerified   bool
	Bio          *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Context returns the account's current link context.
func (a *Account) Context() AccountContext {
	return AccountContext{Email: a.Email, UpdatedAt: a.UpdatedAt}
}

// AccountContext is the part of an account that emailed links are bound to.
// Every mutation changes UpdatedAt, which invalidates links built earlier.
type AccountContext struct {
	Email     string
	UpdatedAt time.Time
}

// String renders the context as email followed by the UTC timestamp.
func (c AccountContext) String() string {
	return c.Email + c.UpdatedAt.UTC().Format(time.RFC3339Nano)
}

// AccountInput is the registration payload.
type AccountInput struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Bio       *string `json:"bio"`
}

// ProfileUpdate carries only the fields the caller supplied; nil means
// "leave as is".
type ProfileUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

func (u ProfileUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Bio == nil
}
