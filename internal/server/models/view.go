package models

import "time"

// AccountView is the outward projection of an account. Fields a given
// projection hides are nil and left out of the JSON.
type AccountView struct {
	ID          *int64     `json:"id,omitempty"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	IsSuperuser *bool      `json:"is_superuser,omitempty"`
	Bio         *string    `json:"bio,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	FullName    string     `json:"fullname"`
}

// PublicView exposes first_name, last_name, email and bio only.
func PublicView(a *Account) AccountView {
	return AccountView{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Bio:       a.Bio,
		FullName:  fullName(a),
	}
}

// FullView exposes every non-secret field.
func FullView(a *Account) AccountView {
	id := a.ID
	super := a.IsSuperuser
	created := a.CreatedAt
	return AccountView{
		ID:          &id,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Email:       a.Email,
		IsSuperuser: &super,
		Bio:         a.Bio,
		CreatedAt:   &created,
		FullName:    fullName(a),
	}
}

// SelfView is what an account sees about itself. is_superuser and
// created_at are only shown to superusers.
func SelfView(a *Account) AccountView {
	v := FullView(a)
	if !a.IsSuperuser {
		v.IsSuperuser = nil
		v.CreatedAt = nil
	}
	return v
}

func fullName(a *Account) string {
	return a.FirstName + " " + a.LastName
}
