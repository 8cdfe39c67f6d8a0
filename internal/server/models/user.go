package models

import "time"

// Identity is the verified caller of a request. The zero value means no
// identity could be established.
type Identity struct {
	Username string
}

// Authenticated reports whether a verified identity is present.
func (i Identity) Authenticated() bool {
	return i.Username != ""
}

// Credentials is the stored secret for a user. It never leaves the
// directory and has no JSON encoding on purpose.
type Credentials struct {
	Username     string
	PasswordHash string
}

// NewUser is what registration writes.
type NewUser struct {
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
}

// User is the profile view of a user record. The password hash is never
// part of it.
type User struct {
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       string     `json:"phone"`
	JoinAt      time.Time  `json:"join_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// Ref returns the denormalized counterpart view of u.
func (u *User) Ref() UserRef {
	return UserRef{Username: u.Username, FirstName: u.FirstName, LastName: u.LastName, Phone: u.Phone}
}

// UserSummary is one row of the directory listing.
type UserSummary struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserRef is the counterpart identity embedded in message views.
type UserRef struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}
