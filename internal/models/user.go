// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// FederatedCredential is the sentinel stored in place of a password hash for
// accounts created through an external identity provider. It is not a valid
// bcrypt hash, so it can never match any password on the local login path.
const FederatedCredential = "federated"

// User represents a registered account, created either locally or on first
// federated login.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"not null" json:"username"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Posts     []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// IsFederated reports whether the account was created through an external
// identity provider and therefore has no local password.
func (u *User) IsFederated() bool {
	return u.Password == FederatedCredential
}
