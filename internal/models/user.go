// Package models contains data structures for the application's domain models.
package models

// User represents a registered author. PasswordHash is never serialized.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
}

// UserSummary is the public projection of a user.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// CreatedUser is returned from signup. It carries no credential material.
type CreatedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Summary projects the user to its public fields.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username}
}
