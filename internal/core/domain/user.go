package domain

import "time"

// AccountType is the user's account tier. It is embedded in issued tokens.
type AccountType string

const (
	AccountRegular AccountType = "regular"
	AccountPro     AccountType = "pro"
)

// Valid reports whether t is a known account tier.
func (t AccountType) Valid() bool {
	return t == AccountRegular || t == AccountPro
}

// User models a registered account. PasswordHash is never serialised.
type User struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	AvatarPath   string      `json:"avatarPath,omitempty"`
	PasswordHash string      `json:"-"`
	Type         AccountType `json:"type"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Identity returns the token subject for u.
func (u *User) Identity() Identity {
	return Identity{SubjectID: u.ID, Email: u.Email, AccountType: u.Type}
}
