package domain

import "time"

// User is the domain model for storefront accounts.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity returns the token-embeddable view of the user.
func (u *User) Identity() Identity {
	return Identity{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
