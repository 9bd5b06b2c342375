package domain

// Identity is the authenticated subject carried inside a session token.
// It is borrowed from the store at issuance time and never mutated here.
type Identity struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
}
