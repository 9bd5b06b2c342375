package dto

// UserCreateRequest payload for new accounts.
type UserCreateRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"userName"`
	Password  string `json:"password"`
}

// UserAuthRequest payload for credential authentication.
type UserAuthRequest struct {
	Username string `json:"userName"`
	Password string `json:"password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"userName"`
}

// AuthResponse carries a newly issued session token.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}
