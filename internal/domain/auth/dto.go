package auth

// LoginRequest is the email+password login form
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the session token and the account it belongs to
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
