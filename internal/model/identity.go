package model

// Identity is the caller resolved by the auth gate.
// It is attached to the request context after the bearer token has been
// verified and the account confirmed to exist.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
