package models

// User is kept in the persisted document for compatibility. No endpoint
// reads or writes users; the password is stored as given.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}
