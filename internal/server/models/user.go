package models

// User holds the login credentials bound 1:1 to a Person profile.
// PasswordHash is derived from the plaintext password and Salt; the
// plaintext itself is never stored.
type User struct {
	ID           string
	PersonID     string
	Email        string
	PasswordHash string
	Salt         string
}
