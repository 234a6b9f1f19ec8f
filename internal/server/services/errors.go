package services

// MutationError is a mutation outcome with a stable machine-readable code
// and a human-readable message. The dispatch layer maps it onto its own
// error surface; the code must never change once published.
type MutationError struct {
	Code    string
	Message string
}

func (e *MutationError) Error() string { return e.Message }

var (
	ErrUsernameEmpty = &MutationError{Code: "USERNAME_EMPTY", Message: "The name cannot be empty."}
	ErrEmailEmpty    = &MutationError{Code: "EMAIL_EMPTY", Message: "The email cannot be empty."}
	ErrPasswordEmpty = &MutationError{Code: "PASSWORD_EMPTY", Message: "The password cannot be empty."}

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. Collapsing the two into one code and message keeps login
	// failures from revealing whether an account exists.
	ErrInvalidCredentials = &MutationError{Code: "INVALID_CREDENTIALS", Message: "The specified username or password are invalid."}

	ErrEmailUnknown = &MutationError{Code: "EMAIL_UNKNOWN", Message: "The provided friend email address is invalid."}
)
