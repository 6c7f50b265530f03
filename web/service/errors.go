package service

import "errors"

var (
	ErrUserExists         = errors.New("register number already registered")
	ErrInvalidCredentials = errors.New("invalid register number or password")
	ErrInactive           = errors.New("account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrNotFound           = errors.New("not found")
)

// InputError is a validation failure whose message is safe to return to
// the client.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string {
	return e.Msg
}

// IsInputError reports whether err is a validation failure.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
