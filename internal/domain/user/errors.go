package user

import "errors"

var (
	ErrEmptyUserID       = errors.New("user id is required")
	ErrInvalidBiometrics = errors.New("weight, height and age must be positive")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)
