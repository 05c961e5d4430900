package auth

import "errors"

var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrInvalidCredentials    = errors.New("Incorrect email or password")
	ErrInvalidToken          = errors.New("Could not validate credentials")
	ErrUserNotFound          = errors.New("User not found")
)
