package application

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUserNotFound       = errors.New("user not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrNothingToUpdate    = errors.New("nothing to update - no fields provided")
	ErrInvalidProduct     = errors.New("product values rejected by store")
)
