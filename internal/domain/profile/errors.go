package profile

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNotProfileOwner = errors.New("you can only edit your own profile")
	ErrInvalidImage    = errors.New("invalid image file")
)
