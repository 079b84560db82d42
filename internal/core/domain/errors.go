package domain

import "errors"

// Login flow rejections.
var (
	ErrBadCredentials         = errors.New("bad credentials or inactive user")
	ErrNotVerified            = errors.New("user is not verified")
	ErrBadOTP                 = errors.New("invalid otp")
	ErrInvalidLoginTransition = errors.New("invalid login transition")
)

// ErrStoreUnavailable wraps every failure to reach redis or mongo.
var ErrStoreUnavailable = errors.New("backing store unavailable")

// Account management.
var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrBadToken        = errors.New("bad or expired token")
	ErrAlreadyVerified = errors.New("user already verified")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("access forbidden")
)

// Battle and pokemon endpoints.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrPokemonNotFound = errors.New("pokemon not found")
	ErrInvalidPokemon  = errors.New("invalid pokemon name")
	ErrUpstream        = errors.New("pokeapi unavailable")
	ErrUpload          = errors.New("failed to store file on ftp server")
	ErrMailDelivery    = errors.New("mail delivery failed")
)
