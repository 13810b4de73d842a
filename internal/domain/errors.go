package domain

import "errors"

// Business rule failures returned by the use-cases. The transport maps each
// of these to a fixed status code; Code returns the name used as the mapping key.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserAlreadyExists   = errors.New("e-mail already exists")
	ErrResourceNotFound    = errors.New("resource not found")
	ErrMaxDistance         = errors.New("max distance reached")
	ErrMaxNumberOfCheckIns = errors.New("max number of check-ins reached")
)

// Repository lookups that find nothing.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrGymNotFound     = errors.New("gym not found")
	ErrCheckInNotFound = errors.New("check-in not found")
)

var codes = map[error]string{
	ErrInvalidCredentials:  "InvalidCredentialsError",
	ErrUserAlreadyExists:   "UserAlreadyExistsError",
	ErrResourceNotFound:    "ResourceNotFoundError",
	ErrMaxDistance:         "MaxDistanceError",
	ErrMaxNumberOfCheckIns: "MaxNumberOfCheckInsError",
	ErrInvalidCoordinate:   "InvalidCoordinateError",
}

// Code returns the taxonomy name of a business error, or "" when err is not
// one of them (storage and other infrastructure failures).
func Code(err error) string {
	for sentinel, code := range codes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}
