package location

import "errors"

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrLocationInUse    = errors.New("location is referenced by catalog services")
	ErrDuplicateName    = errors.New("location with this name already exists")
)
