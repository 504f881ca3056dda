package catalog

import "errors"

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrPhotoNotFound   = errors.New("photo not found")
	ErrInvalidType     = errors.New("invalid service type")
	ErrVendorNotFound  = errors.New("vendor not found")
	ErrServiceQuoted   = errors.New("service is referenced by quote items")
)
