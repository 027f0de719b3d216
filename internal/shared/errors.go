package shared

import "errors"

// Sentinel errors shared by every feature package. Wrap them with
// fmt.Errorf("%w: ...") so the HTTP layer can map them with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)
