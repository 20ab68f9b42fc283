package documents

import "errors"

var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrTooLarge     = errors.New("file exceeds upload limit")
	ErrFileMissing  = errors.New("stored file missing")
)

// MaxUploadBytes is the largest accepted file.
const MaxUploadBytes = 10 << 20
