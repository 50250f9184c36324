package model

import "errors"

var (
	// ErrMalformedDocument means the raw text is not a well-formed legacy document.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrInvalidChordEncoding means a present value is outside its recognized domain.
	ErrInvalidChordEncoding = errors.New("invalid chord encoding")
	ErrSongNotFound         = errors.New("song not found")
)
