// Package common defines the sentinel errors shared by the gallery server
// layers. Failures are wrapped around these values, so callers should match
// them with errors.Is and print the full chain for diagnostics.
package common

import "errors"

var (
	// Secret store errors.
	ErrSecretUnavailable = errors.New("secret unavailable")
	ErrSecretMalformed   = errors.New("secret malformed")

	// Relational store errors.
	ErrConnectionFailed = errors.New("connection failed")
	ErrPersistence      = errors.New("persistence error")
	ErrDuplicateKey     = errors.New("duplicate key")

	// Object store errors.
	ErrStorageWrite = errors.New("storage write error")
	ErrSigning      = errors.New("signing error")

	// Service-level errors.
	ErrGalleryBuild   = errors.New("gallery build error")
	ErrNoFileProvided = errors.New("no file provided")
	ErrUploadFailed   = errors.New("upload failed")
)
