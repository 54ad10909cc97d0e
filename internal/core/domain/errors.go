package domain

import "errors"

// Domain errors represent generation failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoMaterials indicates the material directory holds no .mtl files.
	ErrNoMaterials = errors.New("no material files found")

	// ErrModelFormat indicates the model archive is missing arrays or uses
	// an unsupported layout.
	ErrModelFormat = errors.New("unsupported model format")

	// ErrDimensionMismatch indicates coefficient or array sizes disagree
	// with the model.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrGenerationFailed indicates one or more identities could not be produced.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrUploadUnavailable indicates upload was requested but no bucket is configured.
	ErrUploadUnavailable = errors.New("upload target not configured")
)
