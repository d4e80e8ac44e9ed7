package domain

import "errors"

// error taxonomy shared by the pipeline components, check with errors.Is
var (
	// ErrModelUnavailable means the embedding model could not be loaded
	ErrModelUnavailable = errors.New("embedding model unavailable")
	// ErrGenerativeCall covers network, timeout and parse failures of a generative model call
	ErrGenerativeCall = errors.New("generative model call failed")
	// ErrStoreUnavailable means the corpus store failed to read or write
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrDimensionMismatch means two vectors can't be compared because their lengths differ
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrNotFound means no article exists for the requested link
	ErrNotFound = errors.New("not found")
)
