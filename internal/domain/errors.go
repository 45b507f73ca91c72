package domain

import "errors"

var (
	// ErrSourceRootNotFound means neither `src` nor a directory named after the
	// project exists; the project is invalid.
	ErrSourceRootNotFound = errors.New("source directory not found")
	// ErrProjectNotDirectory means the project path is not an existing directory.
	ErrProjectNotDirectory = errors.New("project path is not a directory")
	// ErrGeneration wraps transport or service failures of the text generator.
	ErrGeneration = errors.New("test generation failed")
	// ErrEmptyResponse means the generator answered with no usable text.
	ErrEmptyResponse = errors.New("empty response from text generator")
	// ErrMalformedResponse means the generator answered without any choice.
	ErrMalformedResponse = errors.New("malformed response from text generator")
	// ErrNoModels means the model catalog returned nothing to validate against.
	ErrNoModels = errors.New("no models available")
	// ErrRoundPanicked wraps a panic recovered at the round boundary.
	ErrRoundPanicked = errors.New("round panicked")
)
