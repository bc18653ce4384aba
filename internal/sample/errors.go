package sample

import "errors"

var (
	// ErrConfig reports an invalid sample declaration: unknown renderer
	// kind, parameter key, preset or control binding. Fatal at load.
	ErrConfig = errors.New("sample: invalid declaration")

	// ErrUnknownSample reports a lookup for a name never registered.
	ErrUnknownSample = errors.New("sample: unknown sample")

	// ErrDuplicateSample reports a second registration under one name.
	ErrDuplicateSample = errors.New("sample: duplicate sample")
)
