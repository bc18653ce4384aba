package param

import "errors"

var (
	// ErrUnknownParameter is returned by Get for keys that were never declared.
	ErrUnknownParameter = errors.New("param: unknown parameter")

	// ErrDuplicateKey is returned by Add when a key is declared twice.
	ErrDuplicateKey = errors.New("param: duplicate parameter key")

	// ErrInvalidRange is returned by Add for an empty or inverted range.
	ErrInvalidRange = errors.New("param: invalid parameter range")

	// ErrInfeasibleOrdering is returned by AddOrdering when the declared
	// ranges cannot satisfy the ordering chain for any assignment.
	ErrInfeasibleOrdering = errors.New("param: infeasible ordering group")
)
