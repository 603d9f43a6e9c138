package pool

import "errors"

// Pool contract violations. Callers discriminate with errors.Is; every
// failure is reported synchronously to the caller and none is retried
// internally.
var (
	// ErrTypeConflict means a descriptor name already holds data of a
	// different kind or multiplicity mode.
	ErrTypeConflict = errors.New("descriptor kind conflict")

	// ErrNamespaceConflict means a descriptor name would be both a value
	// holder and a namespace prefix of other names.
	ErrNamespaceConflict = errors.New("descriptor namespace conflict")

	// ErrAlreadyAccumulated means Set was called on a name that already
	// holds accumulated (Add-inserted) data.
	ErrAlreadyAccumulated = errors.New("descriptor already holds accumulated data")

	// ErrNotFound is returned by lookups for absent descriptor names.
	ErrNotFound = errors.New("descriptor not found")

	// ErrInvalidValue means a validity-checked value contained NaN or Inf.
	ErrInvalidValue = errors.New("non-finite descriptor value")

	// ErrDuplicateKind is reported by CheckIntegrity when a name appears
	// in more than one sub-pool. Treat it as fatal to the pipeline run.
	ErrDuplicateKind = errors.New("descriptor present in more than one sub-pool")

	// ErrUnsupported means the operation has no implementation for the
	// requested descriptor kind.
	ErrUnsupported = errors.New("unsupported descriptor kind")
)
