// Package fwerr defines the framework's error taxonomy.
//
// Every failure the core can report to a host maps onto one of these
// sentinels so that bridge code can translate it into the ABI's own error
// channel (a VST3 tresult or an AU NSError) with errors.Is.
package fwerr

import "errors"

var (
	// ErrInvalidState reports an operation attempted in the wrong lifecycle
	// state, such as rendering while unprepared.
	ErrInvalidState = errors.New("invalid lifecycle state")

	// ErrAllocationFailed reports that prepare could not build its
	// conversion buffers or processor.
	ErrAllocationFailed = errors.New("allocation failed")

	// ErrStateFormat reports malformed or unparseable serialized state.
	ErrStateFormat = errors.New("malformed state")

	// ErrProcessing reports a failure inside the render path, such as a
	// double-precision request the processor cannot satisfy.
	ErrProcessing = errors.New("processing failed")

	// ErrHostContract reports a null or out-of-range value supplied by the
	// host where the ABI forbids it.
	ErrHostContract = errors.New("host contract violation")

	// ErrUnsupported reports a feature this build or plugin does not
	// provide.
	ErrUnsupported = errors.New("unsupported")

	// ErrAlreadyRegistered reports a second Register call; the factory
	// slot is write-once.
	ErrAlreadyRegistered = errors.New("plugin already registered")

	// ErrNotRegistered reports a factory call before any plugin was
	// registered.
	ErrNotRegistered = errors.New("no plugin registered")
)
