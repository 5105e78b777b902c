// Package errors provides error handling for pretune.
//
// It re-exports github.com/cockroachdb/errors and declares the sentinel
// errors that classify every failure the generator can report:
//
//	if err := r.Run(cfg); errors.Is(err, errors.ErrConfiguration) {
//		// a declaration is set up wrong; fix the source
//	}
//
// Use the Configuration, Input, PathPolicy and Pipeline helpers to attach a
// sentinel to an error while keeping its message and stack.
package errors

import (
	stderrors "errors"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Join combines independent failures, e.g. one per compilation unit.
var Join = stderrors.Join

// Sentinel errors. Check them with errors.Is.
var (
	// ErrConfiguration marks a declaration that cannot be generated as written:
	// duplicate comparer registrations, unsupported shapes, misplaced markers.
	ErrConfiguration = New("configuration error")

	// ErrInput marks source that cannot be understood: unparsable files or
	// declarations without a resolved symbol.
	ErrInput = New("input error")

	// ErrPathPolicy marks an input path the pipeline refuses to process.
	ErrPathPolicy = New("path policy violation")

	// ErrPipeline marks persistence failures while reading or writing files.
	ErrPipeline = New("pipeline error")

	// ErrUsage marks invalid command line usage.
	ErrUsage = New("usage error")
)

// Configuration creates an error marked with ErrConfiguration.
func Configuration(format string, args ...any) error {
	return Mark(Newf(format, args...), ErrConfiguration)
}

// Input creates an error marked with ErrInput.
func Input(format string, args ...any) error {
	return Mark(Newf(format, args...), ErrInput)
}

// PathPolicy creates an error marked with ErrPathPolicy.
func PathPolicy(format string, args ...any) error {
	return Mark(Newf(format, args...), ErrPathPolicy)
}

// Usage creates an error marked with ErrUsage.
func Usage(format string, args ...any) error {
	return Mark(Newf(format, args...), ErrUsage)
}

// Pipeline wraps an I/O failure with context and marks it with ErrPipeline.
func Pipeline(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Mark(Wrapf(err, format, args...), ErrPipeline)
}
