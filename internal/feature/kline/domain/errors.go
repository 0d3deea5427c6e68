// Package domain defines domain-level errors for the kline feature.
package domain

import "errors"

// Domain errors for K-line retrieval.
// These are returned by the fetcher and the record parser and should be branched on with errors.Is.
var (
	// ErrSymbolNotFound indicates that the upstream returned no data for either exchange qualifier.
	ErrSymbolNotFound = errors.New("symbol not found upstream")

	// ErrMalformedRecord indicates that a K-line record does not carry the expected 11 fields.
	ErrMalformedRecord = errors.New("malformed kline record")

	// ErrInvalidSecID indicates that a string is not of the form "{0|1}.{code}".
	ErrInvalidSecID = errors.New("invalid secid")

	// ErrInvalidInterval indicates an unsupported K-line interval.
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrInvalidAdjustment indicates an unsupported price adjustment.
	ErrInvalidAdjustment = errors.New("invalid adjustment")
)
