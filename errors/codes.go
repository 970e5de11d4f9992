// Package errors provides the structured error type shared by every
// cookbook-status package. Errors carry a stable code, a human message,
// optional key/value context and the underlying cause.
package errors

// ErrorCode identifies a class of failure.
// Codes are strings so they read well in logs and serialize naturally.
type ErrorCode string

const (
	// Snapshot errors.

	// CodeSnapshotUnavailable indicates a tree snapshot (local directory,
	// repository, clone or revision) could not be materialized.
	CodeSnapshotUnavailable ErrorCode = "SNAPSHOT_UNAVAILABLE"

	// CodeManifestMalformed indicates a registry manifest entry is missing
	// a required field or the document could not be decoded.
	CodeManifestMalformed ErrorCode = "MANIFEST_MALFORMED"

	// CodeAmbiguousPath indicates two entries resolve to the same relative
	// path with different checksums. Only raised in strict mode.
	CodeAmbiguousPath ErrorCode = "AMBIGUOUS_PATH"

	// Resource errors.

	// CodeNotFound indicates a requested resource does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Infrastructure errors.

	// CodeNetwork indicates a network operation failed.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeUnauthorized indicates the request lacks valid credentials.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// CodeCanceled indicates the caller canceled the operation.
	CodeCanceled ErrorCode = "CANCELED"

	// System errors.

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnknown indicates an unclassified error.
	CodeUnknown ErrorCode = "UNKNOWN"
)
