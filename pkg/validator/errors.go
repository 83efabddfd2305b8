package validator

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the rule a document violated.
type ErrorCode string

const (
	MalformedDocument      ErrorCode = "MALFORMED_DOCUMENT"
	InvalidReferenceFormat ErrorCode = "INVALID_REFERENCE_FORMAT"
	EmptyAddress           ErrorCode = "EMPTY_ADDRESS"
	InvalidPolicyID        ErrorCode = "INVALID_POLICY_ID"
	EmptyAssetMap          ErrorCode = "EMPTY_ASSET_MAP"
	InvalidAssetName       ErrorCode = "INVALID_ASSET_NAME"
	InvalidScript          ErrorCode = "INVALID_SCRIPT"
	InvalidHexField        ErrorCode = "INVALID_HEX_FIELD"
)

// Sentinels for errors.Is. Matching is by code only.
var (
	ErrMalformedDocument      = &ValidationError{Code: MalformedDocument}
	ErrInvalidReferenceFormat = &ValidationError{Code: InvalidReferenceFormat}
	ErrEmptyAddress           = &ValidationError{Code: EmptyAddress}
	ErrInvalidPolicyID        = &ValidationError{Code: InvalidPolicyID}
	ErrEmptyAssetMap          = &ValidationError{Code: EmptyAssetMap}
	ErrInvalidAssetName       = &ValidationError{Code: InvalidAssetName}
	ErrInvalidScript          = &ValidationError{Code: InvalidScript}
	ErrInvalidHexField        = &ValidationError{Code: InvalidHexField}
)

// ValidationError is the first (or, in aggregate mode, each) violation
// found in a document.
type ValidationError struct {
	Code ErrorCode
	// Ref is the UTxO reference the violation belongs to. Empty for
	// MalformedDocument.
	Ref     string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *ValidationError with the same code.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// CodeOf returns the code of the ValidationError in err's chain, or "" if
// there is none.
func CodeOf(err error) ErrorCode {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Code
	}
	return ""
}

func newError(code ErrorCode, ref string, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Ref: ref, Message: fmt.Sprintf(format, args...)}
}
