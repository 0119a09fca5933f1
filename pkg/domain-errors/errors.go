// Package domainerrors defines the coded error taxonomy shared by services.
//
// Infrastructure layers (stores, HTTP clients) return sentinel errors or plain
// wrapped errors; services translate them into coded errors at the boundary so
// callers can branch on the failure class without string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain failure.
type Code string

const (
	// CodeGeocode: the suggestion service returned no usable suggestions.
	CodeGeocode Code = "geocode"
	// CodeAddressResolution: an administrative-hierarchy lookup missed.
	// Errors with this code carry a Stage (district, street, house).
	CodeAddressResolution Code = "address_resolution"
	// CodeProtocolTransport: network/TLS failure talking to the vendor
	// endpoint. Retryable at the next sweep tick.
	CodeProtocolTransport Code = "protocol_transport"
	// CodeProtocolParse: the vendor response deviated from the expected
	// shape. Not retryable with the same input.
	CodeProtocolParse Code = "protocol_parse"
	// CodeSubmission: the provisioning system rejected an application.
	CodeSubmission Code = "submission"
	// CodeStatusMapping: an application status combination we do not know
	// how to map. Logged, never fatal.
	CodeStatusMapping Code = "status_mapping"

	CodeNotFound   Code = "not_found"
	CodeBadRequest Code = "bad_request"
	CodeInternal   Code = "internal"
)

// Resolution stages for CodeAddressResolution errors.
const (
	StageDistrict = "district"
	StageStreet   = "street"
	StageHouse    = "house"
)

// Error is a coded domain error. Stage is set only for address-resolution
// failures.
type Error struct {
	Code    Code
	Stage   string
	Message string
	cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Stage != "" {
		msg = fmt.Sprintf("%s (stage %s)", msg, e.Stage)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error with no underlying cause.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf is New with formatting.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// NewStage builds an address-resolution error tagged with the stage that
// missed.
func NewStage(code Code, stage, msg string) *Error {
	return &Error{Code: code, Stage: stage, Message: msg}
}

// WrapStage is Wrap with a stage tag.
func WrapStage(err error, code Code, stage, msg string) *Error {
	return &Error{Code: code, Stage: stage, Message: msg, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code carried by err, or CodeInternal when err is not a
// domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// StageOf returns the resolution stage carried by err, or "" when absent.
func StageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Stage
	}
	return ""
}
