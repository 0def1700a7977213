package fmdata

import (
	"errors"
	"fmt"

	"github.com/fmdata-io/fmdata-client/internal/constants"
)

// APIError represents an error reported by FileMaker Server through the
// messages section of a response envelope.
type APIError struct {
	Code    int    `json:"code"    yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("filemaker server returned error %d: %s", e.Code, e.Message)
}

// Is matches APIErrors by code so errors.Is(err, fmdata.ErrRecordConflict)
// works regardless of the message the server attached.
func (e *APIError) Is(target error) bool {
	var apiErr *APIError
	if errors.As(target, &apiErr) {
		return apiErr.Code == e.Code
	}

	return false
}

// Well-known service errors.
var (
	ErrAuthFailed     = &APIError{Code: constants.FMErrorInvalidCredentials, Message: "invalid user account or password"}
	ErrRecordMissing  = &APIError{Code: constants.FMErrorRecordMissing, Message: "record is missing"}
	ErrFieldMissing   = &APIError{Code: constants.FMErrorFieldMissing, Message: "field is missing"}
	ErrRecordConflict = &APIError{Code: constants.FMErrorModificationMismatch, Message: "record modification id does not match"}
	ErrNoMatch        = &APIError{Code: constants.FMErrorNoRecordsMatch, Message: "no records match the request"}
	ErrTokenExpired   = &APIError{Code: constants.FMErrorInvalidToken, Message: "invalid filemaker data api token"}
)

// Static errors for local failures.
var (
	ErrNotAuthenticated  = errors.New("not authenticated: no valid session token, call Login first")
	ErrStaleRecord       = errors.New("record has been deleted or has no record id")
	ErrDetachedRecord    = errors.New("portal record is not attached to a layout client")
	ErrFieldNotFound     = errors.New("no such field on the layout")
	ErrPortalNotFound    = errors.New("no such portal on the layout")
	ErrPortalReadOnly    = errors.New("portal data cannot be set through the parent record")
	ErrTimeout           = errors.New("request deadline exceeded")
	ErrParse             = errors.New("malformed response envelope")
	ErrIndexOutOfRange   = errors.New("index exceeds foundset total count")
	ErrEmptyQuery        = errors.New("find requires at least one query group")
	ErrContainerDownload = errors.New("container download failed")

	ErrConfigRequired   = errors.New("config is required")
	ErrHostRequired     = errors.New("host is required")
	ErrDatabaseRequired = errors.New("database is required")
	ErrLayoutRequired   = errors.New("layout is required")
	ErrUsernameRequired = errors.New("username is required")
)

// IsNotFound checks whether the error is a missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordMissing)
}

// IsConflict checks whether the error is a modification-id mismatch.
func IsConflict(err error) bool {
	return errors.Is(err, ErrRecordConflict)
}

// IsNoMatch checks whether the error is a find that matched no records.
func IsNoMatch(err error) bool {
	return errors.Is(err, ErrNoMatch)
}

// IsTokenExpired checks whether the error is a server-side token expiry.
func IsTokenExpired(err error) bool {
	return errors.Is(err, ErrTokenExpired)
}

// IsAuthFailed checks whether the error is a credential failure.
func IsAuthFailed(err error) bool {
	return errors.Is(err, ErrAuthFailed)
}

// IsTimeout checks whether the error is a transport deadline expiry.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
