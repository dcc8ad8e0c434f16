// internal/services/errors.go
package services

import "errors"

// ErrorCode is the closed set of failure reasons surfaced to clients. Handlers
// convert every failure into exactly one of these; nothing else ever reaches the
// response body.
type ErrorCode string

const (
	CodeInvalidCode      ErrorCode = "invalid_code"
	CodeRevoked          ErrorCode = "revoked"
	CodeAlreadyActivated ErrorCode = "already_activated"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeAmbiguousToken   ErrorCode = "ambiguous_token"
	CodeDBError          ErrorCode = "db_error"
	CodeMethodNotAllowed ErrorCode = "method_not_allowed"
	CodeException        ErrorCode = "exception"
)

// ServiceError carries an ErrorCode plus a human-readable message. Detail is
// server-side context (e.g. the underlying database error) that handlers may log
// but must not echo to clients.
type ServiceError struct {
	Code    ErrorCode
	Message string
	Detail  error
}

func (e *ServiceError) Error() string {
	if e.Detail != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.Detail.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Detail
}

func NewServiceError(code ErrorCode, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

func WrapServiceError(code ErrorCode, message string, err error) *ServiceError {
	return &ServiceError{Code: code, Message: message, Detail: err}
}

// CodeOf extracts the ErrorCode from any error, defaulting to exception so an
// unexpected failure still maps into the closed taxonomy.
func CodeOf(err error) ErrorCode {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return CodeException
}
