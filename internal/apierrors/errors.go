// Package apierrors holds the typed failures surfaced to API callers.
package apierrors

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Domain is reported in the ErrorInfo detail of every converted status.
const Domain = "gatekeeper"

// Kind groups errors by how callers should treat them.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindInternal     Kind = "internal"
)

// Code identifies a specific failure.
type Code string

const (
	CodeValidationFailed          Code = "VALIDATION_FAILED"
	CodeEmailExists               Code = "EMAIL_EXISTS"
	CodeUsernameExists            Code = "USERNAME_EXISTS"
	CodeInvalidCredentials        Code = "INVALID_CREDENTIALS"
	CodeTokenInvalid              Code = "TOKEN_INVALID"
	CodeTokenExpired              Code = "TOKEN_EXPIRED"
	CodeTokenRevoked              Code = "TOKEN_REVOKED"
	CodeTokenReuseDetected        Code = "TOKEN_REUSE_DETECTED"
	CodeAccountLocked             Code = "ACCOUNT_LOCKED"
	CodeAccountSuspended          Code = "ACCOUNT_SUSPENDED"
	CodeAccountPending            Code = "ACCOUNT_PENDING"
	CodeAccountInactive           Code = "ACCOUNT_INACTIVE"
	CodeMissingToken              Code = "MISSING_AUTHORIZATION_TOKEN"
	CodeInvalidAccessToken        Code = "INVALID_AUTHORIZATION_TOKEN"
	CodeForbidden                 Code = "FORBIDDEN"
	CodeUserNotFound              Code = "USER_NOT_FOUND"
	CodeSessionNotFound           Code = "SESSION_NOT_FOUND"
	CodeTokenNotFound             Code = "TOKEN_NOT_FOUND"
	CodeEmailJobNotFound          Code = "EMAIL_JOB_NOT_FOUND"
	CodeVerificationCodeInvalid   Code = "VERIFICATION_CODE_INVALID"
	CodeVerificationCodeIncorrect Code = "VERIFICATION_CODE_INCORRECT"
	CodeAlreadyVerified           Code = "ALREADY_VERIFIED"
	CodeResetCodeInvalid          Code = "RESET_CODE_INVALID"
	CodeAttachmentsUnavailable    Code = "ATTACHMENTS_UNAVAILABLE"
	CodeInternal                  Code = "INTERNAL"
)

// APIError is a typed failure with a stable code and a gRPC status mapping.
type APIError struct {
	Kind     Kind
	Code     Code
	Message  string
	GRPCCode codes.Code
	Metadata map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// GRPCStatus converts e to a status with an ErrorInfo detail whose reason is
// the error code. status.FromError and the gRPC server use it directly.
func (e *APIError) GRPCStatus() *status.Status {
	st := status.New(e.GRPCCode, e.Message)
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   string(e.Code),
		Domain:   Domain,
		Metadata: e.Metadata,
	})
	if err != nil {
		return st
	}
	return detailed
}

// Is matches any APIError with the same code.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// As extracts an APIError from err.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Code == code
}

func newErr(kind Kind, code Code, grpcCode codes.Code, msg string) *APIError {
	return &APIError{Kind: kind, Code: code, Message: msg, GRPCCode: grpcCode}
}

// NewErrValidation reports malformed input.
func NewErrValidation(msg string) *APIError {
	return newErr(KindValidation, CodeValidationFailed, codes.InvalidArgument, msg)
}

// NewErrValidationFields reports malformed input with per-field reasons.
func NewErrValidationFields(fields map[string]string) *APIError {
	err := newErr(KindValidation, CodeValidationFailed, codes.InvalidArgument, "request validation failed")
	err.Metadata = fields
	return err
}

func NewErrEmailExists(email string) *APIError {
	return newErr(KindConflict, CodeEmailExists, codes.AlreadyExists, fmt.Sprintf("email %s is already registered", email))
}

func NewErrUsernameExists(username string) *APIError {
	return newErr(KindConflict, CodeUsernameExists, codes.AlreadyExists, fmt.Sprintf("username %s is already taken", username))
}

// NewErrInvalidCredentials never says which of email or password was wrong.
func NewErrInvalidCredentials() *APIError {
	return newErr(KindUnauthorized, CodeInvalidCredentials, codes.Unauthenticated, "invalid email or password")
}

func NewErrTokenInvalid() *APIError {
	return newErr(KindUnauthorized, CodeTokenInvalid, codes.Unauthenticated, "refresh token is invalid")
}

func NewErrTokenExpired() *APIError {
	return newErr(KindUnauthorized, CodeTokenExpired, codes.Unauthenticated, "refresh token has expired")
}

func NewErrTokenRevoked() *APIError {
	return newErr(KindUnauthorized, CodeTokenRevoked, codes.Unauthenticated, "refresh token has been revoked")
}

func NewErrTokenReuseDetected() *APIError {
	return newErr(KindUnauthorized, CodeTokenReuseDetected, codes.Unauthenticated, "refresh token reuse detected, all related sessions were revoked")
}

// NewErrAccountLocked carries the remaining lockout in whole minutes, rounded up.
func NewErrAccountLocked(remaining time.Duration) *APIError {
	minutes := int(math.Ceil(remaining.Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	err := newErr(KindUnauthorized, CodeAccountLocked, codes.Unauthenticated,
		fmt.Sprintf("account is locked, try again in %d minutes", minutes))
	err.Metadata = map[string]string{"retry_after_minutes": strconv.Itoa(minutes)}
	return err
}

func NewErrAccountSuspended() *APIError {
	return newErr(KindUnauthorized, CodeAccountSuspended, codes.Unauthenticated, "account is suspended")
}

func NewErrAccountPending() *APIError {
	return newErr(KindUnauthorized, CodeAccountPending, codes.Unauthenticated, "account email is not verified yet")
}

func NewErrAccountInactive() *APIError {
	return newErr(KindUnauthorized, CodeAccountInactive, codes.Unauthenticated, "account is inactive")
}

func NewErrMissingAuthorizationToken() *APIError {
	return newErr(KindUnauthorized, CodeMissingToken, codes.Unauthenticated, "authorization token is missing")
}

func NewErrInvalidAuthorizationToken() *APIError {
	return newErr(KindUnauthorized, CodeInvalidAccessToken, codes.Unauthenticated, "authorization token is invalid")
}

func NewErrForbidden() *APIError {
	return newErr(KindForbidden, CodeForbidden, codes.PermissionDenied, "insufficient permissions")
}

func NewErrUserNotFound() *APIError {
	return newErr(KindNotFound, CodeUserNotFound, codes.NotFound, "user not found")
}

func NewErrSessionNotFound() *APIError {
	return newErr(KindNotFound, CodeSessionNotFound, codes.NotFound, "session not found")
}

func NewErrTokenNotFound() *APIError {
	return newErr(KindNotFound, CodeTokenNotFound, codes.NotFound, "refresh token not found")
}

func NewErrEmailJobNotFound() *APIError {
	return newErr(KindNotFound, CodeEmailJobNotFound, codes.NotFound, "email job not found")
}

func NewErrVerificationCodeInvalid() *APIError {
	return newErr(KindValidation, CodeVerificationCodeInvalid, codes.InvalidArgument, "verification code is invalid or has expired")
}

func NewErrVerificationCodeIncorrect() *APIError {
	return newErr(KindValidation, CodeVerificationCodeIncorrect, codes.InvalidArgument, "verification code is incorrect")
}

func NewErrAlreadyVerified() *APIError {
	return newErr(KindConflict, CodeAlreadyVerified, codes.FailedPrecondition, "email is already verified")
}

func NewErrResetCodeInvalid() *APIError {
	return newErr(KindValidation, CodeResetCodeInvalid, codes.InvalidArgument, "reset code is invalid or has expired")
}

func NewErrAttachmentsUnavailable() *APIError {
	return newErr(KindValidation, CodeAttachmentsUnavailable, codes.FailedPrecondition, "attachment storage is not configured")
}

func NewErrInternalServerError() *APIError {
	return newErr(KindInternal, CodeInternal, codes.Internal, "internal server error")
}
