// pkg/errors/errors.go
package errors

import "fmt"

// ValidationError is local input rejection. Fields maps form field names to
// inline messages when the failure is attributable to specific fields.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// MessageCorrectFields is the form-level alert shown above per-field messages.
const MessageCorrectFields = "Please correct the highlighted fields."

func NewFieldValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Message: MessageCorrectFields, Fields: fields}
}

type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

func NewAuthenticationError(message string) *AuthenticationError {
	return &AuthenticationError{Message: message}
}

// ForbiddenError means the caller is signed in but lacks the privilege.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// CapacityExceededError reports that Position has no slots left.
type CapacityExceededError struct {
	Position string
	Message  string
}

func (e *CapacityExceededError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("position %s has reached maximum capacity", e.Position)
	}
	return e.Message
}

func NewCapacityExceededError(position, message string) *CapacityExceededError {
	return &CapacityExceededError{Position: position, Message: message}
}

// ClosedError reports that Position accepts no sign-ups at all.
type ClosedError struct {
	Position string
	Message  string
}

func (e *ClosedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("position %s is closed for sign-ups", e.Position)
	}
	return e.Message
}

func NewClosedError(position, message string) *ClosedError {
	return &ClosedError{Position: position, Message: message}
}

// UnknownError carries a failure that could not be classified. Message is
// shown to the user verbatim.
type UnknownError struct {
	Message string
}

func (e *UnknownError) Error() string {
	return e.Message
}

func NewUnknownError(message string) *UnknownError {
	return &UnknownError{Message: message}
}

type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	if e.Message == "" {
		return "internal server error"
	}
	return e.Message
}

func NewInternalError() *InternalError {
	return &InternalError{}
}

type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

func NewBadRequestError(message string) *BadRequestError {
	return &BadRequestError{Message: message}
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}
