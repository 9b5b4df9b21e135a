package services

import "github.com/gofiber/fiber/v2"

// Error kinds surfaced by the service layer. Controllers map a kind to an
// HTTP status; the code is a stable machine-readable identifier the client
// can branch on.
const (
	KindValidation = "validation"
	KindConflict   = "conflict"
	KindPermission = "permission"
	KindState      = "state"
	KindNotFound   = "not_found"
)

// Stable error codes
const (
	CodeInvalidTimeRange     = "invalid_time_range"
	CodePastDate             = "past_date"
	CodeDuplicateSlot        = "duplicate_slot"
	CodeTrainerDoubleBooked  = "trainer_double_booked"
	CodeInvalidStatus        = "invalid_status"
	CodeInvalidTransition    = "invalid_transition"
	CodeSessionTerminal      = "session_terminal"
	CodeReminderAfterSession = "reminder_after_session"
	CodeAlreadyCheckedIn     = "already_checked_in"
	CodeNotCheckedIn         = "not_checked_in"
	CodeNotOwner             = "not_owner"
	CodeNotParticipant       = "not_participant"
	CodeNotFound             = "record_not_found"
)

// ServiceError is a typed, recoverable operation failure. Anything else
// returned by the service layer is treated as a persistence failure.
type ServiceError struct {
	Kind    string `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// HTTPStatus maps the error kind to a response status.
func (e *ServiceError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindConflict:
		return fiber.StatusConflict
	case KindPermission:
		return fiber.StatusForbidden
	case KindState:
		return fiber.StatusUnprocessableEntity
	case KindNotFound:
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

func NewValidationError(code, message string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Code: code, Message: message}
}

func NewConflictError(code, message string) *ServiceError {
	return &ServiceError{Kind: KindConflict, Code: code, Message: message}
}

func NewPermissionError(code, message string) *ServiceError {
	return &ServiceError{Kind: KindPermission, Code: code, Message: message}
}

func NewStateError(code, message string) *ServiceError {
	return &ServiceError{Kind: KindState, Code: code, Message: message}
}

func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Code: CodeNotFound, Message: message}
}

// AsServiceError unwraps err into a *ServiceError when possible.
func AsServiceError(err error) (*ServiceError, bool) {
	se, ok := err.(*ServiceError)
	return se, ok
}
