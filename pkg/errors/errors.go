package errors

import "fmt"

// AppError is a coded, caller-visible error. Every recoverable outcome of
// the engine (insufficient funds, unknown box, double claim, ...) carries
// one of the codes below so handlers can map it to a response without
// string matching.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the code of an AppError, or empty for any other error.
func CodeOf(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ""
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}

// Common error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeInternalError = "INTERNAL_ERROR"

	ErrCodeInvalidAmount     = "INVALID_AMOUNT"
	ErrCodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	ErrCodeInsufficientStake = "INSUFFICIENT_STAKE"

	ErrCodeQuestNotFound        = "QUEST_NOT_FOUND"
	ErrCodeQuestNotCompleted    = "QUEST_NOT_COMPLETED"
	ErrCodeRewardAlreadyClaimed = "REWARD_ALREADY_CLAIMED"

	ErrCodeAchievementNotFound = "ACHIEVEMENT_NOT_FOUND"
	ErrCodeAlreadyUnlocked     = "ACHIEVEMENT_ALREADY_UNLOCKED"

	ErrCodeBoxNotFound = "BOX_NOT_FOUND"
)
