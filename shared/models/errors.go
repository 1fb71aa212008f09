package models

import "errors"

// ErrInvalidInput - общая ошибка пользовательского ввода.
var ErrInvalidInput = errors.New("invalid input data")

// ValidationError - ошибка пользовательского ввода, показывается рядом с полем формы.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Is позволяет сравнивать ValidationError с ErrInvalidInput через errors.Is.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError создает ошибку валидации для поля формы.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
