package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingParameters = errors.New("Missing one or more parameters")
	ErrNonProcessable    = errors.New("Start parameter cannot be greater than end parameter")
	ErrOutOfBounds       = errors.New("Not enough questions, please lower your end parameter")
	ErrQuestionNotFound  = errors.New("Question not found")
)

// ParseError indica que um limite de paginação não é um inteiro sem sinal válido.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Cannot parse parameter: %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsDomainError informa se err (ou algo que ele embrulha) pertence à taxonomia do domínio.
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return true
	}
	return errors.Is(err, ErrMissingParameters) ||
		errors.Is(err, ErrNonProcessable) ||
		errors.Is(err, ErrOutOfBounds) ||
		errors.Is(err, ErrQuestionNotFound)
}
