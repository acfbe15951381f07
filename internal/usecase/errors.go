package usecase

import "strings"

// DomainError: violação de regra de negócio (input inválido, duplicidade).
// Mapeia para 4xx na borda HTTP.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError: falha de infraestrutura (banco, fila). Mapeia para 5xx.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}

func newValidationError(errs []ValidationError) *DomainError {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Error())
	}
	return &DomainError{
		Code:    "VALIDATION",
		Message: strings.Join(messages, "; "),
	}
}
