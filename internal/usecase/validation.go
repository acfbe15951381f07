package usecase

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/streamleads/streamleads/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateCreateLeadInput(input CreateLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"nome", "is required"})
	} else if len(strings.TrimSpace(input.Name)) < 2 {
		errors = append(errors, ValidationError{"nome", "must have at least 2 characters"})
	} else if len(input.Name) > 255 {
		errors = append(errors, ValidationError{"nome", "must not exceed 255 characters"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if strings.TrimSpace(input.Phone) == "" {
		errors = append(errors, ValidationError{"telefone", "is required"})
	} else if !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"telefone", "must have 10 or 11 digits"})
	}

	if strings.TrimSpace(input.Origin) == "" {
		errors = append(errors, ValidationError{"origem", "is required"})
	} else if !entity.LeadOrigin(input.Origin).IsValid() {
		errors = append(errors, ValidationError{"origem", "is not a known origin"})
	}

	if input.MonthlyIncome != nil && *input.MonthlyIncome < 0 {
		errors = append(errors, ValidationError{"renda_aproximada", "must not be negative"})
	}

	return errors
}

func ValidateUpdateLeadInput(input UpdateLeadInput) []ValidationError {
	var errors []ValidationError

	if input.Name != nil && len(strings.TrimSpace(*input.Name)) < 2 {
		errors = append(errors, ValidationError{"nome", "must have at least 2 characters"})
	}

	if input.Email != nil {
		if _, err := mail.ParseAddress(*input.Email); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}

	if input.Phone != nil && !isValidPhoneNumber(*input.Phone) {
		errors = append(errors, ValidationError{"telefone", "must have 10 or 11 digits"})
	}

	if input.Origin != nil && !entity.LeadOrigin(*input.Origin).IsValid() {
		errors = append(errors, ValidationError{"origem", "is not a known origin"})
	}

	if input.MonthlyIncome != nil && *input.MonthlyIncome < 0 {
		errors = append(errors, ValidationError{"renda_aproximada", "must not be negative"})
	}

	return errors
}

// normalizePhone remove máscara: "(11) 99999-9999" vira "11999999999".
func normalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}

func isValidPhoneNumber(phone string) bool {
	digits := normalizePhone(phone)
	return len(digits) >= 10 && len(digits) <= 11
}
