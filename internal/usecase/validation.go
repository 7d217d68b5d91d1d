package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
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

	if strings.TrimSpace(input.BusinessName) == "" {
		errors = append(errors, ValidationError{"business_name", "is required"})
	} else if len(input.BusinessName) > 200 {
		errors = append(errors, ValidationError{"business_name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.Address) == "" {
		errors = append(errors, ValidationError{"address", "is required"})
	}

	// Email e telefone são opcionais no cadastro manual (ganham
	// placeholder/derivação), mas quando vêm precisam ser válidos.
	if input.Email != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}

	if input.Phone != "" && input.Phone != PlaceholderPhone && !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	if input.Website != "" && !isValidWebsite(input.Website) {
		errors = append(errors, ValidationError{"website", "must be a valid URL"})
	}

	if input.Status != "" && !input.Status.Valid() {
		errors = append(errors, ValidationError{"status", "is not a known status"})
	}

	return errors
}

func isValidPhoneNumber(phone string) bool {
	cleaned := regexp.MustCompile(`\D`).ReplaceAllString(phone, "")

	return len(cleaned) >= 10 && len(cleaned) <= 13
}

func isValidWebsite(site string) bool {
	return regexp.MustCompile(`^(https?://)?[a-zA-Z0-9][a-zA-Z0-9.-]*\.[a-zA-Z]{2,}(/\S*)?$`).MatchString(site)
}
