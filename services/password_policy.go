package services

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password an admin account accepts.
const MinPasswordLength = 12

// ValidatePassword checks the admin password policy: at least
// MinPasswordLength characters mixing upper and lower case letters, a digit
// and a symbol. The error carries the first unmet rule under "password".
func ValidatePassword(password string) error {
	msg := passwordProblem(password)
	if msg == "" {
		return nil
	}
	return &ValidationError{Fields: map[string]string{"password": msg}}
}

func passwordProblem(password string) string {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength)
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return "Password must contain at least one uppercase letter"
	case !hasLower:
		return "Password must contain at least one lowercase letter"
	case !hasNumber:
		return "Password must contain at least one number"
	case !hasSpecial:
		return "Password must contain at least one special character"
	}
	return ""
}
