package utils

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

const MinPasswordLength = 8

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// ValidEmail accepts a plain addr-spec such as user@example.com.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if !emailRe.MatchString(email) {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// PasswordProblem returns "" for an acceptable password, otherwise the reason.
func PasswordProblem(password string) string {
	if len([]rune(password)) < MinPasswordLength {
		return "password must be at least 8 characters"
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return "password must contain upper-case, lower-case and numeric characters"
	}
	return ""
}
