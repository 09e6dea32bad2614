package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// Letters (Latin or Arabic) and spaces only
	nameRegex = regexp.MustCompile(`^[\p{Arabic}a-zA-Z\s]+$`)
	// Saudi mobile number, e.g. 0512345678
	phoneRegex = regexp.MustCompile(`^05\d{8}$`)
	// Saudi national id: 10 digits starting with 1 or 2
	nationalIDRegex = regexp.MustCompile(`^[12]\d{9}$`)
)

// ValidCustomerName reports whether the name is at least 3 characters of
// letters and spaces
func ValidCustomerName(name string) bool {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 3 {
		return false
	}
	return nameRegex.MatchString(name)
}

// ValidCustomerPhone reports whether the phone matches the local mobile pattern
func ValidCustomerPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// ValidNationalID reports whether the id is a well-formed national id
func ValidNationalID(id string) bool {
	return nationalIDRegex.MatchString(id)
}

// InternationalPhone converts a local 05XXXXXXXX number to its international
// form without the plus sign (9665XXXXXXXX), as the gateway expects. Numbers
// in any other form are passed through unchanged.
func InternationalPhone(phone string) string {
	if strings.HasPrefix(phone, "05") {
		return "966" + phone[1:]
	}
	return phone
}
