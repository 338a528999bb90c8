package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// Alphanumeric record identifiers (student/teacher numbers)
	RecordIDPattern = `^[A-Za-z0-9]{1,20}$`

	// Phone numbers: digits plus common separators
	PhonePattern = `^[\d\-\+\(\)\s]{1,20}$`

	// Email validation pattern
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// Password min length
	PasswordMinLength = 6

	// Name min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	RecordID *regexp.Regexp
	Phone    *regexp.Regexp
	Email    *regexp.Regexp
}{
	RecordID: regexp.MustCompile(RecordIDPattern),
	Phone:    regexp.MustCompile(PhonePattern),
	Email:    regexp.MustCompile(EmailPattern),
}

// ValidRecordID reports whether id is a well-formed student/teacher number.
func ValidRecordID(id string) bool {
	return CompiledPatterns.RecordID.MatchString(id)
}

// ValidPhone reports whether s looks like a phone number. Empty is allowed;
// phone is an optional field everywhere it appears.
func ValidPhone(s string) bool {
	if s == "" {
		return true
	}
	return CompiledPatterns.Phone.MatchString(s)
}

// ValidEmail reports whether s is a plausible email address. Empty is allowed.
func ValidEmail(s string) bool {
	if s == "" {
		return true
	}
	return CompiledPatterns.Email.MatchString(s)
}

// ValidName reports whether a person or class name length is in bounds.
func ValidName(s string) bool {
	return len(s) >= NameMinLength && len(s) <= NameMaxLength
}
