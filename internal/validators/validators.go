// Package validators implements the field validation rules for account
// and contact input: restricted username charset, null byte rejection,
// and basic email shape.
package validators

import (
	"regexp"
	"strings"
)

// FieldError is one validation failure on a field. A field may collect
// several of these, each with its own machine-readable code.
type FieldError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// FieldErrors aggregates failures per field name.
type FieldErrors map[string][]FieldError

// Empty reports whether no failures were recorded.
func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Add appends a failure to a field.
func (f FieldErrors) Add(field, message, code string) {
	f[field] = append(f[field], FieldError{Message: message, Code: code})
}

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9@.+\-_]+$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Username validates a username, appending failures to errs. The charset
// is restricted to letters, digits and @/./+/-/_; null bytes are rejected
// with their own code in addition to the charset failure.
func Username(username string, errs FieldErrors) {
	if username == "" {
		errs.Add("username", "This field may not be blank.", "blank")
		return
	}
	if len(username) > 150 {
		errs.Add("username", "Ensure this field has no more than 150 characters.", "max_length")
	}
	if !usernamePattern.MatchString(username) {
		errs.Add("username",
			"Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.",
			"invalid")
	}
	if strings.ContainsRune(username, '\x00') {
		errs.Add("username", "Null characters are not allowed.", "null_characters_not_allowed")
	}
}

// Password validates a password, appending failures to errs.
func Password(password string, errs FieldErrors) {
	if password == "" {
		errs.Add("password", "This field may not be blank.", "blank")
		return
	}
	if len(password) < 8 {
		errs.Add("password",
			"This password is too short. It must contain at least 8 characters.",
			"password_too_short")
	}
	if strings.ContainsRune(password, '\x00') {
		errs.Add("password", "Null characters are not allowed.", "null_characters_not_allowed")
	}
}

// Email validates an email address, appending failures to errs under the
// given field name.
func Email(field, email string, errs FieldErrors) {
	if email == "" {
		errs.Add(field, "This field may not be blank.", "blank")
		return
	}
	if strings.ContainsRune(email, '\x00') {
		errs.Add(field, "Null characters are not allowed.", "null_characters_not_allowed")
		return
	}
	if !emailPattern.MatchString(email) {
		errs.Add(field, "Enter a valid email address.", "invalid")
	}
}

var zipcodePattern = regexp.MustCompile(`^([0-9]{5})(([-])?[0-9]{0,4})?$`)

// Zipcode validates a US zipcode in XXXXX or XXXXX-XXXX form. Blank is
// allowed; addresses are optional throughout.
func Zipcode(zipcode string, errs FieldErrors) {
	if zipcode == "" {
		return
	}
	if !zipcodePattern.MatchString(zipcode) {
		errs.Add("zipcode", "Invalid zipcode. Format should be XXXXX or XXXXX-XXXX", "invalid-zipcode")
	}
}

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// Phone validates a 10 digit phone number under the given field name.
// Blank is allowed.
func Phone(field, phone string, errs FieldErrors) {
	if phone == "" {
		return
	}
	if !phonePattern.MatchString(phone) {
		errs.Add(field, "Invalid phone number. Should be 10 digits", "invalid-phone")
	}
}
