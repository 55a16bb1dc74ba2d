// Package validator holds the pure field predicates for events and
// attendees. Every function is total: any input, including zero values
// and nil, yields a plain boolean.
package validator

import (
	"regexp"

	"eventregistry/internal/model"
)

var (
	// Single @, no whitespace either side, dotted domain suffix of 2+ chars.
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)
	// Exactly 10 digits, leading zero, no separators or country code.
	phoneRe = regexp.MustCompile(`^0\d{9}$`)
)

// IsNameValid reports whether name is non-empty and at most 20 characters.
func IsNameValid(name string) bool {
	return name != "" && len(name) <= 20
}

// IsGenderValid accepts only the exact values MALE and FEMALE.
func IsGenderValid(gender string) bool {
	return gender == model.GenderMale || gender == model.GenderFemale
}

// IsEmailValid reports whether email looks like local@domain.tld.
func IsEmailValid(email string) bool {
	return email != "" && emailRe.MatchString(email)
}

// IsPhoneValid reports whether phone is a bare 10-digit number starting with 0.
func IsPhoneValid(phone string) bool {
	return phone != "" && phoneRe.MatchString(phone)
}

// IsAttendeeValid reports whether every attendee field passes its check.
func IsAttendeeValid(a *model.AttendeeData) bool {
	if a == nil {
		return false
	}
	return IsNameValid(a.Name) &&
		IsGenderValid(a.Gender) &&
		IsEmailValid(a.Email) &&
		IsPhoneValid(a.Phone)
}
