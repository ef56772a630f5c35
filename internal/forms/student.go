// Package forms validates raw student form input before it reaches storage.
package forms

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrMissingField = errors.New("all fields are required")
	ErrNotANumber   = errors.New("age must be a number")
	ErrOutOfRange   = errors.New("age must be between 1 and 150")
	ErrConversion   = errors.New("failed to convert age")
)

var digitsRegex = regexp.MustCompile(`^[0-9]+$`)

const (
	MinAge = 1
	MaxAge = 150
)

// ParseStudentForm checks the three student fields in order, stopping at
// the first failing rule: presence after trimming, digits-only age, age
// range. Returns the trimmed name and grade and the parsed age.
func ParseStudentForm(name, ageRaw, grade string) (string, int, string, error) {
	name = strings.TrimSpace(name)
	ageRaw = strings.TrimSpace(ageRaw)
	grade = strings.TrimSpace(grade)

	if name == "" || ageRaw == "" || grade == "" {
		return "", 0, "", ErrMissingField
	}

	if !digitsRegex.MatchString(ageRaw) {
		return "", 0, "", ErrNotANumber
	}

	age, err := strconv.Atoi(ageRaw)
	if err != nil {
		return "", 0, "", ErrConversion
	}

	if age < MinAge || age > MaxAge {
		return "", 0, "", ErrOutOfRange
	}

	return name, age, grade, nil
}
