package survey

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Contact is what the respondent leaves so a consultant can call back.
type Contact struct {
	Name  string `json:"name" bson:"name" db:"name"`
	Phone string `json:"phone" bson:"phone" db:"phone"`
	City  string `json:"city" bson:"city" db:"city"`
}

// ContactError names the first contact field that failed validation.
type ContactError struct {
	Field   string
	Message string
}

func (e *ContactError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

const (
	minPhoneDigits = 10
	maxPhoneDigits = 13
)

// letters of any script, apostrophes (ASCII, typographic, Ukrainian modifier), hyphen, space
var personNamePattern = regexp.MustCompile(`^[\p{L}'’ʼ\- ]{2,}$`)

// Normalized trims every field and strips digits from the city.
func (c Contact) Normalized() Contact {
	return Contact{
		Name:  strings.TrimSpace(c.Name),
		Phone: strings.TrimSpace(c.Phone),
		City:  strings.TrimSpace(SanitizeCity(c.City)),
	}
}

// SanitizeCity drops digits as the user types them.
func SanitizeCity(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, s)
}

// PhoneDigits counts the digits in a phone number, ignoring separators.
func PhoneDigits(phone string) int {
	n := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// ValidName reports whether s is letters, apostrophes, hyphens and spaces, two or more runes.
func ValidName(s string) bool {
	return personNamePattern.MatchString(strings.TrimSpace(s))
}

// ValidPhone reports whether phone carries 10 to 13 digits.
func ValidPhone(phone string) bool {
	n := PhoneDigits(phone)
	return n >= minPhoneDigits && n <= maxPhoneDigits
}

// ValidateContact checks name, phone and city in that order and reports the first failure.
func ValidateContact(c Contact) error {
	if !ValidName(c.Name) {
		return &ContactError{Field: "name", Message: "Вкажіть коректне ім'я (лише літери, мінімум 2 символи)"}
	}
	if !ValidPhone(c.Phone) {
		return &ContactError{Field: "phone", Message: "Вкажіть коректний номер телефону (10-13 цифр)"}
	}
	if !ValidName(c.City) {
		return &ContactError{Field: "city", Message: "Вкажіть коректну назву міста"}
	}
	return nil
}
