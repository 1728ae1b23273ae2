// Package contact classifies and normalizes the unique contact handle a user
// registers with: an email address or a phone number. Handles are stored in
// normalized form so lookups and the uniqueness constraint are not defeated
// by formatting differences.
package contact

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var ErrInvalid = errors.New("contact must be a valid email address or phone number")

// defaultRegion is used to parse phone numbers given without a country code.
const defaultRegion = "US"

// IsEmail reports whether the handle looks like an email address rather than
// a phone number.
func IsEmail(handle string) bool {
	return strings.Contains(handle, "@")
}

// Normalize returns the canonical form of a contact handle: emails are
// trimmed and lowercased, phone numbers are formatted as E.164.
func Normalize(handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return "", ErrInvalid
	}

	if IsEmail(handle) {
		addr, err := mail.ParseAddress(handle)
		if err != nil || addr.Name != "" {
			return "", fmt.Errorf("%w: %q", ErrInvalid, handle)
		}
		return strings.ToLower(addr.Address), nil
	}

	num, err := phonenumbers.Parse(handle, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("%w: %q", ErrInvalid, handle)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
