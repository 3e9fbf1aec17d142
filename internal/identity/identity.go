// Package identity normalizes attendee identifiers: CPF digits, phone numbers,
// birth dates and raw QR payloads. Display forms double as wire forms for the
// production backend, so the grouping here is a protocol contract, not
// cosmetics.
package identity

import (
	"strings"
	"time"

	dErrors "totem/pkg/domain-errors"
)

// CPFLength is the number of digits in a valid CPF.
const CPFLength = 11

// MinAge is the minimum attendee age accepted at registration.
const MinAge = 18

// StripDigits removes every non-digit rune from s.
func StripDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCPF reports whether s is exactly 11 digits. No check-digit math: the
// backend owns semantic validation, the client only gates length.
func ValidCPF(s string) bool {
	return len(s) == CPFLength && StripDigits(s) == s
}

// DisplayCPF renders a digit string in 000.000.000-00 grouping. Shorter inputs
// get partial grouping by position, mirroring how the entry field fills in.
func DisplayCPF(digits string) string {
	switch {
	case len(digits) >= 11:
		return digits[:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:11]
	case len(digits) >= 9:
		return digits[:3] + "." + digits[3:6] + "." + digits[6:]
	case len(digits) >= 6:
		return digits[:3] + "." + digits[3:]
	default:
		return digits
	}
}

// DisplayPhone renders a digit string in (DD) NNNNN-NNNN grouping, partial for
// shorter inputs.
func DisplayPhone(digits string) string {
	switch {
	case len(digits) >= 11:
		return "(" + digits[:2] + ") " + digits[2:7] + "-" + digits[7:11]
	case len(digits) >= 7:
		return "(" + digits[:2] + ") " + digits[2:]
	case len(digits) >= 2:
		return "(" + digits[:2] + ")" + digits[2:]
	default:
		return digits
	}
}

// DisplayBirthDate auto-punctuates a digit string as DD/MM/YYYY while typing.
func DisplayBirthDate(text string) string {
	digits := StripDigits(text)
	if len(digits) > 8 {
		digits = digits[:8]
	}
	switch {
	case len(digits) > 4:
		return digits[:2] + "/" + digits[2:4] + "/" + digits[4:]
	case len(digits) > 2:
		return digits[:2] + "/" + digits[2:]
	default:
		return digits
	}
}

// BirthDateToISO reorders DD/MM/YYYY into YYYY-MM-DD. Deliberately no calendar
// validation beyond shape; the age gate is the only semantic check applied
// client-side.
func BirthDateToISO(date string) (string, error) {
	parts := strings.Split(date, "/")
	if len(date) != 10 || len(parts) != 3 {
		return "", dErrors.New(dErrors.CodeBadRequest, "birth date must be DD/MM/YYYY")
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0], nil
}

// Age computes completed years at "today" for a DD/MM/YYYY birth date, at
// day/month precision (birthday not yet reached this year counts one less).
func Age(birthDate string, today time.Time) (int, error) {
	t, err := time.Parse("02/01/2006", birthDate)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeBadRequest, "birth date must be DD/MM/YYYY")
	}
	age := today.Year() - t.Year()
	if today.Month() < t.Month() || (today.Month() == t.Month() && today.Day() < t.Day()) {
		age--
	}
	return age, nil
}

// CheckAge enforces the 18+ gate before any registration submission.
func CheckAge(birthDate string, today time.Time) error {
	age, err := Age(birthDate, today)
	if err != nil {
		return err
	}
	if age < MinAge {
		return dErrors.New(dErrors.CodeBadRequest, "attendee must be 18 or older to register")
	}
	return nil
}

// TrimQRPayload normalizes a scanned payload. An empty result means the scan
// is a non-event and must not change workflow state.
func TrimQRPayload(payload string) string {
	return strings.TrimSpace(payload)
}
