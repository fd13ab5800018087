package account

import (
	"unicode"
	"unicode/utf16"

	"github.com/KirkDiggler/aura/internal/models"
)

// StrengthLabel describes a password strength score
type StrengthLabel string

const (
	StrengthWeak   StrengthLabel = "Weak"
	StrengthFair   StrengthLabel = "Fair"
	StrengthGood   StrengthLabel = "Good"
	StrengthStrong StrengthLabel = "Strong"
)

// Strength is a password score out of 100
type Strength struct {
	Score int
	Label StrengthLabel
}

// PasswordStrength awards 25 points each for length, mixed case, a digit
// and a symbol. Length is counted in UTF-16 code units, as browsers count
// it, so a character outside the BMP such as an emoji counts twice. An
// empty password scores 0 with no label.
func PasswordStrength(password string) Strength {
	if password == "" {
		return Strength{}
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}

	score := 0
	if len(utf16.Encode([]rune(password))) >= 8 {
		score += 25
	}
	if lower && upper {
		score += 25
	}
	if digit {
		score += 25
	}
	if symbol {
		score += 25
	}

	return Strength{Score: score, Label: labelFor(score)}
}

func labelFor(score int) StrengthLabel {
	switch {
	case score < 50:
		return StrengthWeak
	case score < 75:
		return StrengthFair
	case score < 100:
		return StrengthGood
	default:
		return StrengthStrong
	}
}

// ValidatePasswordMatch reports a mismatch only once confirm has been typed
func ValidatePasswordMatch(password, confirm string) bool {
	return confirm == "" || password == confirm
}

// UserFieldsVisible reports whether the contact fields apply to role
func UserFieldsVisible(role models.Role) bool {
	return role == models.RoleUser
}

func isBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
