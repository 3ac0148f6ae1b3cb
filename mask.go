package egress

import (
	"strings"
	"unicode"
)

// MaskType names a content-aware masking rule for egress.mask tags.
type MaskType string

const (
	MaskEmail MaskType = "email" // alice@example.com -> a***@example.com
	MaskCard  MaskType = "card"  // 4111111111111111 -> ************1111
	MaskPhone MaskType = "phone" // (555) 123-4567 -> ***-***-4567
	MaskSSN   MaskType = "ssn"   // 123-45-6789 -> ***-**-6789
	MaskName  MaskType = "name"  // John Smith -> J*** S****
)

// Masker obscures a string value while keeping it recognizable.
type Masker interface {
	Mask(value string) string
}

// MaskerFunc adapts a function to Masker.
type MaskerFunc func(string) string

// Mask calls f.
func (f MaskerFunc) Mask(value string) string {
	return f(value)
}

var validMaskTypes = map[MaskType]bool{
	MaskEmail: true,
	MaskCard:  true,
	MaskPhone: true,
	MaskSSN:   true,
	MaskName:  true,
}

// IsValidMaskType returns true if mt is a known mask type.
func IsValidMaskType(mt MaskType) bool {
	return validMaskTypes[mt]
}

// builtinMaskers returns a fresh map of the builtin maskers.
func builtinMaskers() map[MaskType]Masker {
	return map[MaskType]Masker{
		MaskEmail: MaskerFunc(maskEmail),
		MaskCard:  MaskerFunc(maskCard),
		MaskPhone: MaskerFunc(maskPhone),
		MaskSSN:   MaskerFunc(maskSSN),
		MaskName:  MaskerFunc(maskName),
	}
}

func maskEmail(value string) string {
	at := strings.LastIndex(value, "@")
	if at < 1 {
		return strings.Repeat("*", len(value))
	}
	first := []rune(value[:at])[0]
	return string(first) + "***" + value[at:]
}

func maskCard(value string) string {
	digits := extractDigits(value)
	if len(digits) < 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

func maskPhone(value string) string {
	digits := extractDigits(value)
	if len(digits) < 4 {
		return strings.Repeat("*", len(value))
	}
	last4 := digits[len(digits)-4:]
	if len(digits) >= 10 {
		return "***-***-" + last4
	}
	return "***-" + last4
}

func maskSSN(value string) string {
	digits := extractDigits(value)
	if len(digits) < 4 {
		return strings.Repeat("*", len(value))
	}
	return "***-**-" + digits[len(digits)-4:]
}

func maskName(value string) string {
	words := strings.Fields(value)
	for i, w := range words {
		r := []rune(w)
		words[i] = string(r[0]) + strings.Repeat("*", len(r)-1)
	}
	return strings.Join(words, " ")
}

func extractDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
