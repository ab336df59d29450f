package cnpj

import (
	"errors"
	"fmt"
	"strings"
)

const Length = 14

var (
	ErrWrongLength       = errors.New("cnpj must have 14 digits")
	ErrRepeatedDigits    = errors.New("cnpj digits are all the same")
	ErrInvalidCheckDigit = errors.New("cnpj check digit mismatch")
)

// ValidationError carries the raw input alongside the reason it was rejected.
// The reason is one of the Err* sentinels, so callers can use errors.Is.
type ValidationError struct {
	Input string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid cnpj %q: %v", e.Input, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Clean strips every non-digit character.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Sanitize cleans the input and truncates it to 14 characters, so oversized
// values never reach the check-digit math.
func Sanitize(s string) string {
	cleaned := Clean(s)
	if len(cleaned) > Length {
		return cleaned[:Length]
	}
	return cleaned
}

// Validate checks the input against the official Receita Federal algorithm and
// returns the cleaned 14 digits on success.
func Validate(input string) (string, error) {
	cleaned := Clean(input)
	if len(cleaned) != Length {
		return "", &ValidationError{Input: input, Err: ErrWrongLength}
	}

	if hasAllSameDigits(cleaned) {
		return "", &ValidationError{Input: input, Err: ErrRepeatedDigits}
	}

	if checkDigit(cleaned[:12]) != int(cleaned[12]-'0') {
		return "", &ValidationError{Input: input, Err: ErrInvalidCheckDigit}
	}

	if checkDigit(cleaned[:13]) != int(cleaned[13]-'0') {
		return "", &ValidationError{Input: input, Err: ErrInvalidCheckDigit}
	}
	return cleaned, nil
}

func IsValid(input string) bool {
	_, err := Validate(input)
	return err == nil
}

// CheckDigits computes both verifying digits for a 12 digit base.
func CheckDigits(base string) (int, int, error) {
	base = Clean(base)
	if len(base) != 12 {
		return 0, 0, fmt.Errorf("cnpj base must have 12 digits, got %d", len(base))
	}

	d1 := checkDigit(base)
	d2 := checkDigit(base + string(rune('0'+d1)))
	return d1, d2, nil
}

// Format renders 14 digits as NN.NNN.NNN/NNNN-NN. Anything else is returned untouched.
func Format(s string) string {
	c := Clean(s)
	if len(c) != Length {
		return s
	}
	return c[0:2] + "." + c[2:5] + "." + c[5:8] + "/" + c[8:12] + "-" + c[12:14]
}

func hasAllSameDigits(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// checkDigit computes the verifying digit for the given digits. Weights start at
// len-7 and decrease, wrapping back to 9 once they would drop below 2, which yields
// the RFB tables 5,4,3,2,9,...,2 (12 digits) and 6,5,4,3,2,9,...,2 (13 digits).
func checkDigit(digits string) int {
	weight := len(digits) - 7
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weight
		weight--
		if weight < 2 {
			weight = 9
		}
	}

	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}
