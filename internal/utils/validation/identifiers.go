// Package validation checks identifier formats at the service boundary.
// Identifiers are validated by format only, never against a live registry.
package validation

import (
	"fmt"
	"strings"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
)

// gstinAlphabet is the base-36 alphabet used for the GSTIN check digit.
const gstinAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ValidateGSTIN checks the 15-character GSTIN format: 2-digit state code,
// 10-character PAN body, entity digit, default 'Z', and a mod-36 checksum
// character computed over the first 14 characters.
func ValidateGSTIN(gstin string) error {
	gstin = strings.ToUpper(strings.TrimSpace(gstin))
	if len(gstin) != 15 {
		return fmt.Errorf("%w: GSTIN must be 15 characters, got %d", apperrors.ErrValidation, len(gstin))
	}
	if !isDigit(gstin[0]) || !isDigit(gstin[1]) {
		return fmt.Errorf("%w: GSTIN must start with a 2-digit state code", apperrors.ErrValidation)
	}
	for i := 0; i < 15; i++ {
		if !isAlnum(gstin[i]) {
			return fmt.Errorf("%w: GSTIN contains invalid character %q", apperrors.ErrValidation, gstin[i])
		}
	}
	if check := gstinCheckDigit(gstin[:14]); gstin[14] != check {
		return fmt.Errorf("%w: GSTIN checksum mismatch, expected %c", apperrors.ErrValidation, check)
	}
	return nil
}

// gstinCheckDigit computes the mod-36 Luhn-style check character over the
// first 14 characters of a GSTIN.
func gstinCheckDigit(body string) byte {
	sum := 0
	for i := 0; i < len(body); i++ {
		value := strings.IndexByte(gstinAlphabet, body[i])
		factor := 1
		if i%2 == 1 {
			factor = 2
		}
		product := value * factor
		sum += product/36 + product%36
	}
	return gstinAlphabet[(36-sum%36)%36]
}

// GSTINStateCode extracts the 2-digit state code from a GSTIN without
// validating the rest of the identifier.
func GSTINStateCode(gstin string) (string, error) {
	if len(gstin) < 2 || !isDigit(gstin[0]) || !isDigit(gstin[1]) {
		return "", fmt.Errorf("%w: GSTIN missing state code prefix", apperrors.ErrValidation)
	}
	return gstin[:2], nil
}

// ValidateHSN checks a goods classification code: 4, 6 or 8 digits.
func ValidateHSN(code string) error {
	switch len(code) {
	case 4, 6, 8:
	default:
		return fmt.Errorf("%w: HSN code must be 4, 6 or 8 digits, got %d", apperrors.ErrValidation, len(code))
	}
	return allDigits(code)
}

// ValidateSAC checks a services classification code: exactly 6 digits.
func ValidateSAC(code string) error {
	if len(code) != 6 {
		return fmt.Errorf("%w: SAC code must be 6 digits, got %d", apperrors.ErrValidation, len(code))
	}
	return allDigits(code)
}

// ValidateClassificationCode accepts either a valid HSN or a valid SAC.
// A 6-digit code satisfies both formats, so it always passes when numeric.
func ValidateClassificationCode(code string) error {
	if ValidateHSN(code) == nil || ValidateSAC(code) == nil {
		return nil
	}
	return fmt.Errorf("%w: %q is neither a valid HSN nor SAC code", apperrors.ErrValidation, code)
}

func allDigits(s string) error {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return fmt.Errorf("%w: classification code must be numeric, got %q", apperrors.ErrValidation, s)
		}
	}
	return nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'A' && c <= 'Z')
}
