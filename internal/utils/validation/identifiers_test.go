package validation_test

import (
	"testing"

	"github.com/bahikhata/bahikhata_backend/internal/utils/validation"
	"github.com/stretchr/testify/assert"
)

func TestValidateGSTIN(t *testing.T) {
	tests := []struct {
		name    string
		gstin   string
		wantErr bool
	}{
		// 27AAPFU0939F1ZV is the standard published example GSTIN.
		{"valid maharashtra gstin", "27AAPFU0939F1ZV", false},
		{"lowercase accepted", "27aapfu0939f1zv", false},
		{"too short", "27AAPFU0939F1Z", true},
		{"too long", "27AAPFU0939F1ZVX", true},
		{"non-digit state code", "AAAPFU0939F1ZVX", true},
		{"bad checksum", "27AAPFU0939F1ZA", true},
		{"invalid character", "27AAPFU0939F1Z!", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.ValidateGSTIN(tt.gstin)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGSTINStateCode(t *testing.T) {
	code, err := validation.GSTINStateCode("27AAPFU0939F1ZV")
	assert.NoError(t, err)
	assert.Equal(t, "27", code)

	_, err = validation.GSTINStateCode("X")
	assert.Error(t, err)
}

func TestValidateHSN(t *testing.T) {
	assert.NoError(t, validation.ValidateHSN("1005"))
	assert.NoError(t, validation.ValidateHSN("100590"))
	assert.NoError(t, validation.ValidateHSN("10059000"))
	assert.Error(t, validation.ValidateHSN("100"))
	assert.Error(t, validation.ValidateHSN("10059"))
	assert.Error(t, validation.ValidateHSN("10A5"))
}

func TestValidateSAC(t *testing.T) {
	assert.NoError(t, validation.ValidateSAC("998314"))
	assert.Error(t, validation.ValidateSAC("9983"))
	assert.Error(t, validation.ValidateSAC("99831400"))
}

func TestValidateClassificationCode(t *testing.T) {
	assert.NoError(t, validation.ValidateClassificationCode("1005"))
	assert.NoError(t, validation.ValidateClassificationCode("998314"))
	assert.NoError(t, validation.ValidateClassificationCode("10059000"))
	assert.Error(t, validation.ValidateClassificationCode("12345"))
	assert.Error(t, validation.ValidateClassificationCode("abcd"))
}
