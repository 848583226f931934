package security

import (
	"testing"

	"github.com/AlexZinkM/evm-wallet/internal/errs"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{"all five classes", "Correct-Horse9", true},
		{"long upper lower digit", "CorrectHorse9", true},
		{"short but four classes", "aB3!", true},
		{"long lower digit special", "correct-horse9", true},
		{"long upper lower only", "CorrectHorse", false},
		{"digits only", "1234567890", false},
		{"empty", "", false},
		{"spaces are not special", "correct horse 9", false},
		{"unicode letters", "Пароль-пароль", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword([]byte(tt.password))
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, errs.ErrValidation)
		})
	}
}

func TestValidatePassword_NamesMissingClasses(t *testing.T) {
	err := ValidatePassword([]byte("abcdefgh"))
	assert.ErrorContains(t, err, "an uppercase letter")
	assert.ErrorContains(t, err, "a digit")
	assert.ErrorContains(t, err, "a special character")
	assert.NotContains(t, err.Error(), "at least 8 characters")
}
