package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("user@example.com"))
	assert.True(t, IsValidEmail("first.last@sub.domain.org"))
	assert.False(t, IsValidEmail(""))
	assert.False(t, IsValidEmail("no-at-sign"))
	assert.False(t, IsValidEmail("spaces in@example.com"))
	assert.False(t, IsValidEmail("user@nodot"))
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("alice_99"))
	assert.True(t, IsValidUsername("a.b.c"))
	assert.False(t, IsValidUsername("ab"))
	assert.False(t, IsValidUsername("has spaces"))
	assert.False(t, IsValidUsername("way-too-long-username-way-too-long-username"))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("Str0ng!pass"))
	assert.False(t, IsValidPassword("short1!"))
	assert.False(t, IsValidPassword("NoDigits!here"))
	assert.False(t, IsValidPassword("nospecials123"))
}

func TestIsValidName(t *testing.T) {
	assert.True(t, IsValidName("Mary-Jane O'Neil"))
	assert.False(t, IsValidName(""))
	assert.False(t, IsValidName("Robert); DROP TABLE"))
}
