package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	assert.True(t, Valid(Admin))
	assert.True(t, Valid(Patient))
	assert.False(t, Valid("nurse"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "doctor", Normalize("  Doctor "))
}

func TestAllows(t *testing.T) {
	assert.True(t, Allows(Doctor))
	assert.True(t, Allows(Doctor, Admin, Doctor))
	assert.False(t, Allows(Patient, Admin, Doctor))
}
