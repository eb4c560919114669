package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRequestIDUnique(t *testing.T) {
	a := GenerateRequestID()
	b := GenerateRequestID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "500ms", FormatDuration(500*time.Millisecond))
	assert.Equal(t, "2.50s", FormatDuration(2500*time.Millisecond))
	assert.Equal(t, "1.5m", FormatDuration(90*time.Second))
	assert.Equal(t, "2.0h", FormatDuration(2*time.Hour))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Applicant-First-Name", "first-name"))
	assert.True(t, ContainsFold("EMAIL", "email"))
	assert.False(t, ContainsFold("surname", "first"))
	assert.False(t, ContainsFold("", "x"))
	assert.True(t, ContainsFold("anything", ""))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.False(t, Contains([]string{"a", "b"}, "c"))
	assert.False(t, Contains(nil, "a"))
}

func TestGetStringOrDefault(t *testing.T) {
	assert.Equal(t, "fallback", GetStringOrDefault("", "fallback"))
	assert.Equal(t, "value", GetStringOrDefault("value", "fallback"))
}
