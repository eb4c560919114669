package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"applyflow/internal/logging"
)

func TestRunFillChainFirstSuccessStops(t *testing.T) {
	var attempts []string
	techniques := []fillTechnique{
		{name: "a", apply: func(c *FieldCandidate, v string) error {
			attempts = append(attempts, "a")
			return errors.New("nope")
		}},
		{name: "b", apply: func(c *FieldCandidate, v string) error {
			attempts = append(attempts, "b")
			return nil
		}},
		{name: "c", apply: func(c *FieldCandidate, v string) error {
			attempts = append(attempts, "c")
			return nil
		}},
	}

	c := candidate(KindText, ElementAttrs{Tag: "input", Name: "email"})
	ok := runFillChain(techniques, c, "user@example.com", logging.GetGlobalLogger())

	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, attempts)
}

func TestRunFillChainAllFail(t *testing.T) {
	var attempts int
	techniques := []fillTechnique{
		{name: "a", apply: func(c *FieldCandidate, v string) error {
			attempts++
			return errors.New("refused")
		}},
		{name: "b", apply: func(c *FieldCandidate, v string) error {
			attempts++
			return errors.New("refused again")
		}},
	}

	c := candidate(KindText, ElementAttrs{Tag: "input", Name: "email"})
	ok := runFillChain(techniques, c, "user@example.com", logging.GetGlobalLogger())

	assert.False(t, ok)
	assert.Equal(t, 2, attempts)
}

func TestRunFillChainPassesValueAndCandidate(t *testing.T) {
	c := candidate(KindChoice, ElementAttrs{Tag: "select", Name: "country"})

	var gotValue string
	var gotKind ControlKind
	techniques := []fillTechnique{
		{name: "capture", apply: func(c *FieldCandidate, v string) error {
			gotValue = v
			gotKind = c.Kind
			return nil
		}},
	}

	assert.True(t, runFillChain(techniques, c, "United States", logging.GetGlobalLogger()))
	assert.Equal(t, "United States", gotValue)
	assert.Equal(t, KindChoice, gotKind)
}

func TestDefaultTechniquesOrder(t *testing.T) {
	techniques := defaultTechniques(0)

	names := make([]string, 0, len(techniques))
	for _, tech := range techniques {
		names = append(names, tech.name)
	}

	// Keystroke simulation runs before the scripted fallback
	assert.Equal(t, []string{"keystroke", "focus_keystroke", "scripted_value"}, names)
}
