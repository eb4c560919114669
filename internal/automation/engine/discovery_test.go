package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applyflow/internal/automation/fields"
)

func candidate(kind ControlKind, attrs ElementAttrs) *FieldCandidate {
	return &FieldCandidate{Kind: kind, Attrs: attrs}
}

func TestClassifyControl(t *testing.T) {
	tests := []struct {
		name     string
		attrs    ElementAttrs
		expected ControlKind
	}{
		{"plain text input", ElementAttrs{Tag: "input", InputType: "text"}, KindText},
		{"email input", ElementAttrs{Tag: "input", InputType: "email"}, KindText},
		{"input without type", ElementAttrs{Tag: "input"}, KindText},
		{"textarea", ElementAttrs{Tag: "textarea"}, KindTextarea},
		{"select", ElementAttrs{Tag: "select"}, KindChoice},
		{"file input", ElementAttrs{Tag: "input", InputType: "file"}, KindFile},
		{"hidden input", ElementAttrs{Tag: "input", InputType: "hidden"}, ControlKind("")},
		{"submit button", ElementAttrs{Tag: "input", InputType: "submit"}, ControlKind("")},
		{"uppercase type", ElementAttrs{Tag: "input", InputType: "HIDDEN"}, ControlKind("")},
		{"unknown tag", ElementAttrs{Tag: "button"}, ControlKind("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyControl(tt.attrs))
		})
	}
}

func TestIsFillable(t *testing.T) {
	assert.True(t, isFillable(ElementAttrs{}))
	assert.False(t, isFillable(ElementAttrs{ReadOnly: true}))
	assert.False(t, isFillable(ElementAttrs{Disabled: true}))
	assert.False(t, isFillable(ElementAttrs{ReadOnly: true, Disabled: true}))
}

func TestMatchesExact(t *testing.T) {
	assert.True(t, matchesExact(ElementAttrs{Name: "first_name"}, "first_name"))
	assert.True(t, matchesExact(ElementAttrs{ID: "first_name"}, "first_name"))
	assert.True(t, matchesExact(ElementAttrs{Name: "First_Name"}, "first_name"))

	// Substrings are not exact matches
	assert.False(t, matchesExact(ElementAttrs{Name: "applicant_first_name"}, "first_name"))
	assert.False(t, matchesExact(ElementAttrs{Placeholder: "first_name"}, "first_name"))
}

func TestMatchesSubstring(t *testing.T) {
	assert.True(t, matchesSubstring(ElementAttrs{Name: "applicant-first-name"}, "first-name"))
	assert.True(t, matchesSubstring(ElementAttrs{ID: "FirstName"}, "firstname"))
	assert.True(t, matchesSubstring(ElementAttrs{Placeholder: "Your First Name"}, "first name"))
	assert.True(t, matchesSubstring(ElementAttrs{AriaLabel: "First name"}, "first name"))
	assert.False(t, matchesSubstring(ElementAttrs{Name: "surname"}, "first"))
}

func TestDiscoverFieldExactBeatsSubstring(t *testing.T) {
	substringOnly := candidate(KindText, ElementAttrs{Tag: "input", Name: "applicant_email_address"})
	exact := candidate(KindText, ElementAttrs{Tag: "input", Name: "email"})

	// Exact tier wins even when the substring match comes first in the list
	found := discoverField([]*FieldCandidate{substringOnly, exact}, fields.Email)
	require.NotNil(t, found)
	assert.Equal(t, "email", found.Attrs.Name)
}

func TestDiscoverFieldSynonymPriority(t *testing.T) {
	// Both controls match a synonym exactly; the earlier synonym wins
	primary := candidate(KindText, ElementAttrs{Tag: "input", Name: "first_name"})
	secondary := candidate(KindText, ElementAttrs{Tag: "input", Name: "fname"})

	found := discoverField([]*FieldCandidate{secondary, primary}, fields.FirstName)
	require.NotNil(t, found)
	assert.Equal(t, "first_name", found.Attrs.Name)
}

func TestDiscoverFieldSkipsLockedControls(t *testing.T) {
	locked := candidate(KindText, ElementAttrs{Tag: "input", Name: "email", ReadOnly: true})
	fallback := candidate(KindText, ElementAttrs{Tag: "input", Name: "contact_email"})

	found := discoverField([]*FieldCandidate{locked, fallback}, fields.Email)
	require.NotNil(t, found)
	assert.Equal(t, "contact_email", found.Attrs.Name)
}

func TestDiscoverFieldSkipsFileInputs(t *testing.T) {
	fileInput := candidate(KindFile, ElementAttrs{Tag: "input", InputType: "file", Name: "email"})

	found := discoverField([]*FieldCandidate{fileInput}, fields.Email)
	assert.Nil(t, found)
}

func TestDiscoverFieldDataAttrTier(t *testing.T) {
	tagged := candidate(KindText, ElementAttrs{Tag: "input", Name: "f_7231", DataField: "email-address"})

	found := discoverField([]*FieldCandidate{tagged}, fields.Email)
	require.NotNil(t, found)
	assert.Equal(t, "f_7231", found.Attrs.Name)
}

func TestDiscoverFieldNoMatch(t *testing.T) {
	unrelated := candidate(KindText, ElementAttrs{Tag: "input", Name: "captcha_answer"})
	assert.Nil(t, discoverField([]*FieldCandidate{unrelated}, fields.LinkedIn))
}

func TestEnumerateFields(t *testing.T) {
	controls := []*FieldCandidate{
		candidate(KindText, ElementAttrs{Tag: "input", InputType: "email", Name: "email", Placeholder: "Email"}),
		candidate(KindTextarea, ElementAttrs{Tag: "textarea", Name: "cover_letter", ReadOnly: true}),
	}

	elements := enumerateFields(controls)
	require.Len(t, elements, 2)
	assert.Equal(t, "input", elements[0].Tag)
	assert.Equal(t, "email", elements[0].Name)
	assert.Equal(t, "Email", elements[0].Placeholder)
	assert.Equal(t, "textarea", elements[1].Tag)
	assert.True(t, elements[1].ReadOnly)
}
