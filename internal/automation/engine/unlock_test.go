package engine

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lockedFormFixture = `
<form>
	<input type="text" name="first_name">
	<input type="text" name="email" readonly>
	<input type="text" name="phone" disabled>
	<textarea name="cover_letter" readonly></textarea>
	<select name="country" disabled><option>US</option></select>
	<input type="file" name="resume">
</form>`

func TestLockedControlSelectorMatchesOnlyLockedTextControls(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(lockedFormFixture))
	require.NoError(t, err)

	locked := doc.Find(lockedControlSelector)
	require.Equal(t, 3, locked.Length())

	// Editable inputs, selects, and file inputs stay out of scope
	names := locked.Map(func(_ int, s *goquery.Selection) string {
		name, _ := s.Attr("name")
		return name
	})
	assert.ElementsMatch(t, []string{"email", "phone", "cover_letter"}, names)
}

func TestUnlockSecondPassFindsNothing(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(lockedFormFixture))
	require.NoError(t, err)

	locked := doc.Find(lockedControlSelector)
	require.NotZero(t, locked.Length())
	locked.RemoveAttr("readonly")
	locked.RemoveAttr("disabled")

	// Unlocked controls no longer match, so a repeat pass is a no-op
	assert.Zero(t, doc.Find(lockedControlSelector).Length())
}
