package engine

import (
	"strings"

	"github.com/go-rod/rod"

	"applyflow/internal/automation/fields"
	"applyflow/pkg/models"
	"applyflow/pkg/utils"
)

// ControlKind classifies a form control by how it must be filled.
type ControlKind string

const (
	KindText     ControlKind = "text"
	KindTextarea ControlKind = "textarea"
	KindChoice   ControlKind = "choice"
	KindFile     ControlKind = "file"
)

// ElementAttrs is a snapshot of the attributes discovery matches against.
// Reading them once up front keeps matching pure and avoids repeated
// round-trips to the page.
type ElementAttrs struct {
	Tag         string
	Name        string
	ID          string
	Placeholder string
	AriaLabel   string
	InputType   string
	DataField   string
	ReadOnly    bool
	Disabled    bool
}

// FieldCandidate is a live page element paired with its attribute snapshot.
type FieldCandidate struct {
	Kind  ControlKind
	Attrs ElementAttrs
	el    *rod.Element
}

// collectControls enumerates every visible form control on the page and
// snapshots the attributes discovery needs. Invisible controls and
// non-fillable input subtypes (hidden, submit, button) are excluded.
func collectControls(page *rod.Page) ([]*FieldCandidate, error) {
	els, err := page.Elements("input, textarea, select")
	if err != nil {
		return nil, err
	}

	candidates := make([]*FieldCandidate, 0, len(els))
	for _, el := range els {
		visible, err := el.Visible()
		if err != nil || !visible {
			continue
		}

		attrs := readAttrs(el)
		kind := classifyControl(attrs)
		if kind == "" {
			continue
		}

		candidates = append(candidates, &FieldCandidate{
			Kind:  kind,
			Attrs: attrs,
			el:    el,
		})
	}

	return candidates, nil
}

func readAttrs(el *rod.Element) ElementAttrs {
	attrs := ElementAttrs{
		Name:        attrValue(el, "name"),
		ID:          attrValue(el, "id"),
		Placeholder: attrValue(el, "placeholder"),
		AriaLabel:   attrValue(el, "aria-label"),
		InputType:   attrValue(el, "type"),
		DataField:   attrValue(el, "data-field"),
	}

	if readonly, err := el.Attribute("readonly"); err == nil && readonly != nil {
		attrs.ReadOnly = true
	}
	if disabled, err := el.Attribute("disabled"); err == nil && disabled != nil {
		attrs.Disabled = true
	}

	err := rod.Try(func() {
		attrs.Tag = el.MustEval(`() => this.tagName.toLowerCase()`).String()
	})
	if err != nil {
		attrs.Tag = "input"
	}

	return attrs
}

func attrValue(el *rod.Element, name string) string {
	value, err := el.Attribute(name)
	if err != nil || value == nil {
		return ""
	}
	return *value
}

// classifyControl maps a tag and input subtype to a ControlKind. Returns
// the empty string for controls that can never receive a text value.
func classifyControl(attrs ElementAttrs) ControlKind {
	switch attrs.Tag {
	case "textarea":
		return KindTextarea
	case "select":
		return KindChoice
	case "input":
		switch strings.ToLower(attrs.InputType) {
		case "hidden", "submit", "button", "image", "reset":
			return ""
		case "file":
			return KindFile
		default:
			return KindText
		}
	}
	return ""
}

// discoverField finds the best candidate for a canonical field type.
// Matching runs in three tiers of decreasing confidence: exact match on
// name or id, case-insensitive substring over name, id, placeholder and
// aria-label, then the data-field attribute. Within a tier, synonym order
// decides priority. Non-fillable matches are skipped so the search can
// continue past locked controls.
func discoverField(controls []*FieldCandidate, t fields.Type) *FieldCandidate {
	matchers := []func(ElementAttrs, string) bool{
		matchesExact,
		matchesSubstring,
		matchesDataField,
	}

	for _, matches := range matchers {
		for _, pattern := range fields.Synonyms(t) {
			for _, c := range controls {
				if c.Kind == KindFile {
					continue
				}
				if !matches(c.Attrs, pattern) {
					continue
				}
				if !isFillable(c.Attrs) {
					continue
				}
				return c
			}
		}
	}

	return nil
}

func matchesExact(attrs ElementAttrs, pattern string) bool {
	return strings.EqualFold(attrs.Name, pattern) || strings.EqualFold(attrs.ID, pattern)
}

func matchesSubstring(attrs ElementAttrs, pattern string) bool {
	return utils.ContainsFold(attrs.Name, pattern) ||
		utils.ContainsFold(attrs.ID, pattern) ||
		utils.ContainsFold(attrs.Placeholder, pattern) ||
		utils.ContainsFold(attrs.AriaLabel, pattern)
}

func matchesDataField(attrs ElementAttrs, pattern string) bool {
	return utils.ContainsFold(attrs.DataField, pattern)
}

// isFillable reports whether a control will accept a value right now.
func isFillable(attrs ElementAttrs) bool {
	return !attrs.ReadOnly && !attrs.Disabled
}

// enumerateFields converts candidates into the diagnostic element list
// returned by the preview operation.
func enumerateFields(controls []*FieldCandidate) []models.FormElement {
	elements := make([]models.FormElement, 0, len(controls))
	for _, c := range controls {
		elements = append(elements, models.FormElement{
			Tag:         c.Attrs.Tag,
			Type:        c.Attrs.InputType,
			Name:        c.Attrs.Name,
			ID:          c.Attrs.ID,
			Placeholder: c.Attrs.Placeholder,
			AriaLabel:   c.Attrs.AriaLabel,
			ReadOnly:    c.Attrs.ReadOnly,
			Disabled:    c.Attrs.Disabled,
		})
	}
	return elements
}
