package engine

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"

	"applyflow/internal/logging/types"
)

// fillTechnique is one way of putting a value into a control. Techniques
// run in order until one succeeds; a technique signals failure by
// returning an error and must leave the element usable for the next one.
type fillTechnique struct {
	name  string
	apply func(c *FieldCandidate, value string) error
}

// defaultTechniques builds the standard technique chain. Simulated
// keystrokes come first because they trigger the same event stream a human
// does; the scripted fallback only fires synthetic input/change events and
// is kept last for frameworks that swallow direct value writes.
func defaultTechniques(settle time.Duration) []fillTechnique {
	return []fillTechnique{
		{
			name: "keystroke",
			apply: func(c *FieldCandidate, value string) error {
				return typeValue(c, value, settle)
			},
		},
		{
			name: "focus_keystroke",
			apply: func(c *FieldCandidate, value string) error {
				err := rod.Try(func() {
					c.el.MustClick()
				})
				if err != nil {
					return fmt.Errorf("focus click failed: %w", err)
				}
				time.Sleep(200 * time.Millisecond)
				return typeValue(c, value, settle)
			},
		},
		{
			name: "scripted_value",
			apply: func(c *FieldCandidate, value string) error {
				return scriptValue(c, value)
			},
		},
	}
}

// typeValue clears the control and types the value through the input
// event pipeline. Choice lists select by visible option text instead.
func typeValue(c *FieldCandidate, value string, settle time.Duration) error {
	if c.Kind == KindChoice {
		return rod.Try(func() {
			c.el.MustSelect(value)
		})
	}

	err := rod.Try(func() {
		c.el.MustSelectAllText().MustType(input.Backspace)
	})
	if err != nil {
		return fmt.Errorf("failed to clear field: %w", err)
	}

	time.Sleep(settle)

	err = rod.Try(func() {
		c.el.MustInput(value)
	})
	if err != nil {
		return fmt.Errorf("failed to type value: %w", err)
	}
	return nil
}

// scriptValue writes the value directly and fires the events reactive
// frameworks listen for.
func scriptValue(c *FieldCandidate, value string) error {
	return rod.Try(func() {
		c.el.MustEval(`(value) => {
			this.value = value
			this.dispatchEvent(new Event('input', { bubbles: true }))
			this.dispatchEvent(new Event('change', { bubbles: true }))
		}`, value)
	})
}

// runFillChain tries each technique in order and reports whether any
// succeeded. Individual technique failures are logged at debug level and
// never surface as errors; a field no technique can fill is a per-field
// outcome, not a session failure.
func runFillChain(techniques []fillTechnique, c *FieldCandidate, value string, logger types.Logger) bool {
	for _, t := range techniques {
		if err := t.apply(c, value); err != nil {
			logger.Debug("Fill technique failed", map[string]interface{}{
				"technique": t.name,
				"field":     c.Attrs.Name,
				"error":     err.Error(),
			})
			continue
		}
		return true
	}
	return false
}

// resumeUploadPatterns pick out file inputs that look like resume upload
// controls, checked in order of confidence.
var resumeUploadPatterns = []string{
	`input[type="file"][name*="resume" i]`,
	`input[type="file"][name*="cv" i]`,
	`input[type="file"][id*="resume" i]`,
	`input[type="file"][accept*="pdf"]`,
	`input[type="file"][accept*="doc"]`,
	`input[type="file"]`,
}

// uploadResume attaches the resume file to the first workable file input
// on the page.
func uploadResume(page *rod.Page, path string, logger types.Logger) error {
	for _, selector := range resumeUploadPatterns {
		els, err := page.Elements(selector)
		if err != nil {
			continue
		}
		for _, el := range els {
			err := rod.Try(func() {
				el.MustSetFiles(path)
			})
			if err != nil {
				logger.Debug("File input rejected upload", map[string]interface{}{
					"selector": selector,
					"error":    err.Error(),
				})
				continue
			}
			logger.Debug("Resume attached", map[string]interface{}{
				"selector": selector,
				"file":     path,
			})
			return nil
		}
	}
	return fmt.Errorf("no file upload control accepted the resume")
}
