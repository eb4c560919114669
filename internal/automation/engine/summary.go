package engine

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"applyflow/pkg/models"
)

// summarizeForms builds a static structural summary from raw page HTML.
// This complements the live-DOM element list: counts include controls the
// visibility gate filtered out, which helps diagnose hidden multi-step
// forms.
func summarizeForms(html string) (models.FormSummary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.FormSummary{}, err
	}

	return models.FormSummary{
		Forms:      doc.Find("form").Length(),
		Inputs:     doc.Find("input").Length(),
		Textareas:  doc.Find("textarea").Length(),
		Selects:    doc.Find("select").Length(),
		FileInputs: doc.Find(`input[type="file"]`).Length(),
	}, nil
}
