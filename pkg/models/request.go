package models

// PreviewRequest represents the request payload for previewing form fields
type PreviewRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// FillRequest represents the request payload for filling a single application
type FillRequest struct {
	URL         string             `json:"url" validate:"required,url"`
	Profile     ApplicantProfile   `json:"profile"`
	CoverLetter string             `json:"cover_letter,omitempty"`
	Options     *AutomationOptions `json:"options,omitempty"`
}

// BatchRequest represents the request payload for a sequential batch of
// application fills
type BatchRequest struct {
	Jobs    []JobApplication   `json:"jobs" validate:"required,min=1,dive"`
	Profile ApplicantProfile   `json:"profile"`
	Options *AutomationOptions `json:"options,omitempty"`
}
