package models

import "time"

// JobApplication is the job record handed over by the application-processing
// pipeline: one target page plus the prepared applicant material.
type JobApplication struct {
	JobID       string `json:"job_id" validate:"required"`
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	URL         string `json:"url" validate:"required,url"`
	CoverLetter string `json:"cover_letter,omitempty"`
}

// AutomationOptions configures a single automation session
type AutomationOptions struct {
	Headless    bool `json:"headless"`
	KeepOpen    bool `json:"keep_open"`
	HoldSeconds int  `json:"hold_seconds,omitempty"`
}

// FieldError records a non-fatal per-field failure during a fill session
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AutomationResult is the outcome of one fill session. Success reports
// whether the session itself completed; an empty FilledFields list with
// Success true means the page loaded but nothing could be auto-filled.
type AutomationResult struct {
	Success            bool          `json:"success"`
	URL                string        `json:"url"`
	FilledFields       []string      `json:"filled_fields"`
	Errors             []FieldError  `json:"errors"`
	TotalVisibleFields int           `json:"total_visible_fields"`
	Error              string        `json:"error,omitempty"`
	ProcessingTime     time.Duration `json:"processing_time"`
}

// FormElement describes one visible interactive control found on a page,
// with its raw attributes. Used for field previews and debugging only.
type FormElement struct {
	Tag         string `json:"tag"`
	Name        string `json:"name,omitempty"`
	ID          string `json:"id,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Type        string `json:"type,omitempty"`
	AriaLabel   string `json:"aria_label,omitempty"`
	ReadOnly    bool   `json:"readonly,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
}

// FormSummary is a static breakdown of the page's form structure, parsed
// from the raw HTML rather than the live DOM.
type FormSummary struct {
	Forms      int `json:"forms"`
	Inputs     int `json:"inputs"`
	Textareas  int `json:"textareas"`
	Selects    int `json:"selects"`
	FileInputs int `json:"file_inputs"`
}

// PreviewResult is the outcome of a field-preview session
type PreviewResult struct {
	Success        bool          `json:"success"`
	URL            string        `json:"url"`
	Elements       []FormElement `json:"elements"`
	Summary        FormSummary   `json:"summary"`
	Error          string        `json:"error,omitempty"`
	ProcessingTime time.Duration `json:"processing_time"`
}

// BatchResult aggregates the outcome of a sequential batch run
type BatchResult struct {
	TotalJobs          int                 `json:"total_jobs"`
	Processed          int                 `json:"processed"`
	AutomationAttempts int                 `json:"automation_attempts"`
	AutomationSuccess  int                 `json:"automation_success"`
	Results            []*AutomationResult `json:"results"`
	Errors             []string            `json:"errors"`
	StartTime          time.Time           `json:"start_time"`
	EndTime            time.Time           `json:"end_time"`
}
