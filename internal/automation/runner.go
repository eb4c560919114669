package automation

import (
	"context"

	"applyflow/internal/automation/engine"
	"applyflow/internal/config"
	"applyflow/internal/logging"
	"applyflow/internal/logging/types"
	"applyflow/pkg/models"
)

// Runner is the single entry point the API and batch layers use to drive
// form automation. Each call runs a fresh, fully isolated browser session.
type Runner struct {
	cfg    *config.Config
	logger types.Logger
}

// NewRunner creates an automation runner
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		cfg:    cfg,
		logger: logging.GetGlobalLogger(),
	}
}

// FillApplication opens the application page and fills every field it can
// resolve from the profile. The result reports per-field outcomes; a page
// that loads but yields zero fills is still a successful session.
func (r *Runner) FillApplication(ctx context.Context, url string, profile *models.ApplicantProfile, opts models.AutomationOptions) *models.AutomationResult {
	if profile.ResumeFile == "" && r.cfg.Automation.ResumeFile != "" {
		clone := *profile
		clone.ResumeFile = r.cfg.Automation.ResumeFile
		profile = &clone
	}
	session := engine.NewSession(r.cfg, opts)
	return session.Fill(ctx, url, profile)
}

// FillJob fills the application page for one job, overlaying the job's
// tailored cover letter onto the base profile when present.
func (r *Runner) FillJob(ctx context.Context, job models.JobApplication, profile *models.ApplicantProfile, opts models.AutomationOptions) *models.AutomationResult {
	effective := profile
	if job.CoverLetter != "" {
		clone := *profile
		clone.CoverLetter = job.CoverLetter
		effective = &clone
	}
	return r.FillApplication(ctx, job.URL, effective, opts)
}

// PreviewFields reports the fillable surface of a page without modifying
// the form.
func (r *Runner) PreviewFields(ctx context.Context, url string, opts models.AutomationOptions) *models.PreviewResult {
	session := engine.NewSession(r.cfg, opts)
	return session.Preview(ctx, url)
}
