package engine

import (
	"context"
	"fmt"
	"time"

	"applyflow/internal/automation/fields"
	"applyflow/internal/automation/resolver"
	"applyflow/internal/config"
	"applyflow/internal/logging"
	"applyflow/internal/logging/types"
	"applyflow/pkg/models"
)

// SessionState tracks where a session is in its lifecycle. Transitions
// only move forward; Failed and Closed are terminal.
type SessionState string

const (
	StateInit        SessionState = "init"
	StateLaunched    SessionState = "launched"
	StateNavigated   SessionState = "navigated"
	StateDiscovering SessionState = "discovering"
	StateFilling     SessionState = "filling"
	StateUnlocked    SessionState = "unlocked"
	StateReviewHold  SessionState = "review_hold"
	StateClosed      SessionState = "closed"
	StateFailed      SessionState = "failed"
)

// Session drives one browser from launch through fill to teardown.
// A Session is single-use; create a fresh one per page.
type Session struct {
	cfg     *config.Config
	opts    models.AutomationOptions
	browser *Browser
	state   SessionState
	logger  types.Logger
}

// NewSession creates a session with merged options. Unset option values
// fall back to configuration defaults.
func NewSession(cfg *config.Config, opts models.AutomationOptions) *Session {
	if opts.HoldSeconds <= 0 {
		opts.HoldSeconds = cfg.Automation.HoldSeconds
	}
	return &Session{
		cfg:    cfg,
		opts:   opts,
		state:  StateInit,
		logger: logging.GetGlobalLogger(),
	}
}

// State returns the current lifecycle state
func (s *Session) State() SessionState {
	return s.state
}

func (s *Session) transition(next SessionState) {
	s.logger.Debug("Session state change", map[string]interface{}{
		"from": string(s.state),
		"to":   string(next),
	})
	s.state = next
}

// Fill runs the full automation pipeline against one page: launch,
// navigate, discover, fill, unlock, optionally hold for review, close.
// Launch and navigation failures are fatal; everything after is recorded
// per field and never aborts the session.
func (s *Session) Fill(ctx context.Context, url string, profile *models.ApplicantProfile) *models.AutomationResult {
	start := time.Now()
	result := &models.AutomationResult{
		URL:          url,
		FilledFields: []string{},
		Errors:       []models.FieldError{},
	}

	if err := s.open(ctx, url); err != nil {
		return s.fail(result, start, err)
	}
	defer s.close()

	s.transition(StateDiscovering)
	controls, err := collectControls(s.browser.Page())
	if err != nil {
		return s.fail(result, start, fmt.Errorf("field discovery failed: %w", err))
	}
	result.TotalVisibleFields = len(controls)

	s.transition(StateFilling)
	s.fillFields(controls, profile, result)

	if path := resolver.ResolveFile(profile); path != "" {
		if err := uploadResume(s.browser.Page(), path, s.logger); err != nil {
			result.Errors = append(result.Errors, models.FieldError{
				Field:   fields.ResumeUpload.String(),
				Message: err.Error(),
			})
		} else {
			result.FilledFields = append(result.FilledFields, fields.ResumeUpload.String())
		}
	}

	unlockFields(s.browser.Page(), s.logger)
	s.transition(StateUnlocked)

	if s.opts.KeepOpen {
		s.transition(StateReviewHold)
		hold := time.Duration(s.opts.HoldSeconds) * time.Second
		s.logger.Info("Holding page open for manual review", map[string]interface{}{
			"url":          url,
			"hold_seconds": s.opts.HoldSeconds,
		})
		holdForReview(ctx, hold)
	}

	result.Success = true
	result.ProcessingTime = time.Since(start)
	s.logger.Info("Fill session completed", map[string]interface{}{
		"url":            url,
		"filled":         len(result.FilledFields),
		"field_errors":   len(result.Errors),
		"visible_fields": result.TotalVisibleFields,
		"duration":       result.ProcessingTime.String(),
	})
	return result
}

// fillFields walks the canonical fill order, resolving and filling each
// field. When neither name half could be filled it falls back to a single
// combined full-name control.
func (s *Session) fillFields(controls []*FieldCandidate, profile *models.ApplicantProfile, result *models.AutomationResult) {
	techniques := defaultTechniques(s.cfg.Automation.SettlePause)
	filled := make(map[fields.Type]bool)

	for _, t := range fields.FillOrder() {
		s.attemptField(t, controls, profile, techniques, filled, result)

		if t == fields.LastName && !filled[fields.FirstName] && !filled[fields.LastName] {
			s.attemptField(fields.FullName, controls, profile, techniques, filled, result)
		}
	}
}

func (s *Session) attemptField(t fields.Type, controls []*FieldCandidate, profile *models.ApplicantProfile, techniques []fillTechnique, filled map[fields.Type]bool, result *models.AutomationResult) {
	value := resolver.Resolve(t, profile)
	if value == "" {
		return
	}

	candidate := discoverField(controls, t)
	if candidate == nil {
		s.logger.Debug("No matching control on page", map[string]interface{}{
			"field": t.String(),
		})
		return
	}

	if runFillChain(techniques, candidate, value, s.logger) {
		filled[t] = true
		result.FilledFields = append(result.FilledFields, t.String())
		return
	}

	result.Errors = append(result.Errors, models.FieldError{
		Field:   t.String(),
		Message: "all fill techniques failed",
	})
}

// Preview launches, navigates and reports the page's fillable surface
// without writing anything into the form.
func (s *Session) Preview(ctx context.Context, url string) *models.PreviewResult {
	start := time.Now()
	result := &models.PreviewResult{
		URL:      url,
		Elements: []models.FormElement{},
	}

	if err := s.open(ctx, url); err != nil {
		s.transition(StateFailed)
		result.Error = err.Error()
		result.ProcessingTime = time.Since(start)
		return result
	}
	defer s.close()

	s.transition(StateDiscovering)
	controls, err := collectControls(s.browser.Page())
	if err != nil {
		s.transition(StateFailed)
		result.Error = fmt.Sprintf("field discovery failed: %v", err)
		result.ProcessingTime = time.Since(start)
		return result
	}
	result.Elements = enumerateFields(controls)

	if html, err := s.browser.HTML(); err == nil {
		if summary, err := summarizeForms(html); err == nil {
			result.Summary = summary
		}
	}

	result.Success = true
	result.ProcessingTime = time.Since(start)
	return result
}

// open launches the browser and navigates to the target page, letting
// client-rendered forms settle before discovery starts.
func (s *Session) open(ctx context.Context, url string) error {
	browser, err := LaunchBrowser(s.cfg, s.opts.Headless)
	if err != nil {
		return fmt.Errorf("browser launch failed: %w", err)
	}
	s.browser = browser
	s.transition(StateLaunched)

	if err := browser.Navigate(ctx, url, s.cfg.Automation.NavigationTimeout); err != nil {
		return err
	}
	s.transition(StateNavigated)

	time.Sleep(s.cfg.Automation.PageLoadWait)
	return nil
}

func (s *Session) fail(result *models.AutomationResult, start time.Time, err error) *models.AutomationResult {
	s.transition(StateFailed)
	s.close()
	result.Success = false
	result.Error = err.Error()
	result.ProcessingTime = time.Since(start)
	s.logger.Error("Fill session failed", map[string]interface{}{
		"url":   result.URL,
		"error": err.Error(),
	})
	return result
}

func (s *Session) close() {
	if s.browser != nil {
		s.browser.Close()
		s.browser = nil
	}
	if s.state != StateFailed {
		s.state = StateClosed
	}
}

// holdForReview blocks for the hold duration or until the context is
// cancelled, whichever comes first. Returns the time actually waited.
func holdForReview(ctx context.Context, d time.Duration) time.Duration {
	start := time.Now()
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
	return time.Since(start)
}
