package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"applyflow/internal/automation"
	"applyflow/internal/batch"
	"applyflow/internal/config"
	"applyflow/internal/logging"
	"applyflow/pkg/models"
	"applyflow/pkg/utils"
)

var validate = validator.New()

func respondError(c echo.Context, requestID, errCode string, cerr *utils.CustomError) error {
	return c.JSON(cerr.Code, models.ErrorResponse{
		Error:     errCode,
		Message:   cerr.Error(),
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}

// PreviewHandler reports the fillable surface of an application page
// without writing into the form. Runs a live browser, so it competes for
// the automation slot like every other session.
func PreviewHandler(cfg *config.Config, runner *automation.Runner, manager *batch.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		var req models.PreviewRequest
		if err := c.Bind(&req); err != nil {
			return respondError(c, requestID, "invalid_request", utils.NewBadRequestError("Invalid request format"))
		}
		if err := validate.Struct(&req); err != nil {
			return respondError(c, requestID, "validation_failed", utils.NewValidationError(err.Error()))
		}

		if err := manager.TryAcquireSlot(); err != nil {
			return respondError(c, requestID, "automation_busy", utils.NewBatchConflictError(err.Error()))
		}
		defer manager.ReleaseSlot()

		logger.Info("Preview request received", map[string]interface{}{
			"url": req.URL,
		})

		opts := models.AutomationOptions{Headless: cfg.Automation.Headless}
		result := runner.PreviewFields(c.Request().Context(), req.URL, opts)

		response := models.PreviewResponse{
			Success:        result.Success,
			Elements:       result.Elements,
			Summary:        result.Summary,
			Error:          result.Error,
			ProcessingTime: result.ProcessingTime,
			RequestID:      requestID,
		}
		if !result.Success {
			return c.JSON(http.StatusUnprocessableEntity, response)
		}
		return c.JSON(http.StatusOK, response)
	}
}

// FillHandler accepts a fill session for a single application page and
// returns a process ID for status polling. The browser session runs in
// the background; fills can hold the page open for review, so the
// request cycle never waits on them.
func FillHandler(cfg *config.Config, manager *batch.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		var req models.FillRequest
		if err := c.Bind(&req); err != nil {
			return respondError(c, requestID, "invalid_request", utils.NewBadRequestError("Invalid request format"))
		}
		if err := validate.Struct(&req); err != nil {
			return respondError(c, requestID, "validation_failed", utils.NewValidationError(err.Error()))
		}

		processID := utils.GenerateProcessID()
		if err := manager.SubmitFill(c.Request().Context(), processID, req); err != nil {
			if errors.Is(err, batch.ErrAutomationBusy) {
				return respondError(c, requestID, "automation_busy", utils.NewBatchConflictError(err.Error()))
			}
			return respondError(c, requestID, "submission_failed", utils.NewInternalServerError(err.Error()))
		}

		logger.Info("Fill submitted", map[string]interface{}{
			"process_id": processID,
			"url":        req.URL,
		})

		return c.JSON(http.StatusAccepted, models.CreateAsyncAcceptedResponse(processID, "Fill accepted for processing"))
	}
}

// BatchHandler accepts a batch of applications for sequential background
// processing and returns a process ID for status polling.
func BatchHandler(cfg *config.Config, manager *batch.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		var req models.BatchRequest
		if err := c.Bind(&req); err != nil {
			return respondError(c, requestID, "invalid_request", utils.NewBadRequestError("Invalid request format"))
		}
		if err := validate.Struct(&req); err != nil {
			return respondError(c, requestID, "validation_failed", utils.NewValidationError(err.Error()))
		}

		processID := utils.GenerateProcessID()
		if err := manager.Submit(c.Request().Context(), processID, req); err != nil {
			if errors.Is(err, batch.ErrBatchInProgress) {
				return respondError(c, requestID, "batch_in_progress", utils.NewBatchConflictError(err.Error()))
			}
			return respondError(c, requestID, "submission_failed", utils.NewInternalServerError(err.Error()))
		}

		logger.Info("Batch submitted", map[string]interface{}{
			"process_id": processID,
			"total_jobs": len(req.Jobs),
		})

		return c.JSON(http.StatusAccepted, models.CreateAsyncAcceptedResponse(processID, "Batch accepted for processing"))
	}
}

// BatchStatusHandler reports live progress of the running batch
func BatchStatusHandler(manager *batch.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, manager.Status())
	}
}

// TaskStatusHandler returns the stored result of a submitted batch task
func TaskStatusHandler(manager *batch.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		processID := c.Param("id")

		task, err := manager.GetTask(c.Request().Context(), processID)
		if err != nil {
			if errors.Is(err, batch.ErrTaskNotFound) {
				return respondError(c, requestID, "task_not_found", utils.NewNotFoundError("No task with that process ID"))
			}
			return respondError(c, requestID, "task_lookup_failed", utils.NewInternalServerError(err.Error()))
		}

		response := models.AsyncTaskStatusResponse{
			ProcessID:   task.ProcessID,
			Status:      models.AsyncStatus(task.Status),
			Data:        task.Data,
			Error:       task.Error,
			CreatedAt:   task.CreatedAt,
			CompletedAt: task.CompletedAt,
			Metadata:    task.Metadata,
		}
		if task.ProcessingTime > 0 {
			pt := task.ProcessingTime
			response.ProcessingTime = &pt
		}

		return c.JSON(http.StatusOK, response)
	}
}
