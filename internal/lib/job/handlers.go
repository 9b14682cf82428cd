package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/employee-api/internal/config"
	"github.com/deppfellow/employee-api/internal/lib/email"
	"github.com/deppfellow/employee-api/internal/model"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// WelcomeSender delivers the welcome email. *email.Client implements it.
type WelcomeSender interface {
	SendWelcomeEmail(ctx context.Context, employee model.Employee) error
}

// InitHandlers initializes dependencies required by job handlers.
//
// Without a Resend API key no sender is configured and welcome tasks are
// acknowledged without sending anything.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	if cfg.Integration.ResendAPIKey == "" {
		logger.Warn().Msg("resend api key not configured, welcome emails are disabled")
		return
	}
	j.sender = email.NewClient(cfg, logger)
}

// handleEmployeeWelcomeTask decodes the payload and sends the welcome email.
// A returned error makes Asynq mark the task failed and schedule a retry.
func (j *JobService) handleEmployeeWelcomeTask(ctx context.Context, t *asynq.Task) error {
	var p EmployeeWelcomePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal employee welcome payload: %w", err)
	}

	logger := j.logger.With().
		Str("type", TaskEmployeeWelcome).
		Int64("employee_id", p.EmployeeID).
		Str("to", p.Email).
		Logger()

	if j.sender == nil {
		logger.Info().Msg("Skipping welcome email, no sender configured")
		return nil
	}

	logger.Info().Msg("Processing welcome email task")

	if err := j.sender.SendWelcomeEmail(ctx, p.Employee()); err != nil {
		logger.Error().Err(err).Msg("Failed to send welcome email")
		return err
	}

	logger.Info().Msg("Successfully sent welcome email")

	return nil
}
