package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hrdesk/backend/internal/ai"
	"github.com/hrdesk/backend/internal/metrics"
	"github.com/hrdesk/backend/internal/models"
)

const (
	ApologyUnparseable = "I'm sorry, I couldn't process that properly. Could you rephrase your question? I can also escalate it to an HR representative."
	ApologyUnavailable = "The HR assistant is temporarily unavailable. Please try again later."
)

// Orchestrator runs one chat message through the configured backend and the
// escalation policy.
type Orchestrator struct {
	Backend ai.Backend
	Policy  EscalationPolicy
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
	// Now is overridable in tests.
	Now func() time.Time
}

func NewOrchestrator(backend ai.Backend, logger zerolog.Logger, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		Backend: backend,
		Logger:  logger,
		Metrics: m,
	}
}

// Handle returns an error only when ctx was canceled while the backend was
// working. Backend failures degrade into a regular outcome.
func (o *Orchestrator) Handle(ctx context.Context, req models.ChatRequest, identity models.IdentityContext) (models.ChatOutcome, error) {
	log := o.Logger.With().
		Str("correlation_id", identity.CorrelationID).
		Str("backend", o.Backend.Name()).
		Logger()

	start := time.Now()
	res := o.Backend.Respond(ctx, req, identity)
	o.Metrics.ObserveBackendLatency(o.Backend.Name(), res.Failure.String(), time.Since(start))

	if res.Failure == ai.FailureCanceled {
		err := res.Err
		if err == nil {
			err = context.Canceled
		}
		log.Info().Err(err).Msg("chat request canceled")
		return models.ChatOutcome{CorrelationID: identity.CorrelationID}, err
	}
	if err := ctx.Err(); err != nil {
		log.Info().Err(err).Msg("chat request canceled")
		return models.ChatOutcome{CorrelationID: identity.CorrelationID}, err
	}

	intent, response := Degrade(res)
	escalated, reason := o.Policy.Decide(intent)

	outcome := models.ChatOutcome{
		Response:         response,
		Intent:           intent,
		Escalated:        escalated,
		EscalationReason: reason,
		CorrelationID:    identity.CorrelationID,
		RespondedAt:      o.now(),
	}

	o.Metrics.IncrementOutcome(o.Backend.Name(), intent, escalated)
	log.Info().
		Str("intent", string(intent)).
		Bool("escalated", escalated).
		Str("result", res.Failure.String()).
		Msg("chat handled")
	return outcome, nil
}

// Degrade maps a backend result onto the intent and text shown to the user.
func Degrade(res ai.Result) (models.Intent, string) {
	switch res.Failure {
	case ai.FailureUnparseable:
		return models.IntentUnknown, ApologyUnparseable
	case ai.FailureUnavailable:
		return models.IntentError, ApologyUnavailable
	}
	if res.Intent == "" {
		return models.IntentUnknown, ApologyUnparseable
	}
	return res.Intent, res.Response
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now().UTC()
}
