package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hrdesk/backend/internal/models"
)

const SystemInstruction = `You are a helpful HR Assistant for a company called 'Regulus'.
Your goal is to classify the user's intent and provide a helpful response.
You must return your response in a structured JSON format.

Supported Intents:
- 'LeaveRequest': For holiday or time off.
- 'PayslipQuery': For salary, payslip, or tax questions.
- 'Escalation': When the user needs a human HR representative or the matter is urgent.
- 'GeneralInquiry': For general questions.

JSON Format:
{
  "intent": "IntentName",
  "response": "Your natural language response here."
}`

var ErrUnparseableReply = errors.New("unparseable reasoning reply")

var tracer = otel.Tracer("github.com/hrdesk/backend/internal/ai")

// ReasoningBackend asks a remote completion service to classify the message
// and write the reply in one call.
type ReasoningBackend struct {
	Completer Completer
	Provider  string
	Timeout   time.Duration
	Logger    zerolog.Logger
}

func (b ReasoningBackend) Name() string { return "reasoning:" + b.Provider }

func (b ReasoningBackend) Respond(ctx context.Context, req models.ChatRequest, identity models.IdentityContext) Result {
	ctx, span := tracer.Start(ctx, "ai.reasoning.complete", trace.WithAttributes(
		attribute.String("ai.provider", b.Provider),
		attribute.String("correlation_id", identity.CorrelationID),
	))
	defer span.End()

	callCtx := ctx
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	log := b.Logger.With().
		Str("correlation_id", identity.CorrelationID).
		Str("provider", b.Provider).
		Logger()

	raw, err := b.Completer.Complete(callCtx, SystemInstruction, req.Message)
	if err != nil {
		if ctx.Err() != nil {
			span.SetStatus(codes.Error, "canceled")
			log.Info().Msg("reasoning call abandoned by caller")
			return Result{Failure: FailureCanceled, Err: ctx.Err()}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend unavailable")
		log.Error().Err(err).Msg("reasoning backend call failed")
		return Result{Intent: models.IntentError, Failure: FailureUnavailable, Err: err}
	}
	log.Debug().Str("raw", raw).Msg("reasoning backend reply")

	intent, text, err := ParseReply(raw)
	if err != nil {
		span.SetStatus(codes.Error, "unparseable reply")
		log.Warn().Err(err).Msg("reasoning backend returned an unparseable reply")
		return Result{Intent: models.IntentUnknown, Failure: FailureUnparseable, Err: err}
	}

	span.SetAttributes(attribute.String("ai.intent", string(intent)))
	return Result{Intent: intent, Response: text}
}

type reasoningReply struct {
	Intent   string `json:"intent"`
	Response string `json:"response"`
}

// ParseReply decodes the {"intent","response"} object the system instruction
// asks for. Markdown code fences around the object are tolerated.
func ParseReply(raw string) (models.Intent, string, error) {
	body := stripCodeFence(raw)
	var r reasoningReply
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return models.IntentUnknown, "", fmt.Errorf("%w: %v", ErrUnparseableReply, err)
	}
	text := strings.TrimSpace(r.Response)
	if text == "" {
		return models.IntentUnknown, "", fmt.Errorf("%w: empty response field", ErrUnparseableReply)
	}
	return ParseIntent(r.Intent), text, nil
}

// ParseIntent maps a backend category onto the intent vocabulary. Anything
// it does not recognise is IntentUnknown.
func ParseIntent(label string) models.Intent {
	key := strings.ToLower(label)
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	switch key {
	case "leaverequest", "leave":
		return models.IntentLeaveRequest
	case "payslipquery", "payslip", "payroll":
		return models.IntentPayslipQuery
	case "escalation":
		return models.IntentEscalation
	case "generalinquiry":
		return models.IntentGeneralInquiry
	default:
		return models.IntentUnknown
	}
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
