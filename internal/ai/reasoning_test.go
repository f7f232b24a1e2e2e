package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/hrdesk/backend/internal/ai/mocks"
	"github.com/hrdesk/backend/internal/models"
)

type completerFunc func(ctx context.Context, system, user string) (string, error)

func (f completerFunc) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

func newReasoning(c Completer) ReasoningBackend {
	return ReasoningBackend{Completer: c, Provider: "test", Timeout: time.Second, Logger: zerolog.Nop()}
}

func TestReasoningBackend_ParsesStructuredReply(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)
	completer.EXPECT().
		Complete(gomock.Any(), SystemInstruction, "I want a week off in July").
		Return(`{"intent":"LeaveRequest","response":"Sure, how many days?"}`, nil)

	res := newReasoning(completer).Respond(context.Background(),
		models.ChatRequest{Message: "I want a week off in July"},
		models.IdentityContext{CorrelationID: "c-1"})

	assert.Equal(t, FailureNone, res.Failure)
	assert.Equal(t, models.IntentLeaveRequest, res.Intent)
	assert.Equal(t, "Sure, how many days?", res.Response)
}

func TestReasoningBackend_NonJSONIsUnparseable(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)
	completer.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return("Sure! Happy to help.", nil)

	res := newReasoning(completer).Respond(context.Background(), models.ChatRequest{Message: "hi"}, models.IdentityContext{})

	assert.Equal(t, FailureUnparseable, res.Failure)
	assert.Equal(t, models.IntentUnknown, res.Intent)
	assert.ErrorIs(t, res.Err, ErrUnparseableReply)
}

func TestReasoningBackend_TransportFailureIsUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)
	completer.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return("", RateLimitError{RetryAfter: time.Second})

	res := newReasoning(completer).Respond(context.Background(), models.ChatRequest{Message: "hi"}, models.IdentityContext{})

	assert.Equal(t, FailureUnavailable, res.Failure)
	assert.Equal(t, models.IntentError, res.Intent)
	var rl RateLimitError
	assert.True(t, errors.As(res.Err, &rl))
}

func TestReasoningBackend_TimeoutIsUnavailable(t *testing.T) {
	defer goleak.VerifyNone(t)

	slow := completerFunc(func(ctx context.Context, _, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	b := newReasoning(slow)
	b.Timeout = 20 * time.Millisecond

	res := b.Respond(context.Background(), models.ChatRequest{Message: "hi"}, models.IdentityContext{})
	assert.Equal(t, FailureUnavailable, res.Failure)
	assert.Equal(t, models.IntentError, res.Intent)
}

func TestReasoningBackend_CallerCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	blocking := completerFunc(func(ctx context.Context, _, _ string) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	})
	b := newReasoning(blocking)
	b.Timeout = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Result, 1)
	go func() {
		done <- b.Respond(ctx, models.ChatRequest{Message: "hi"}, models.IdentityContext{})
	}()

	<-started
	cancel()

	select {
	case res := <-done:
		assert.Equal(t, FailureCanceled, res.Failure)
		assert.ErrorIs(t, res.Err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("reasoning call did not return after cancellation")
	}
}

func TestParseReply(t *testing.T) {
	intent, text, err := ParseReply("```json\n{\"intent\": \"Payroll\", \"response\": \"Your payslip is ready.\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, models.IntentPayslipQuery, intent)
	assert.Equal(t, "Your payslip is ready.", text)

	intent, text, err = ParseReply(`{"Intent":"SoftwareRequest","Response":"I'll raise that license request."}`)
	require.NoError(t, err)
	assert.Equal(t, models.IntentUnknown, intent)
	assert.Equal(t, "I'll raise that license request.", text)

	_, _, err = ParseReply(`{"intent":"LeaveRequest","response":"  "}`)
	assert.ErrorIs(t, err, ErrUnparseableReply)

	_, _, err = ParseReply(`[1,2,3]`)
	assert.ErrorIs(t, err, ErrUnparseableReply)
}

func TestParseIntent(t *testing.T) {
	cases := map[string]models.Intent{
		"LeaveRequest":    models.IntentLeaveRequest,
		"leave_request":   models.IntentLeaveRequest,
		"PayslipQuery":    models.IntentPayslipQuery,
		"Payroll":         models.IntentPayslipQuery,
		"Escalation":      models.IntentEscalation,
		"General Inquiry": models.IntentGeneralInquiry,
		"Complaint":       models.IntentUnknown,
		"error":           models.IntentUnknown,
		"":                models.IntentUnknown,
	}
	for label, want := range cases {
		assert.Equal(t, want, ParseIntent(label), "label %q", label)
	}
}
