package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrdesk/backend/internal/models"
)

type keywordRule struct {
	intent   models.Intent
	keywords []string
}

// Checked in order; the first rule with a matching keyword wins. A message
// mentioning both leave and urgency is a leave request.
var keywordRules = []keywordRule{
	{intent: models.IntentLeaveRequest, keywords: []string{"leave", "vacation", "time off"}},
	{intent: models.IntentPayslipQuery, keywords: []string{"payslip", "salary", "wage"}},
	{intent: models.IntentEscalation, keywords: []string{"urgent", "escalate", "manager"}},
}

// RuleEngine is the deterministic backend: keyword classification plus one
// reply template per intent.
type RuleEngine struct{}

func (RuleEngine) Name() string { return "rules" }

func (e RuleEngine) Respond(_ context.Context, req models.ChatRequest, identity models.IdentityContext) Result {
	intent := e.Classify(req.Message)
	return Result{Intent: intent, Response: e.Generate(intent, identity)}
}

func (RuleEngine) Classify(message string) models.Intent {
	lower := strings.ToLower(message)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.intent
			}
		}
	}
	return models.IntentUnknown
}

func (RuleEngine) Generate(intent models.Intent, identity models.IdentityContext) string {
	switch intent {
	case models.IntentLeaveRequest:
		return fmt.Sprintf("I can help you with leave requests. As an employee in %s, your leave policy includes standard annual leave. How many days would you like to request?", identity.Country)
	case models.IntentPayslipQuery:
		return "I can retrieve your recent payslips. Which month would you like to check?"
	case models.IntentEscalation:
		return "I see this requires special attention. Let me escalate this to your HR manager."
	case models.IntentGeneralInquiry:
		return "I can answer general HR questions about policies, benefits and procedures. What would you like to know?"
	case models.IntentError:
		return "I'm having trouble answering right now. Please try again later."
	default:
		return "I'm not sure how to help with that. Could you please rephrase your question or would you like me to escalate this?"
	}
}
