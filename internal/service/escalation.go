package service

import "github.com/hrdesk/backend/internal/models"

const EscalationReasonComplex = "Complex query requires human intervention"

// EscalationPolicy decides whether an outcome needs a human. Only the
// escalation intent does.
type EscalationPolicy struct{}

func (EscalationPolicy) Decide(intent models.Intent) (bool, *string) {
	if intent != models.IntentEscalation {
		return false, nil
	}
	reason := EscalationReasonComplex
	return true, &reason
}
