package models

import "time"

type Intent string

const (
	IntentLeaveRequest   Intent = "leave_request"
	IntentPayslipQuery   Intent = "payslip_query"
	IntentEscalation     Intent = "escalation"
	IntentGeneralInquiry Intent = "general_inquiry"
	IntentUnknown        Intent = "unknown"
	// IntentError is only produced when the reasoning backend could not be reached.
	IntentError Intent = "error"
)

// Intents lists every value a classification can produce.
var Intents = []Intent{
	IntentLeaveRequest,
	IntentPayslipQuery,
	IntentEscalation,
	IntentGeneralInquiry,
	IntentUnknown,
	IntentError,
}

type ChatRequest struct {
	Message     string    `json:"message" validate:"required,max=4000"`
	TicketRef   *string   `json:"ticketRef,omitempty" validate:"omitempty,max=64"`
	SubmittedAt time.Time `json:"-"`
}

// Principal is what the authentication layer knows about the caller.
type Principal struct {
	Authenticated bool
	Claims        map[string]string
	Roles         []string
}

func (p *Principal) Claim(name string) string {
	if p == nil || p.Claims == nil {
		return ""
	}
	return p.Claims[name]
}

func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type IdentityContext struct {
	EmployeeID    string   `json:"employeeId"`
	Email         string   `json:"email"`
	Roles         []string `json:"roles"`
	Country       string   `json:"country"`
	CorrelationID string   `json:"correlationId"`
}

type ChatOutcome struct {
	Response         string    `json:"response"`
	Intent           Intent    `json:"intent"`
	Escalated        bool      `json:"escalated"`
	EscalationReason *string   `json:"escalationReason"`
	CorrelationID    string    `json:"correlationId"`
	RespondedAt      time.Time `json:"respondedAt"`
}

type AuditEntry struct {
	Timestamp     time.Time `json:"timestamp"`
	Action        string    `json:"action"`
	ActorID       string    `json:"actor_id"`
	CorrelationID string    `json:"correlation_id"`
	Payload       any       `json:"payload,omitempty"`
}
