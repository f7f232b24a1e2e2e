package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "HR Desk Chat API",
    "description": "Help-desk chat gateway: intent classification, replies and escalation with an audit trail",
    "version": "1.0"
  },
  "basePath": "/",
  "securityDefinitions": {
    "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
  },
  "paths": {
    "/healthz": {
      "get": {"tags": ["health"], "summary": "Health check", "produces": ["application/json"],
        "responses": {"200": {"description": "OK"}, "503": {"description": "Audit store unavailable"}}}
    },
    "/api/chat": {
      "post": {"tags": ["chat"], "summary": "Send a chat message", "security": [{"BearerAuth": []}],
        "consumes": ["application/json"], "produces": ["application/json"],
        "parameters": [
          {"name": "X-Correlation-ID", "in": "header", "type": "string", "required": false},
          {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ChatRequest"}}
        ],
        "responses": {
          "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ChatOutcome"}},
          "400": {"description": "Invalid request"},
          "401": {"description": "Authentication required"}
        }}
    },
    "/api/me": {
      "get": {"tags": ["identity"], "summary": "Current identity", "security": [{"BearerAuth": []}], "produces": ["application/json"],
        "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.IdentityContext"}}, "401": {"description": "Authentication required"}}}
    },
    "/api/admin/audit/{correlation_id}": {
      "get": {"tags": ["admin"], "summary": "Audit trail", "security": [{"BearerAuth": []}], "produces": ["application/json"],
        "parameters": [{"name": "correlation_id", "in": "path", "type": "string", "required": true}],
        "responses": {"200": {"description": "OK"}, "403": {"description": "Admin role required"}, "404": {"description": "Not found"}, "501": {"description": "Audit sinks cannot be queried"}}}
    }
  },
  "definitions": {
    "models.ChatRequest": {"type": "object", "required": ["message"], "properties": {
      "message": {"type": "string", "maxLength": 4000},
      "ticketRef": {"type": "string"}
    }},
    "models.ChatOutcome": {"type": "object", "properties": {
      "response": {"type": "string"},
      "intent": {"type": "string", "enum": ["leave_request", "payslip_query", "escalation", "general_inquiry", "unknown", "error"]},
      "escalated": {"type": "boolean"},
      "escalationReason": {"type": "string"},
      "correlationId": {"type": "string"},
      "respondedAt": {"type": "string", "format": "date-time"}
    }},
    "models.IdentityContext": {"type": "object", "properties": {
      "employeeId": {"type": "string"},
      "email": {"type": "string"},
      "roles": {"type": "array", "items": {"type": "string"}},
      "country": {"type": "string"},
      "correlationId": {"type": "string"}
    }}
  }
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}
