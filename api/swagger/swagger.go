package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Registration API",
        "description": "Session calendar, capacity-limited enrollment and registration reporting",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Calendar", "description": "Generated sessions and their live enrollment state"},
        {"name": "Registrations", "description": "Submission, ledger, summary and exports"},
        {"name": "Payments", "description": "Package quotes and hosted checkout links"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready, reports the store driver"},
                    "503": {"description": "Store unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/calendar": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Calendar month grid",
                "parameters": [
                    {"name": "month", "in": "query", "type": "string", "description": "YYYY-MM"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid month", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/sessions/{id}": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Session detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "YYYY-MM-DD-suffix"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown session", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/registrations": {
            "get": {
                "tags": ["Registrations"],
                "summary": "Registration ledger, newest first",
                "parameters": [
                    {"name": "course", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Registrations"],
                "summary": "Register a student for a session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "MALFORMED_INPUT", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown session", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "CAPACITY_EXCEEDED", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "SESSION_NOT_REGISTERABLE", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/registrations/summary": {
            "get": {
                "tags": ["Registrations"],
                "summary": "Registrations grouped by course, date and time",
                "parameters": [
                    {"name": "course", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "time", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/registrations/export": {
            "get": {
                "tags": ["Registrations"],
                "summary": "Download the ledger or the summary",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "view", "in": "query", "type": "string", "enum": ["ledger", "summary"]},
                    {"name": "course", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "time", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format or view", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/payments": {
            "get": {
                "tags": ["Payments"],
                "summary": "Course packages with prices",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/payments/{slug}/checkout": {
            "get": {
                "tags": ["Payments"],
                "summary": "Redirect to the hosted checkout page",
                "parameters": [
                    {"name": "slug", "in": "path", "required": true, "type": "string", "enum": ["level-1", "level-2", "level-3", "level-3-workshop"]}
                ],
                "responses": {
                    "302": {"description": "Redirect"},
                    "404": {"description": "Unknown package or link not configured", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["sessionId", "studentName", "parentEmail", "parentPhone"],
            "properties": {
                "sessionId": {"type": "string", "example": "2026-02-02-l1"},
                "studentName": {"type": "string"},
                "parentEmail": {"type": "string", "format": "email"},
                "parentPhone": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
