package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA ADP Console",
        "description": "Admin console gateway over the school records API",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Console", "description": "List, form and export screens for students, classes, departments and courses"},
        {"name": "Dashboard", "description": "Aggregated dashboard"},
        {"name": "Metrics", "description": "Runtime instrumentation"}
    ],
    "paths": {
        "/console/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Console dashboard summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/console/metrics": {
            "get": {
                "tags": ["Metrics"],
                "summary": "Console runtime metrics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/console/{resource}": {
            "get": {
                "tags": ["Console"],
                "summary": "List one page of a resource",
                "parameters": [
                    {"$ref": "#/parameters/resource"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "q", "in": "query", "type": "string", "description": "Search term"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Backend unreachable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Console"],
                "summary": "Submit a create form",
                "parameters": [
                    {"$ref": "#/parameters/resource"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/console/{resource}/{id}": {
            "get": {
                "tags": ["Console"],
                "summary": "Show one record with derived fields",
                "parameters": [
                    {"$ref": "#/parameters/resource"},
                    {"$ref": "#/parameters/id"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Console"],
                "summary": "Submit an edit form",
                "parameters": [
                    {"$ref": "#/parameters/resource"},
                    {"$ref": "#/parameters/id"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Console"],
                "summary": "Delete a record after confirmation",
                "parameters": [
                    {"$ref": "#/parameters/resource"},
                    {"$ref": "#/parameters/id"},
                    {"name": "confirm", "in": "query", "type": "boolean", "required": true},
                    {"name": "page", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Reloaded page", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "428": {"description": "Confirmation required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/console/{resource}/form": {
            "get": {
                "tags": ["Console"],
                "summary": "Create form state",
                "parameters": [{"$ref": "#/parameters/resource"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/console/{resource}/{id}/form": {
            "get": {
                "tags": ["Console"],
                "summary": "Edit form state",
                "parameters": [{"$ref": "#/parameters/resource"}, {"$ref": "#/parameters/id"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/console/{resource}/export": {
            "get": {
                "tags": ["Console"],
                "summary": "Export the current page",
                "produces": ["text/csv", "application/json", "application/pdf"],
                "parameters": [
                    {"$ref": "#/parameters/resource"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "json", "pdf"]},
                    {"name": "page", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}}
                }
            }
        }
    },
    "parameters": {
        "resource": {
            "name": "resource",
            "in": "path",
            "required": true,
            "type": "string",
            "enum": ["students", "classes", "departments", "courses"]
        },
        "id": {"name": "id", "in": "path", "required": true, "type": "string"}
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "currentPage": {"type": "integer"},
                "itemsPerPage": {"type": "integer"},
                "totalItems": {"type": "integer"},
                "totalPages": {"type": "integer"},
                "hasNextPage": {"type": "boolean"},
                "hasPrevPage": {"type": "boolean"}
            }
        },
        "Notice": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["success", "error", "info"]},
                "message": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "notices": {"type": "array", "items": {"$ref": "#/definitions/Notice"}},
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
