package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Gyaan Buddy Entity API",
        "description": "Validation, normalisation and storage of Gyaan Buddy school entities",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [
        {"BearerAuth": []}
    ],
    "tags": [
        {"name": "Entities", "description": "Entity validation, normalisation and persistence"},
        {"name": "Observability", "description": "Service counters"}
    ],
    "paths": {
        "/entities": {
            "get": {
                "tags": ["Entities"],
                "summary": "List supported entity kinds",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/entities/{kind}/validate": {
            "post": {
                "tags": ["Entities"],
                "summary": "Validate a record without storing it",
                "parameters": [
                    {"$ref": "#/parameters/kind"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ValidationEnvelope"}},
                    "404": {"description": "Unknown kind", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/entities/{kind}/normalize": {
            "post": {
                "tags": ["Entities"],
                "summary": "Apply defaults and coercions and return the canonical record",
                "parameters": [
                    {"$ref": "#/parameters/kind"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/entities/{kind}": {
            "get": {
                "tags": ["Entities"],
                "summary": "List stored records of a kind",
                "parameters": [
                    {"$ref": "#/parameters/kind"},
                    {"name": "page", "in": "query", "type": "integer", "minimum": 1},
                    {"name": "page_size", "in": "query", "type": "integer", "minimum": 1, "maximum": 100},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "sort_by", "in": "query", "type": "string"},
                    {"name": "sort_order", "in": "query", "type": "string", "enum": ["asc", "desc"]},
                    {"name": "include_deleted", "in": "query", "type": "boolean"},
                    {"name": "only_deleted", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Entities"],
                "summary": "Create a record (staff only)",
                "parameters": [
                    {"$ref": "#/parameters/kind"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/entities/{kind}/export": {
            "get": {
                "tags": ["Entities"],
                "summary": "Export records as CSV or PDF (staff only)",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"$ref": "#/parameters/kind"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "include_deleted", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "503": {"description": "Exports disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/entities/{kind}/{id}": {
            "get": {
                "tags": ["Entities"],
                "summary": "Get a record",
                "parameters": [
                    {"$ref": "#/parameters/kind"},
                    {"$ref": "#/parameters/id"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Entities"],
                "summary": "Merge a partial record into a stored one (staff only)",
                "parameters": [
                    {"$ref": "#/parameters/kind"},
                    {"$ref": "#/parameters/id"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Entities"],
                "summary": "Soft delete a record, or remove it with hard=true (admin only)",
                "parameters": [
                    {"$ref": "#/parameters/kind"},
                    {"$ref": "#/parameters/id"},
                    {"name": "hard", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "Soft deleted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "204": {"description": "Removed"},
                    "412": {"description": "Kind is not soft deletable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/entities/{kind}/{id}/restore": {
            "post": {
                "tags": ["Entities"],
                "summary": "Restore a soft deleted record (staff only)",
                "parameters": [
                    {"$ref": "#/parameters/kind"},
                    {"$ref": "#/parameters/id"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/snapshot": {
            "get": {
                "tags": ["Observability"],
                "summary": "Aggregated service counters (admin only)",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "parameters": {
        "kind": {
            "name": "kind",
            "in": "path",
            "required": true,
            "type": "string",
            "enum": [
                "school", "level", "user", "class", "subject",
                "module", "module_chapter", "module_content",
                "question", "option", "theory",
                "mission", "mission_question", "user_mission_progress",
                "competition", "competition_question", "user_competition_progress",
                "user_module_progress", "user_chapter_progress"
            ]
        },
        "id": {"name": "id", "in": "path", "required": true, "type": "string"}
    },
    "definitions": {
        "ValidationResult": {
            "type": "object",
            "properties": {
                "isValid": {"type": "boolean"},
                "errors": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "ValidationEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/ValidationResult"}
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
                "status": {"type": "integer"},
                "details": {"type": "object"}
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
