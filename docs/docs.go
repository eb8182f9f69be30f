// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "https://opensource.org/licenses/Apache-2.0"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/search": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Search every enabled source",
                "parameters": [
                    {"type": "string", "description": "Caller identity, required when saving", "name": "X-Radar-User", "in": "header"},
                    {"description": "Query, filters and save flag", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SearchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SearchResponse"}},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/refine": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Filter stored or fresh results",
                "parameters": [
                    {"type": "string", "description": "Caller identity", "name": "X-Radar-User", "in": "header"},
                    {"description": "Saved search id or query, plus filters", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RefineRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ResultsResponse"}},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/searches": {
            "get": {
                "produces": ["application/json"],
                "tags": ["searches"],
                "summary": "List saved searches, newest first",
                "parameters": [
                    {"type": "string", "description": "Caller identity", "name": "X-Radar-User", "in": "header", "required": true},
                    {"type": "integer", "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/searches/{id}": {
            "delete": {
                "tags": ["searches"],
                "summary": "Delete a saved search with its results and columns",
                "parameters": [
                    {"type": "string", "description": "Caller identity", "name": "X-Radar-User", "in": "header", "required": true},
                    {"type": "string", "description": "Saved search id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/searches/{id}/results": {
            "get": {
                "produces": ["application/json"],
                "tags": ["searches"],
                "summary": "Stored results of a saved search with custom columns",
                "parameters": [
                    {"type": "string", "description": "Caller identity", "name": "X-Radar-User", "in": "header", "required": true},
                    {"type": "string", "description": "Saved search id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SavedQueryResultsResponse"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/searches/{id}/columns": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["searches"],
                "summary": "Add a custom column to a saved search",
                "parameters": [
                    {"type": "string", "description": "Caller identity", "name": "X-Radar-User", "in": "header", "required": true},
                    {"type": "string", "description": "Saved search id", "name": "id", "in": "path", "required": true},
                    {"description": "Column and values keyed by result id", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateColumnRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/automations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["automations"],
                "summary": "List automations",
                "parameters": [
                    {"type": "string", "description": "Caller identity", "name": "X-Radar-User", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["automations"],
                "summary": "Schedule a saved search",
                "parameters": [
                    {"type": "string", "description": "Caller identity", "name": "X-Radar-User", "in": "header", "required": true},
                    {"description": "Search and frequency", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateAutomationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/automations/{id}/run": {
            "post": {
                "produces": ["application/json"],
                "tags": ["automations"],
                "summary": "Run an automation now",
                "parameters": [
                    {"type": "string", "description": "Caller identity", "name": "X-Radar-User", "in": "header", "required": true},
                    {"type": "string", "description": "Automation id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RunResponse"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/automations/{id}/deactivate": {
            "post": {
                "tags": ["automations"],
                "summary": "Deactivate an automation",
                "parameters": [
                    {"type": "string", "description": "Caller identity", "name": "X-Radar-User", "in": "header", "required": true},
                    {"type": "string", "description": "Automation id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    },
    "definitions": {
        "domain.Result": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "url": {"type": "string"},
                "snippet": {"type": "string"},
                "source": {"type": "string"},
                "date": {"type": "string"},
                "category": {"type": "string"},
                "status": {"type": "string"},
                "country": {"type": "string"},
                "language": {"type": "string"},
                "score": {"type": "integer"}
            }
        },
        "dto.SearchRequest": {
            "type": "object",
            "properties": {
                "query": {"type": "string", "example": "renewable energy"},
                "filters": {"type": "object", "additionalProperties": {"type": "string"}},
                "save": {"type": "boolean"}
            }
        },
        "dto.SearchResponse": {
            "type": "object",
            "properties": {
                "search_id": {"type": "string"},
                "inserted": {"type": "integer"},
                "count": {"type": "integer"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/domain.Result"}}
            }
        },
        "dto.RefineRequest": {
            "type": "object",
            "properties": {
                "search_id": {"type": "string"},
                "query": {"type": "string"},
                "filters": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "dto.ResultsResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/domain.Result"}}
            }
        },
        "dto.SavedQueryResultsResponse": {
            "type": "object",
            "properties": {
                "search": {"type": "object"},
                "count": {"type": "integer"},
                "results": {"type": "array", "items": {"type": "object"}},
                "columns": {"type": "array", "items": {"type": "object"}}
            }
        },
        "dto.CreateColumnRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "sentiment"},
                "description": {"type": "string"},
                "generated_by_ai": {"type": "boolean"},
                "values": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "dto.CreateAutomationRequest": {
            "type": "object",
            "properties": {
                "search_id": {"type": "string"},
                "frequency": {"type": "string", "example": "24h", "enum": ["24h", "daily", "weekly", "monthly"]}
            }
        },
        "dto.RunResponse": {
            "type": "object",
            "properties": {
                "automation_id": {"type": "string"},
                "inserted": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "News Radar API",
	Description:      "Aggregates news search results from several providers, saves searches and refreshes them on a schedule",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
