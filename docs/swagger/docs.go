// Package swagger registers the OpenAPI document served at /swagger.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    },
    "security": [{"ApiKeyAuth": []}],
    "paths": {
        "/sync": {
            "post": {
                "description": "Fetch every configured content type, resolve media and reconcile nodes.",
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Run Sync",
                "parameters": [
                    {
                        "type": "boolean",
                        "description": "Plan node changes without applying them",
                        "name": "dry_run",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "Run Report", "schema": {"$ref": "#/definitions/ingest.RunReport"}},
                    "409": {"description": "Run In Progress", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/nodes": {
            "get": {
                "description": "List owned nodes, optionally filtered by content type.",
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "List Nodes",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Content type (e.g. 'article')",
                        "name": "type",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "Nodes", "schema": {"type": "array", "items": {"$ref": "#/definitions/nodestore.Node"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/integrity": {
            "get": {
                "description": "Performs the bucket and media checks.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Run All Integrity Checks",
                "responses": {
                    "200": {"description": "Combined Report", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/integrity/bucket": {
            "get": {
                "description": "Checks that the media bucket exists.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Check Bucket",
                "responses": {
                    "200": {"description": "Bucket Status", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/integrity/media": {
            "get": {
                "description": "Verifies that every File node points at an existing object. With fix=true broken nodes are removed so the next sync downloads them again.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Check Media",
                "parameters": [
                    {
                        "type": "boolean",
                        "description": "Remove broken File nodes",
                        "name": "fix",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "Media Report", "schema": {"$ref": "#/definitions/integrity.MediaReport"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/nodes/{id}": {
            "get": {
                "description": "Get a node by id (e.g. 'Article_1').",
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "Get Node",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Node ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "Node", "schema": {"$ref": "#/definitions/nodestore.Node"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "integrity.MediaReport": {
            "type": "object",
            "properties": {
                "checked": {"type": "integer"},
                "missing": {"type": "array", "items": {"type": "string"}},
                "unlinked": {"type": "array", "items": {"type": "string"}},
                "removed": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ingest.MediaReport": {
            "type": "object",
            "properties": {
                "downloaded": {"type": "integer"},
                "failed": {"type": "integer"},
                "reused": {"type": "integer"}
            }
        },
        "ingest.TypeReport": {
            "type": "object",
            "properties": {
                "fetched": {"type": "integer"},
                "nodes": {"type": "integer"},
                "skipped": {"type": "integer"}
            }
        },
        "ingest.RunReport": {
            "type": "object",
            "properties": {
                "started_at": {"type": "string"},
                "duration": {"type": "string"},
                "dry_run": {"type": "boolean"},
                "executed": {"type": "integer"},
                "media": {"$ref": "#/definitions/ingest.MediaReport"},
                "plan": {"$ref": "#/definitions/reconcile.PlanSummary"},
                "types": {"type": "object", "additionalProperties": {"$ref": "#/definitions/ingest.TypeReport"}}
            }
        },
        "reconcile.PlanSummary": {
            "type": "object",
            "properties": {
                "existing": {"type": "integer"},
                "referenced": {"type": "integer"},
                "create_actions": {"type": "integer"},
                "delete_actions": {"type": "integer"},
                "kept": {"type": "integer"}
            }
        },
        "nodestore.Node": {
            "type": "object",
            "additionalProperties": true,
            "properties": {
                "id": {"type": "string"},
                "sourceId": {},
                "internal": {
                    "type": "object",
                    "properties": {
                        "type": {"type": "string"},
                        "owner": {"type": "string"},
                        "contentDigest": {"type": "string"}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "cms-sync API",
	Description:      "API for triggering CMS syncs and browsing synced nodes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
