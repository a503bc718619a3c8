// Package docs holds the OpenAPI description served under /swagger/ when the
// server is built with -tags=swagger. Regenerate with `make swagger-gen`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "tensorpool maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/planners": {
            "get": {
                "produces": ["application/json"],
                "tags": ["planning"],
                "summary": "List planners",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/types.PlannersResponse"}
                    }
                }
            }
        },
        "/plan": {
            "post": {
                "consumes": ["application/json", "application/yaml", "application/toml"],
                "produces": ["application/json"],
                "tags": ["planning"],
                "summary": "Plan a manifest",
                "parameters": [
                    {
                        "description": "graph manifest",
                        "name": "manifest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.Manifest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PlanReport"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "507": {"description": "Insufficient Storage", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/compare": {
            "post": {
                "consumes": ["application/json", "application/yaml", "application/toml"],
                "produces": ["application/json"],
                "tags": ["planning"],
                "summary": "Compare planners on a manifest",
                "parameters": [
                    {
                        "description": "graph manifest",
                        "name": "manifest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.Manifest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.CompareReport"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.Window": {
            "type": "object",
            "properties": {
                "start": {"type": "integer", "example": 0},
                "end": {"type": "integer", "example": 12}
            }
        },
        "types.DimSpec": {
            "type": "object",
            "properties": {
                "batch": {"type": "integer", "example": 1},
                "channel": {"type": "integer", "example": 1},
                "height": {"type": "integer", "example": 1},
                "width": {"type": "integer", "example": 1024}
            }
        },
        "types.ViewSpec": {
            "type": "object",
            "properties": {
                "source": {"type": "string", "example": "fc1:output"},
                "offset": {"type": "integer", "example": 0}
            }
        },
        "types.TensorSpec": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "fc1:output"},
                "dim": {"$ref": "#/definitions/types.DimSpec"},
                "dtype": {"type": "string", "example": "float32"},
                "lifespan": {"type": "string", "example": "iteration"},
                "exec_order": {"type": "array", "items": {"type": "integer"}},
                "init": {"type": "string", "example": "zeros"},
                "placeholder": {"type": "boolean"},
                "batched": {"type": "boolean"},
                "view": {"$ref": "#/definitions/types.ViewSpec"}
            }
        },
        "types.ExtendSpec": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "fc1:weight"},
                "exec_order": {"type": "array", "items": {"type": "integer"}},
                "lifespan": {"type": "string", "example": "max"}
            }
        },
        "types.Manifest": {
            "type": "object",
            "properties": {
                "window": {"$ref": "#/definitions/types.Window"},
                "planner": {"type": "string", "example": "optimized-v1"},
                "batch": {"type": "integer", "example": 32},
                "tensors": {"type": "array", "items": {"$ref": "#/definitions/types.TensorSpec"}},
                "extends": {"type": "array", "items": {"$ref": "#/definitions/types.ExtendSpec"}}
            }
        },
        "types.TensorPlacement": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "fc1:output"},
                "bytes": {"type": "integer", "example": 4096},
                "offset": {"type": "integer", "example": 0},
                "lifespan": {"type": "string", "example": "iteration"},
                "view_of": {"type": "string"},
                "exec_order": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "types.PlanReport": {
            "type": "object",
            "properties": {
                "planner": {"type": "string", "example": "optimized-v1"},
                "window": {"$ref": "#/definitions/types.Window"},
                "arena_bytes": {"type": "integer", "example": 8192},
                "requested_bytes": {"type": "integer", "example": 16384},
                "minimum_bytes": {"type": "integer", "example": 8192},
                "efficiency": {"type": "number", "example": 1},
                "planned": {"type": "integer", "example": 12},
                "tensors": {"type": "array", "items": {"$ref": "#/definitions/types.TensorPlacement"}}
            }
        },
        "types.CompareReport": {
            "type": "object",
            "properties": {
                "reports": {"type": "array", "items": {"$ref": "#/definitions/types.PlanReport"}}
            }
        },
        "types.PlannersResponse": {
            "type": "object",
            "properties": {
                "planners": {"type": "array", "items": {"type": "string"}},
                "default": {"type": "string", "example": "optimized-v1"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid manifest body"},
                "code": {"type": "integer", "example": 400}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "tensorpool API",
	Description:      "HTTP API for planning tensor memory layouts from graph manifests.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
