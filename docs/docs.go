// Package docs documento OpenAPI de la API; docTemplate y swagger.json se mantienen a mano y docs_test.go verifica que coincidan.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "health"
                ],
                "summary": "Liveness",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.HealthResponse"
                        }
                    }
                }
            }
        },
        "/validate-json": {
            "post": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "validation"
                ],
                "summary": "Validar un arreglo JSON de facturas",
                "parameters": [
                    {
                        "description": "facturas en el orden en que deben validarse",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/entity.Invoice"
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/entity.Report"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/runs/{id}": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "validation"
                ],
                "summary": "Obtener una corrida de validación persistida",
                "parameters": [
                    {
                        "type": "string",
                        "description": "id de la corrida (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/entity.ValidationRun"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/runs/{id}/pdf": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "produces": [
                    "application/pdf"
                ],
                "tags": [
                    "validation"
                ],
                "summary": "Informe de una corrida en PDF",
                "parameters": [
                    {
                        "type": "string",
                        "description": "id de la corrida (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/runs/{id}/xlsx": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ],
                "tags": [
                    "validation"
                ],
                "summary": "Informe de una corrida en XLSX",
                "parameters": [
                    {
                        "type": "string",
                        "description": "id de la corrida (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                }
            }
        },
        "entity.LineItem": {
            "type": "object",
            "properties": {
                "description": {
                    "type": "string"
                },
                "quantity": {
                    "type": "number"
                },
                "unit_price": {
                    "type": "number"
                },
                "line_total": {
                    "type": "number"
                }
            }
        },
        "entity.Invoice": {
            "type": "object",
            "properties": {
                "invoice_number": {
                    "type": "string"
                },
                "invoice_date": {
                    "type": "string",
                    "example": "2024-01-10"
                },
                "due_date": {
                    "type": "string",
                    "example": "2024-02-09"
                },
                "seller_name": {
                    "type": "string"
                },
                "seller_address": {
                    "type": "string"
                },
                "seller_tax_id": {
                    "type": "string"
                },
                "buyer_name": {
                    "type": "string"
                },
                "buyer_address": {
                    "type": "string"
                },
                "buyer_tax_id": {
                    "type": "string"
                },
                "currency": {
                    "type": "string",
                    "example": "INR"
                },
                "net_total": {
                    "type": "number"
                },
                "tax_amount": {
                    "type": "number"
                },
                "gross_total": {
                    "type": "number"
                },
                "payment_terms": {
                    "type": "string"
                },
                "line_items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/entity.LineItem"
                    }
                }
            }
        },
        "entity.ValidationResult": {
            "type": "object",
            "properties": {
                "invoice_id": {
                    "type": "string"
                },
                "is_valid": {
                    "type": "boolean"
                },
                "errors": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "entity.ValidationSummary": {
            "type": "object",
            "properties": {
                "total_invoices": {
                    "type": "integer"
                },
                "valid_invoices": {
                    "type": "integer"
                },
                "invalid_invoices": {
                    "type": "integer"
                },
                "error_counts": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                }
            }
        },
        "entity.Report": {
            "type": "object",
            "properties": {
                "summary": {
                    "$ref": "#/definitions/entity.ValidationSummary"
                },
                "results": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/entity.ValidationResult"
                    }
                }
            }
        },
        "entity.ValidationRun": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "source": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "report": {
                    "$ref": "#/definitions/entity.Report"
                }
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Bearer <token> (CLI: invoice-qc token)",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Invoice QC API",
	Description:      "Extracción y validación de facturas a partir de texto.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
