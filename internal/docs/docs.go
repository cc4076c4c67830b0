// Package docs holds the OpenAPI document served at /swagger, in the layout
// swag init emits. Keep it in step with the handler annotations; the server
// tests fail when a registered route is missing from it.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register/": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "Registration details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.RegisterResponse"}},
                    "400": {"description": "Invalid input or duplicate email", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/auth/login/": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in and obtain a token pair",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TokenPairResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/token/": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Obtain a token pair",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TokenPairResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/token/refresh/": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Rotate a refresh token",
                "parameters": [
                    {"description": "Refresh token", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TokenPairResponse"}},
                    "401": {"description": "Invalid or revoked refresh token", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/auth/profile/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Get the caller's profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.UserResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/auth/change-password/": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Change password",
                "parameters": [
                    {"description": "Current and new password", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ChangePasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.UserResponse"}},
                    "403": {"description": "Incorrect password", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/auth/change-username/": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Change username",
                "parameters": [
                    {"description": "Password and new username", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ChangeUsernameRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.UserResponse"}},
                    "403": {"description": "Incorrect password", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/records/create/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Create a record",
                "parameters": [
                    {"description": "Record details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateRecordRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.RecordResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "403": {"description": "Email does not match token", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/records/list/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "List the caller's records",
                "parameters": [
                    {"description": "Owner email", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ListRecordsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RecordListResponse"}},
                    "403": {"description": "Email does not match token", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/records/update/{id}/": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Update a record",
                "parameters": [
                    {"type": "integer", "description": "Record ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdateRecordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RecordResponse"}},
                    "404": {"description": "Record not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Update a record",
                "parameters": [
                    {"type": "integer", "description": "Record ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdateRecordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RecordResponse"}},
                    "404": {"description": "Record not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/records/delete/": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Delete a record",
                "parameters": [
                    {"description": "Record ID and owner email", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.DeleteRecordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "404": {"description": "Record not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/budgets/create/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["budgets"],
                "summary": "Create or replace the budget for a month",
                "parameters": [
                    {"description": "Budget details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateBudgetRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.UpsertBudgetResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/budgets/last-update/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["budgets"],
                "summary": "Most recently updated budget",
                "parameters": [
                    {"type": "string", "description": "Owner email address", "name": "email_address", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.BudgetResponse"}},
                    "404": {"description": "No budgets", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/budgets/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["budgets"],
                "summary": "List the caller's budgets",
                "parameters": [
                    {"description": "Email and password", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ListBudgetsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.BudgetListResponse"}},
                    "403": {"description": "Incorrect password", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/budgets/update/{id}/": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["budgets"],
                "summary": "Update a budget",
                "parameters": [
                    {"type": "integer", "description": "Budget ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdateBudgetRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.BudgetResponse"}},
                    "404": {"description": "Budget not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Period already budgeted", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/budgets/delete/": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["budgets"],
                "summary": "Delete a budget",
                "parameters": [
                    {"description": "Budget ID, email and password", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.DeleteBudgetRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "404": {"description": "Budget not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/records/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "List records (paginated)",
                "parameters": [
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Items per page (default 20, max 100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Paginated records", "schema": {"$ref": "#/definitions/pagination.PageResponse-models_Record"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Create a record",
                "parameters": [
                    {"description": "Record details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.RecordFields"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Record"}}
                }
            }
        },
        "/api/records/{id}/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Get a record",
                "parameters": [
                    {"type": "integer", "description": "Record ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Record"}},
                    "404": {"description": "Record not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Update a record",
                "parameters": [
                    {"type": "integer", "description": "Record ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.RecordPatchFields"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Record"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Update a record",
                "parameters": [
                    {"type": "integer", "description": "Record ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.RecordPatchFields"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Record"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Delete a record",
                "parameters": [
                    {"type": "integer", "description": "Record ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}}
                }
            }
        },
        "/api/budgets/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["budgets"],
                "summary": "List budgets (paginated)",
                "parameters": [
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Items per page (default 20, max 100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Paginated budgets", "schema": {"$ref": "#/definitions/pagination.PageResponse-models_Budget"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["budgets"],
                "summary": "Create a budget",
                "parameters": [
                    {"description": "Budget details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.BudgetFields"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Budget"}},
                    "409": {"description": "Period already budgeted", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/budgets/{id}/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["budgets"],
                "summary": "Get a budget",
                "parameters": [
                    {"type": "integer", "description": "Budget ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Budget"}},
                    "404": {"description": "Budget not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["budgets"],
                "summary": "Update a budget",
                "parameters": [
                    {"type": "integer", "description": "Budget ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.BudgetPatchFields"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Budget"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["budgets"],
                "summary": "Update a budget",
                "parameters": [
                    {"type": "integer", "description": "Budget ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.BudgetPatchFields"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Budget"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["budgets"],
                "summary": "Delete a budget",
                "parameters": [
                    {"type": "integer", "description": "Budget ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handlers.ErrorDetail"}
            }
        },
        "handlers.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "handlers.RegisterRequest": {
            "type": "object",
            "required": ["email_address", "password"],
            "properties": {
                "email_address": {"type": "string"},
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handlers.LoginRequest": {
            "type": "object",
            "required": ["email_address", "password"],
            "properties": {
                "email_address": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handlers.RefreshRequest": {
            "type": "object",
            "required": ["refresh"],
            "properties": {
                "refresh": {"type": "string"}
            }
        },
        "handlers.ChangePasswordRequest": {
            "type": "object",
            "required": ["email_address", "password", "newPassword"],
            "properties": {
                "email_address": {"type": "string"},
                "password": {"type": "string"},
                "newPassword": {"type": "string"}
            }
        },
        "handlers.ChangeUsernameRequest": {
            "type": "object",
            "required": ["email_address", "password", "newUsername"],
            "properties": {
                "email_address": {"type": "string"},
                "password": {"type": "string"},
                "newUsername": {"type": "string"}
            }
        },
        "handlers.UserResponse": {
            "type": "object",
            "properties": {
                "email_address": {"type": "string"},
                "username": {"type": "string"},
                "is_active": {"type": "boolean"},
                "is_staff": {"type": "boolean"}
            }
        },
        "handlers.RegisterResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/handlers.UserResponse"}
            }
        },
        "handlers.TokenPairResponse": {
            "type": "object",
            "properties": {
                "refresh": {"type": "string"},
                "access": {"type": "string"},
                "user": {"$ref": "#/definitions/handlers.UserResponse"}
            }
        },
        "handlers.RecordFields": {
            "type": "object",
            "required": ["recordType", "category", "note", "amount", "time", "date"],
            "properties": {
                "recordType": {"type": "string"},
                "category": {"type": "string"},
                "note": {"type": "string"},
                "amount": {"type": "string", "example": "12.50"},
                "time": {"type": "string", "example": "12:00"},
                "date": {"type": "string", "example": "2024-01-01"}
            }
        },
        "handlers.RecordPatchFields": {
            "type": "object",
            "properties": {
                "recordType": {"type": "string"},
                "category": {"type": "string"},
                "note": {"type": "string"},
                "amount": {"type": "string"},
                "time": {"type": "string"},
                "date": {"type": "string"}
            }
        },
        "handlers.CreateRecordRequest": {
            "allOf": [
                {"$ref": "#/definitions/handlers.RecordFields"},
                {"type": "object", "required": ["email_address"], "properties": {"email_address": {"type": "string"}}}
            ]
        },
        "handlers.UpdateRecordRequest": {
            "allOf": [
                {"$ref": "#/definitions/handlers.RecordPatchFields"},
                {"type": "object", "required": ["email_address"], "properties": {"email_address": {"type": "string"}}}
            ]
        },
        "handlers.ListRecordsRequest": {
            "type": "object",
            "required": ["email_address"],
            "properties": {
                "email_address": {"type": "string"}
            }
        },
        "handlers.DeleteRecordRequest": {
            "type": "object",
            "required": ["id", "email_address"],
            "properties": {
                "id": {"type": "integer"},
                "email_address": {"type": "string"}
            }
        },
        "handlers.RecordResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "record": {"$ref": "#/definitions/models.Record"}
            }
        },
        "handlers.RecordListResponse": {
            "type": "object",
            "properties": {
                "records": {"type": "array", "items": {"$ref": "#/definitions/models.Record"}}
            }
        },
        "handlers.BudgetFields": {
            "type": "object",
            "required": ["budget", "month", "year"],
            "properties": {
                "budget": {"type": "string", "example": "100.00"},
                "month": {"type": "string", "example": "January"},
                "year": {"type": "string", "example": "2024"}
            }
        },
        "handlers.BudgetPatchFields": {
            "type": "object",
            "properties": {
                "budget": {"type": "string"},
                "month": {"type": "string"},
                "year": {"type": "string"}
            }
        },
        "handlers.CreateBudgetRequest": {
            "allOf": [
                {"$ref": "#/definitions/handlers.BudgetFields"},
                {"type": "object", "required": ["email_address"], "properties": {"email_address": {"type": "string"}}}
            ]
        },
        "handlers.ListBudgetsRequest": {
            "type": "object",
            "required": ["email_address", "password"],
            "properties": {
                "email_address": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handlers.UpdateBudgetRequest": {
            "allOf": [
                {"$ref": "#/definitions/handlers.BudgetPatchFields"},
                {"type": "object", "required": ["email_address", "password"], "properties": {"email_address": {"type": "string"}, "password": {"type": "string"}}}
            ]
        },
        "handlers.DeleteBudgetRequest": {
            "type": "object",
            "required": ["id", "email_address", "password"],
            "properties": {
                "id": {"type": "integer"},
                "email_address": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handlers.UpsertBudgetResponse": {
            "type": "object",
            "properties": {
                "budget": {"$ref": "#/definitions/models.Budget"},
                "created": {"type": "boolean"}
            }
        },
        "handlers.BudgetResponse": {
            "type": "object",
            "properties": {
                "budget": {"$ref": "#/definitions/models.Budget"}
            }
        },
        "handlers.BudgetListResponse": {
            "type": "object",
            "properties": {
                "budgets": {"type": "array", "items": {"$ref": "#/definitions/models.Budget"}}
            }
        },
        "models.Record": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "recordType": {"type": "string"},
                "category": {"type": "string"},
                "note": {"type": "string"},
                "amount": {"type": "string", "example": "12.50"},
                "time": {"type": "string", "example": "12:00:00"},
                "date": {"type": "string", "example": "2024-01-01"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "models.Budget": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "budget": {"type": "string", "example": "100.00"},
                "month": {"type": "string", "example": "January"},
                "year": {"type": "string", "example": "2024"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "pagination.PageResponse-models_Record": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/models.Record"}},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_items": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "pagination.PageResponse-models_Budget": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/models.Budget"}},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_items": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Spendwise API",
	Description:      "Spendwise is a personal finance tracker: income and expense records plus monthly budgets.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
