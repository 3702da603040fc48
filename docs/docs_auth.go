// Package docs holds the OpenAPI description served under /swagger/.
// Regenerate with: swag init -g docs/swagger_auth.go --instanceName auth
package docs

import "github.com/swaggo/swag"

const docTemplateauth = `{
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
    "paths": {
        "/register": {
            "post": {
                "description": "Creates a password account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a user",
                "parameters": [
                    {"description": "New user", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RegisterUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.MessageResponse"}},
                    "400": {"description": "username taken or malformed body", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "422": {"description": "validation failed", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "description": "Issues a bearer token. Accepts an OAuth2 password form or a JSON body.",
                "consumes": ["application/x-www-form-urlencoded", "application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Password login",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TokenResponse"}},
                    "400": {"description": "invalid username or password", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "422": {"description": "validation failed", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the username the bearer token was issued to",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/auth/provider/login": {
            "get": {
                "description": "Returns the identity provider URL the browser must be sent to",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Start Google login",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AuthorizationURLResponse"}},
                    "503": {"description": "federated login is not configured", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/auth/provider/callback": {
            "get": {
                "description": "Exchanges the authorization code and issues a bearer token",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Complete Google login",
                "parameters": [
                    {"type": "string", "description": "Authorization code", "name": "code", "in": "query", "required": true},
                    {"type": "string", "description": "State returned by /auth/provider/login", "name": "state", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TokenResponse"}},
                    "400": {"description": "missing code or invalid state", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "identity provider exchange failed", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "federated login is not configured", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/favorites": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["favorites"],
                "summary": "List favorite books",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.FavoritesResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "user not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/favorites/add": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["favorites"],
                "summary": "Add a favorite book",
                "parameters": [
                    {"description": "Book title", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.FavoriteBookRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "user not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "book is already in favorites", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/favorites/delete": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["favorites"],
                "summary": "Remove a favorite book",
                "parameters": [
                    {"description": "Book title", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.FavoriteBookRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "user not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/ws/favorites": {
            "get": {
                "description": "WebSocket. Send {\"type\":\"auth\",\"token\":\"<bearer>\"} first, then receive {\"type\":\"favorites.updated\",\"favorites\":[...]} after every change.",
                "tags": ["favorites"],
                "summary": "Live favorites feed",
                "responses": {}
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "dto.RegisterUserRequest": {
            "type": "object",
            "required": ["name", "password", "username"],
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "password": {"type": "string", "maxLength": 72, "minLength": 8},
                "username": {"type": "string", "maxLength": 64, "minLength": 3}
            }
        },
        "dto.FavoriteBookRequest": {
            "type": "object",
            "required": ["book"],
            "properties": {"book": {"type": "string", "maxLength": 500}}
        },
        "dto.FavoritesResponse": {
            "type": "object",
            "properties": {"favorites": {"type": "array", "items": {"type": "string"}}}
        },
        "dto.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "expires_in": {"type": "integer"},
                "token_type": {"type": "string"}
            }
        },
        "dto.AuthorizationURLResponse": {
            "type": "object",
            "properties": {"authorization_url": {"type": "string"}}
        },
        "dto.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {"error": {}}
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

// SwaggerInfoauth holds exported Swagger Info so clients can modify it
var SwaggerInfoauth = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Bookshelf Auth API",
	Description:      "Registration, password and Google login, and per-user favorite books. Bearer JWTs are issued on login.",
	InfoInstanceName: "auth",
	SwaggerTemplate:  docTemplateauth,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfoauth.InstanceName(), SwaggerInfoauth)
}
