// Package docs - описание API для swagger UI (формат swag)
package docs

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
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "BotSecret": {"type": "apiKey", "name": "X-Bot-Secret", "in": "header"}
    },
    "paths": {
        "/auth/telegram": {
            "get": {
                "tags": ["auth"],
                "summary": "Telegram Login Widget",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "query", "required": true},
                    {"type": "integer", "name": "auth_date", "in": "query", "required": true},
                    {"type": "string", "name": "hash", "in": "query", "required": true},
                    {"type": "boolean", "name": "redirect", "in": "query"}
                ],
                "responses": {"200": {"description": "JWT", "schema": {"$ref": "#/definitions/dto.AuthResponse"}}, "302": {"description": "Redirect to frontend"}, "401": {"description": "Invalid login data"}}
            }
        },
        "/auth/me": {
            "get": {"tags": ["auth"], "summary": "Current creator", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/users/": {
            "post": {"tags": ["users"], "summary": "Register creator", "security": [{"BotSecret": []}], "responses": {"200": {"description": "Existing"}, "201": {"description": "Created"}}}
        },
        "/projects/": {
            "get": {"tags": ["projects"], "summary": "Own projects", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["projects"], "summary": "Create project", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/projects/{id}": {
            "get": {"tags": ["projects"], "summary": "Project by id", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/projects/{id}/connect-link": {
            "get": {"tags": ["projects"], "summary": "Channel connect deep link", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["projects"], "summary": "Regenerate connection code", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/projects/connect-channel": {
            "post": {"tags": ["projects"], "summary": "Connect channel by code", "security": [{"BotSecret": []}], "responses": {"200": {"description": "OK"}, "409": {"description": "Already connected"}}}
        },
        "/plans/project/{project_id}": {
            "get": {"tags": ["plans"], "summary": "Active plans of a project", "parameters": [{"type": "integer", "name": "project_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/plans/": {
            "post": {"tags": ["plans"], "summary": "Create plan", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/subscriptions/from-plan": {
            "post": {"tags": ["subscriptions"], "summary": "Grant a free plan", "security": [{"BotSecret": []}], "responses": {"201": {"description": "Created"}, "402": {"description": "Paid plan"}}}
        },
        "/subscriptions/active": {
            "get": {"tags": ["subscriptions"], "summary": "Active subscription", "parameters": [{"type": "integer", "name": "telegram_id", "in": "query", "required": true}, {"type": "integer", "name": "project_id", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/payments/checkout": {
            "post": {"tags": ["payments"], "summary": "Create Stripe Checkout Session", "security": [{"BotSecret": []}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.CheckoutResponse"}}, "502": {"description": "Provider error"}}}
        },
        "/payments/stripe/webhook": {
            "post": {"tags": ["payments"], "summary": "Stripe webhook", "parameters": [{"type": "string", "name": "Stripe-Signature", "in": "header", "required": true}], "responses": {"200": {"description": "processed | already_processed | ignored"}, "400": {"description": "Invalid signature"}, "404": {"description": "Unknown session"}}}
        },
        "/payments/me/summary": {
            "get": {"tags": ["payments"], "summary": "Balance summary", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/payments/me/payout-settings": {
            "post": {"tags": ["payments"], "summary": "Set payout method", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/payments/me/payout-request": {
            "post": {"tags": ["payments"], "summary": "Request payout of the whole balance", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "Below minimum or no payout settings"}}}
        },
        "/admin/payouts/{id}/status": {
            "put": {"tags": ["admin"], "summary": "Change payout status", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Transition not allowed"}}}
        }
    },
    "definitions": {
        "dto.AuthResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string"},
                "expires_in": {"type": "integer"}
            }
        },
        "dto.CheckoutResponse": {
            "type": "object",
            "properties": {
                "payment_id": {"type": "integer"},
                "session_id": {"type": "string"},
                "checkout_url": {"type": "string"},
                "amount_cents": {"type": "integer"},
                "currency": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Fanstero API",
	Description:      "Paid Telegram channel subscriptions: projects, plans, Stripe checkout, creator payouts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
