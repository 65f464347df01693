// Package docs registers the storefront OpenAPI document with swag so the
// Swagger UI under /swagger/ can serve it.
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
    "paths": {
        "/api/products": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List products",
                "parameters": [
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "number", "name": "min_price", "in": "query"},
                    {"type": "number", "name": "max_price", "in": "query"},
                    {"type": "number", "name": "min_rating", "in": "query"},
                    {"type": "string", "name": "color", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "boolean", "name": "in_stock_only", "in": "query"},
                    {"type": "string", "name": "sort_by", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/products/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get a product",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/cart": {
            "get": {
                "tags": ["Cart"],
                "summary": "Cart of the session",
                "parameters": [{"type": "string", "name": "X-Session-ID", "in": "header"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/cart/items": {
            "post": {
                "tags": ["Cart"],
                "summary": "Add a product to the cart",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/browse": {
            "get": {
                "tags": ["Browse"],
                "summary": "Product grid state",
                "parameters": [{"type": "boolean", "name": "wait", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/chat": {
            "post": {
                "tags": ["Assistant"],
                "summary": "Send a chat message to the stylist",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/api/assistant/reply": {
            "post": {
                "tags": ["Assistant"],
                "summary": "One-off styling answer",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/auth/login": {
            "post": {
                "tags": ["Account"],
                "summary": "Sign in",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/routes/authorize": {
            "get": {
                "tags": ["Account"],
                "summary": "Decide whether the session may open a route",
                "parameters": [{"type": "string", "name": "route", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/admin/stats": {
            "get": {
                "tags": ["Admin"],
                "summary": "Admin dashboard",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            }
        },
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Service and dependency health",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}
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
	Title:            "Lumina Storefront API",
	Description:      "Session-scoped storefront API: catalog, cart, browse, chat, account, profile and admin.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
