// Package docs registers the Swagger document served at /swagger/.
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
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/signup": {"post": {"tags": ["users"], "summary": "Register a user", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}},
        "/login": {"post": {"tags": ["users"], "summary": "Log in and receive a JWT", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/me": {"get": {"tags": ["users"], "summary": "Current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/makers": {
            "get": {"tags": ["catalog"], "summary": "List makers with models", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["catalog"], "summary": "Create a maker", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/makers/{makerID}": {"get": {"tags": ["catalog"], "summary": "Get a maker", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/makers/{makerID}/models": {
            "get": {"tags": ["catalog"], "summary": "List models with trims", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["catalog"], "summary": "Add a model to a maker", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/models/{makerName}/{modelName}": {"get": {"tags": ["catalog"], "summary": "Get a model by names", "responses": {"200": {"description": "OK"}}}},
        "/admin/catalog/import": {"post": {"tags": ["admin"], "summary": "Bulk import makers, models and trims", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/admin/users/bulk": {"post": {"tags": ["admin"], "summary": "Bulk register users", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/admin/users": {"get": {"tags": ["admin"], "summary": "List users", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/locations": {
            "get": {"tags": ["admin"], "summary": "List locations", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["admin"], "summary": "Create a location", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/admin/cache/stats": {"get": {"tags": ["admin"], "summary": "Cache statistics", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/cache": {"delete": {"tags": ["admin"], "summary": "Clear cache entries", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/offers": {"post": {"tags": ["offers"], "summary": "Create an offer with images", "consumes": ["multipart/form-data"], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/offers/top": {"get": {"tags": ["offers"], "summary": "Latest offers", "responses": {"200": {"description": "OK"}}}},
        "/offers/search": {"get": {"tags": ["offers"], "summary": "Search offers", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/offers/{offerID}": {
            "get": {"tags": ["offers"], "summary": "Get an offer", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["offers"], "summary": "Delete an offer", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/media/{mediaID}": {
            "get": {"tags": ["media"], "summary": "Download media", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["media"], "summary": "Delete media", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Autohouse API",
	Description:      "Vehicle marketplace backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
