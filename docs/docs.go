// Package docs holds the OpenAPI description served under /swagger.
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
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Create an account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/credentials"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange credentials for a bearer token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/credentials"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/food-logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["food-logs"],
                "summary": "Entries of one calendar day",
                "parameters": [{"type": "string", "description": "YYYY-MM-DD, defaults to today", "name": "date", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["food-logs"],
                "summary": "Log a food entry",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/foodLog"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/food-logs/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["food-logs"],
                "summary": "One entry",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["food-logs"],
                "summary": "Update weight, meal or time of an entry",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Version conflict"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["food-logs"],
                "summary": "Delete an entry",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/products": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["catalog"],
                "summary": "Create a product with its nutrients per 100 g",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/recipes": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["catalog"],
                "summary": "Create a recipe from catalog products",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Stored profile, empty when never saved",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Replace the profile",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/profile/metrics": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "BMI, BMR, TDEE and recommended calories of the stored profile",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/analytics/daily": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["analytics"],
                "summary": "Totals, goal progress and overall status for one day",
                "parameters": [{"type": "string", "name": "date", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/analytics/trends": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["analytics"],
                "summary": "Trend analysis over the last days",
                "parameters": [
                    {"type": "integer", "name": "days", "in": "query"},
                    {"type": "string", "name": "end_date", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid window"}}
            }
        },
        "/analytics/recommendations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["analytics"],
                "summary": "Ordered recommendations for the current day and window",
                "parameters": [
                    {"type": "integer", "name": "days", "in": "query"},
                    {"type": "string", "name": "end_date", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/recommendationsResponse"}},
                    "400": {"description": "Invalid window"}
                }
            }
        },
        "/analytics/body-metrics": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Body metrics for ad-hoc values",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/bodyMetricsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Invalid gender, activity level or fitness goal"}
                }
            }
        }
    },
    "definitions": {
        "recommendationsResponse": {
            "type": "object",
            "properties": {"recommendations": {"type": "array", "items": {"type": "string"}}}
        },
        "bodyMetricsRequest": {
            "type": "object",
            "properties": {
                "heightCm": {"type": "number"},
                "weightKg": {"type": "number"},
                "age": {"type": "integer"},
                "gender": {"type": "string", "enum": ["male", "female", "other"]},
                "activityLevel": {"type": "string"},
                "fitnessGoal": {"type": "string"}
            }
        },
        "credentials": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "foodLog": {
            "type": "object",
            "required": ["mealType", "weightGrams"],
            "properties": {
                "productId": {"type": "string"},
                "recipeId": {"type": "string"},
                "weightGrams": {"type": "number"},
                "mealType": {"type": "string", "enum": ["Breakfast", "Lunch", "Dinner", "Snack"]},
                "consumedAt": {"type": "string", "format": "date-time"}
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
	Title:            "Kanso Nutrition API",
	Description:      "Food logging, daily analysis, trends and recommendations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
