// Package docs holds the OpenAPI document served by the swagger UI.
package docs

import "github.com/swaggo/swag"

const docTemplateTracker = `{
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
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
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
                    "Health"
                ],
                "summary": "Health Check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "500": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/api/routes/": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Routes"
                ],
                "summary": "List routes",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.Route"
                            }
                        }
                    },
                    "500": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/api/routes/{route_id}/": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Routes"
                ],
                "summary": "Get route",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.Route"
                        }
                    },
                    "404": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "500": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Route ID",
                        "name": "route_id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/api/routes/{route_id}/buses/": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Routes"
                ],
                "summary": "Buses of a route",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.BusTracking"
                            }
                        }
                    },
                    "404": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "500": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Route ID",
                        "name": "route_id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/api/routes/{route_id}/stops/": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Routes"
                ],
                "summary": "Stops of a route",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.RouteStop"
                            }
                        }
                    },
                    "404": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "500": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Route ID",
                        "name": "route_id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/api/buses/": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Buses"
                ],
                "summary": "List buses",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.Bus"
                            }
                        }
                    },
                    "500": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Route ID",
                        "name": "route",
                        "in": "query",
                        "required": false
                    }
                ]
            }
        },
        "/api/buses/tracking/": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Buses"
                ],
                "summary": "Fleet tracking state",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.BusTracking"
                            }
                        }
                    },
                    "500": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Route ID",
                        "name": "route",
                        "in": "query",
                        "required": false
                    }
                ]
            }
        },
        "/api/buses/{bus_id}/": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Buses"
                ],
                "summary": "Get bus",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.Bus"
                        }
                    },
                    "404": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "500": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Bus ID",
                        "name": "bus_id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/api/buses/{bus_id}/locations/": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Buses"
                ],
                "summary": "Bus location history",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.PositionReport"
                            }
                        }
                    },
                    "404": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "500": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Bus ID",
                        "name": "bus_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "History window in hours (default 24)",
                        "name": "hours",
                        "in": "query",
                        "required": false
                    }
                ]
            }
        },
        "/api/locations/": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Locations"
                ],
                "summary": "List location reports",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.PositionReport"
                            }
                        }
                    },
                    "500": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Bus ID",
                        "name": "bus",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "History window in hours (default 24)",
                        "name": "hours",
                        "in": "query",
                        "required": false
                    }
                ]
            }
        },
        "/api/locations/latest/": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Locations"
                ],
                "summary": "Latest location per bus",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.LatestLocation"
                            }
                        }
                    },
                    "500": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/api/stops/": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Stops"
                ],
                "summary": "List stops",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.RouteStop"
                            }
                        }
                    },
                    "500": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Route ID",
                        "name": "route",
                        "in": "query",
                        "required": false
                    }
                ]
            }
        },
        "/api/gtfs-rt/vehicle-positions": {
            "get": {
                "produces": [
                    "application/x-protobuf",
                    "application/json"
                ],
                "tags": [
                    "Feeds"
                ],
                "summary": "GTFS-Realtime vehicle positions",
                "parameters": [
                    {
                        "type": "string",
                        "description": "json for a protojson body",
                        "name": "format",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ws/buses/": {
            "get": {
                "tags": [
                    "WebSocket"
                ],
                "summary": "Fleet live feed",
                "description": "WebSocket. Sends initial_data on connect, location_update on every stored report, buses_update on {\"type\":\"get_buses\"}.",
                "responses": {
                    "101": {
                        "description": "Switching Protocols"
                    }
                }
            }
        },
        "/ws/route/{route_id}/": {
            "get": {
                "tags": [
                    "WebSocket"
                ],
                "summary": "Route live feed",
                "description": "WebSocket. Same as the fleet feed restricted to buses on the route; refresh with {\"type\":\"get_route_buses\"}.",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Route ID",
                        "name": "route_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "101": {
                        "description": "Switching Protocols"
                    },
                    "404": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/api/buses/{bus_id}/update_location/": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Buses"
                ],
                "summary": "Report bus location",
                "description": "Stores a position report and pushes it to websocket subscribers of the fleet and of the bus route",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Bus ID",
                        "name": "bus_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Position report",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.LocationInput"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.PositionReport"
                        }
                    },
                    "400": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "404": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "500": {
                        "description": "error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "models.PositionReport": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "bus_id": {
                    "type": "integer"
                },
                "latitude": {
                    "type": "number"
                },
                "longitude": {
                    "type": "number"
                },
                "speed": {
                    "type": "number"
                },
                "heading": {
                    "type": "number"
                },
                "accuracy": {
                    "type": "number"
                },
                "timestamp": {
                    "type": "string",
                    "format": "date-time"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "models.LocationInput": {
            "type": "object",
            "required": [
                "latitude",
                "longitude"
            ],
            "properties": {
                "latitude": {
                    "type": "number"
                },
                "longitude": {
                    "type": "number"
                },
                "speed": {
                    "type": "number"
                },
                "heading": {
                    "type": "number"
                },
                "accuracy": {
                    "type": "number"
                },
                "timestamp": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "models.RouteStop": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "stop_name": {
                    "type": "string"
                },
                "latitude": {
                    "type": "number"
                },
                "longitude": {
                    "type": "number"
                },
                "stop_order": {
                    "type": "integer"
                },
                "estimated_time": {
                    "type": "string"
                },
                "is_active": {
                    "type": "boolean"
                }
            }
        },
        "models.Route": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "route_number": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "color": {
                    "type": "string"
                },
                "is_active": {
                    "type": "boolean"
                },
                "stops": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.RouteStop"
                    }
                },
                "buses_count": {
                    "type": "integer"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "models.Bus": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "bus_number": {
                    "type": "string"
                },
                "license_plate": {
                    "type": "string"
                },
                "route_id": {
                    "type": "integer"
                },
                "route": {
                    "$ref": "#/definitions/models.Route"
                },
                "driver_name": {
                    "type": "string"
                },
                "capacity": {
                    "type": "integer"
                },
                "is_active": {
                    "type": "boolean"
                },
                "current_location": {
                    "$ref": "#/definitions/models.PositionReport"
                },
                "recent_locations": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.PositionReport"
                    }
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "models.BusTracking": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "bus_number": {
                    "type": "string"
                },
                "route_number": {
                    "type": "string"
                },
                "route_color": {
                    "type": "string"
                },
                "current_location": {
                    "$ref": "#/definitions/models.PositionReport"
                }
            }
        },
        "models.BusInfo": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "bus_number": {
                    "type": "string"
                },
                "route_number": {
                    "type": "string"
                },
                "route_color": {
                    "type": "string"
                }
            }
        },
        "models.LatestLocation": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "bus_id": {
                    "type": "integer"
                },
                "latitude": {
                    "type": "number"
                },
                "longitude": {
                    "type": "number"
                },
                "speed": {
                    "type": "number"
                },
                "heading": {
                    "type": "number"
                },
                "accuracy": {
                    "type": "number"
                },
                "timestamp": {
                    "type": "string",
                    "format": "date-time"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "bus_info": {
                    "$ref": "#/definitions/models.BusInfo"
                }
            }
        }
    }
}`

// SwaggerInfoTracker holds exported Swagger Info so clients can modify it
var SwaggerInfoTracker = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Bus Tracker API",
	Description:      "Real-time bus location tracking. Buses report positions over HTTP; observers follow the fleet or a single route over WebSocket.",
	InfoInstanceName: "tracker",
	SwaggerTemplate:  docTemplateTracker,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfoTracker.InstanceName(), SwaggerInfoTracker)
}
