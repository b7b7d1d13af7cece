package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Teaching Load API",
        "description": "Instructor workload capacity and course assignment engine",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http"],
    "securityDefinitions": {"BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}},
    "tags": [
        {"name": "Assignments", "description": "Manual, bulk and automatic instructor assignment"},
        {"name": "Courses", "description": "Course lifecycle transitions"},
        {"name": "Instructors", "description": "Workload capacity"},
        {"name": "Preferences", "description": "Ranked course preferences"},
        {"name": "Complaints", "description": "Complaints against sub-assignments"},
        {"name": "Observability", "description": "Engine counters"}
    ],
    "paths": {
        "/assignments": {
            "post": {
                "summary": "Assign one instructor to a course section",
                "tags": ["Assignments"],
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ManualAssignmentRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/assignments/auto": {
            "post": {
                "summary": "Automatically staff courses for the regular program",
                "tags": ["Assignments"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {"$ref": "#/definitions/AutoAssignmentRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/assignments/auto/common": {
            "post": {
                "summary": "Automatically staff common courses",
                "tags": ["Assignments"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {"$ref": "#/definitions/AutoAssignmentRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/assignments/auto/extension": {
            "post": {
                "summary": "Automatically staff extension courses",
                "tags": ["Assignments"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {"$ref": "#/definitions/AutoAssignmentRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/assignments/auto/summer": {
            "post": {
                "summary": "Automatically staff summer courses",
                "tags": ["Assignments"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {"$ref": "#/definitions/AutoAssignmentRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/assignments/common/manual": {
            "post": {
                "summary": "Bulk manual assignment for common courses",
                "tags": ["Assignments"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {"$ref": "#/definitions/BulkAssignmentRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/assignments/extension/manual": {
            "post": {
                "summary": "Bulk manual assignment for extension courses",
                "tags": ["Assignments"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {"$ref": "#/definitions/BulkAssignmentRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/assignments/automatic": {
            "get": {
                "summary": "List aggregates with nested sub-assignments for a period",
                "tags": ["Assignments"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"in": "query", "name": "year", "type": "string", "required": true},
                    {"in": "query", "name": "semester", "type": "string", "required": false},
                    {"in": "query", "name": "program", "type": "string", "required": true},
                    {"in": "query", "name": "assignedBy", "type": "string", "required": false}
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/assignments/sub/{parentId}/{subId}": {
            "put": {
                "summary": "Edit one sub-assignment",
                "tags": ["Assignments"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"in": "path", "name": "parentId", "type": "string", "required": true, "description": ""},
                    {"in": "path", "name": "subId", "type": "string", "required": true, "description": ""},
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateSubAssignmentRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "summary": "Delete one sub-assignment",
                "tags": ["Assignments"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"in": "path", "name": "parentId", "type": "string", "required": true, "description": ""},
                    {"in": "path", "name": "subId", "type": "string", "required": true, "description": ""}
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/assignments/get/{instructorId}": {
            "get": {
                "summary": "List an instructor's sub-assignments",
                "tags": ["Assignments"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [{"in": "path", "name": "instructorId", "type": "string", "required": true, "description": ""}],
                "security": [{"BearerAuth": []}]
            }
        },
        "/assignments/chair/{chairId}": {
            "get": {
                "summary": "List sub-assignments on a chair's courses",
                "tags": ["Assignments"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [{"in": "path", "name": "chairId", "type": "string", "required": true, "description": ""}],
                "security": [{"BearerAuth": []}]
            }
        },
        "/courses/bulk-update": {
            "post": {
                "summary": "Move courses to updates.status",
                "tags": ["Courses"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CourseTransitionRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/courses/assign": {
            "post": {
                "summary": "Publish courses to their chairs",
                "tags": ["Courses"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CourseTransitionRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/courses/unassign": {
            "post": {
                "summary": "Return courses to draft",
                "tags": ["Courses"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CourseTransitionRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/instructors/{id}/capacity": {
            "get": {
                "summary": "Workload capacity and commitments of an instructor",
                "tags": ["Instructors"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true, "description": ""},
                    {"in": "query", "name": "year", "type": "string", "required": true},
                    {"in": "query", "name": "semester", "type": "string", "required": false},
                    {"in": "query", "name": "program", "type": "string", "required": true}
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/preferences": {
            "post": {
                "summary": "Submit ranked course preferences",
                "tags": ["Preferences"],
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {"$ref": "#/definitions/SubmitPreferenceRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/preferences/{instructorId}": {
            "get": {
                "summary": "Get an instructor's preferences for a period",
                "tags": ["Preferences"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"in": "path", "name": "instructorId", "type": "string", "required": true, "description": ""},
                    {"in": "query", "name": "year", "type": "string", "required": true},
                    {"in": "query", "name": "semester", "type": "string", "required": false},
                    {"in": "query", "name": "program", "type": "string", "required": true}
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/preferences/{id}": {
            "delete": {
                "summary": "Delete a preference set",
                "tags": ["Preferences"],
                "produces": ["application/json"],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true, "description": ""}],
                "security": [{"BearerAuth": []}]
            }
        },
        "/complaints": {
            "post": {
                "summary": "File a complaint against a sub-assignment",
                "tags": ["Complaints"],
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateComplaintRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            },
            "get": {
                "summary": "List complaints",
                "tags": ["Complaints"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"in": "query", "name": "status", "type": "string", "required": false},
                    {"in": "query", "name": "assignmentId", "type": "string", "required": false},
                    {"in": "query", "name": "page", "type": "string", "required": false},
                    {"in": "query", "name": "pageSize", "type": "string", "required": false}
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/complaints/{id}": {
            "patch": {
                "summary": "Resolve or reject a complaint",
                "tags": ["Complaints"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true, "description": ""},
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ResolveComplaintRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/metrics/summary": {
            "get": {
                "summary": "Engine counters as JSON",
                "tags": ["Observability"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        }
    },
    "definitions": {
        "ManualAssignmentRequest": {
            "type": "object",
            "required": ["instructorId", "courseId", "year", "program", "section", "assignedBy"],
            "properties": {
                "instructorId": {"type": "string"},
                "courseId": {"type": "string"},
                "year": {"type": "string"},
                "semester": {"type": "string"},
                "program": {"type": "string", "enum": ["Regular", "Common", "Extension", "Summer"]},
                "section": {"type": "string"},
                "labDivision": {"type": "string", "enum": ["Yes", "No"]},
                "workload": {"type": "number"},
                "assignedBy": {"type": "string"}
            }
        },
        "AutoCourseRequest": {
            "type": "object",
            "required": ["courseId"],
            "properties": {
                "courseId": {"type": "string"},
                "section": {"type": "string"},
                "sections": {"type": "array", "items": {"type": "string"}},
                "labDivision": {"type": "string", "enum": ["Yes", "No"]}
            }
        },
        "AutoAssignmentRequest": {
            "type": "object",
            "required": ["year", "assignedBy", "instructors", "courses"],
            "properties": {
                "year": {"type": "string"},
                "semester": {"type": "string"},
                "assignedBy": {"type": "string"},
                "instructors": {"type": "array", "items": {"type": "string"}},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/AutoCourseRequest"}}
            }
        },
        "BulkAssignmentRow": {
            "type": "object",
            "required": ["instructorId", "courseId", "section"],
            "properties": {
                "instructorId": {"type": "string"},
                "courseId": {"type": "string"},
                "section": {"type": "string"},
                "labDivision": {"type": "string", "enum": ["Yes", "No"]}
            }
        },
        "BulkAssignmentRequest": {
            "type": "object",
            "required": ["assignments", "year", "assignedBy"],
            "properties": {
                "assignments": {"type": "array", "items": {"$ref": "#/definitions/BulkAssignmentRow"}},
                "year": {"type": "string"},
                "semester": {"type": "string"},
                "program": {"type": "string"},
                "assignedBy": {"type": "string"}
            }
        },
        "UpdateSubAssignmentRequest": {
            "type": "object",
            "properties": {
                "instructorId": {"type": "string"},
                "courseId": {"type": "string"},
                "section": {"type": "string"},
                "labDivision": {"type": "string", "enum": ["Yes", "No"]}
            }
        },
        "CourseTransitionRequest": {
            "type": "object",
            "required": ["courseIds"],
            "properties": {
                "courseIds": {"type": "array", "items": {"type": "string"}},
                "updates": {
                    "type": "object",
                    "properties": {
                        "status": {"type": "string", "enum": ["draft", "assigned", "active", "completed", "archived"]},
                        "assignedTo": {"type": "string"}
                    }
                },
                "actionBy": {"type": "string"}
            }
        },
        "PreferenceItemRequest": {
            "type": "object",
            "required": ["courseId", "rank"],
            "properties": {"courseId": {"type": "string"}, "rank": {"type": "integer", "minimum": 1}}
        },
        "SubmitPreferenceRequest": {
            "type": "object",
            "required": ["instructorId", "year", "program", "items"],
            "properties": {
                "instructorId": {"type": "string"},
                "year": {"type": "string"},
                "semester": {"type": "string"},
                "program": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/PreferenceItemRequest"}}
            }
        },
        "CreateComplaintRequest": {
            "type": "object",
            "required": ["assignmentId", "subAssignmentId", "reason"],
            "properties": {"assignmentId": {"type": "string"}, "subAssignmentId": {"type": "string"}, "reason": {"type": "string"}}
        },
        "ResolveComplaintRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {"status": {"type": "string", "enum": ["Resolved", "Rejected"]}}
        },
        "Pagination": {
            "type": "object",
            "properties": {"page": {"type": "integer"}, "page_size": {"type": "integer"}, "total_count": {"type": "integer"}}
        },
        "APIError": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "status": {"type": "integer"}}
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
