package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Allocation API",
        "description": "Student course enrollment requests, lecturer decisions and seat capacity.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Student Allocations", "description": "Enrollment requests and drops by the signed-in student"},
        {"name": "Lecturer Allocations", "description": "Review of requests on the lecturer's courses"},
        {"name": "Allocations", "description": "Staff lookups"},
        {"name": "System", "description": "Probes"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["System"],
                "summary": "Readiness probe, checks the database",
                "responses": {
                    "200": {"description": "Ready", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Database unreachable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/courses/enroll": {
            "post": {
                "tags": ["Student Allocations"],
                "summary": "Request a seat in a course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/AllocationEnvelope"}},
                    "400": {"description": "Not eligible", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/courses/{courseId}/drop": {
            "post": {
                "tags": ["Student Allocations"],
                "summary": "Drop an approved course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AllocationEnvelope"}},
                    "400": {"description": "Allocation is not approved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No allocation for course", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/allocations": {
            "get": {
                "tags": ["Student Allocations"],
                "summary": "List the caller's enrollment requests",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/status"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AllocationListEnvelope"}}
                }
            }
        },
        "/student/courses/enrolled": {
            "get": {
                "tags": ["Student Allocations"],
                "summary": "List the caller's approved courses",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AllocationListEnvelope"}}
                }
            }
        },
        "/student/courses/eligible": {
            "get": {
                "tags": ["Student Allocations"],
                "summary": "List courses the caller may request",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CourseListEnvelope"}}
                }
            }
        },
        "/lecturer/enrollment-requests": {
            "get": {
                "tags": ["Lecturer Allocations"],
                "summary": "List enrollment requests on the caller's courses",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/status"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AllocationListEnvelope"}}
                }
            }
        },
        "/lecturer/enrollment-requests/pending": {
            "get": {
                "tags": ["Lecturer Allocations"],
                "summary": "List requests awaiting the caller's decision",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AllocationListEnvelope"}}
                }
            }
        },
        "/lecturer/enrollment-requests/{id}/decision": {
            "post": {
                "tags": ["Lecturer Allocations"],
                "summary": "Approve or deny an enrollment request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AllocationEnvelope"}},
                    "400": {"description": "Invalid decision, already processed or capacity exceeded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Allocation not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Course busy, retry", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lecturer/courses/{courseId}/allocations": {
            "get": {
                "tags": ["Lecturer Allocations"],
                "summary": "List enrollment requests for a course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"},
                    {"$ref": "#/parameters/status"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AllocationListEnvelope"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lecturer/courses/{courseId}/capacity": {
            "get": {
                "tags": ["Lecturer Allocations"],
                "summary": "Show seat usage for a course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CapacityEnvelope"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{courseId}/allocations": {
            "get": {
                "tags": ["Allocations"],
                "summary": "List enrollment requests for a course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"},
                    {"$ref": "#/parameters/status"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AllocationListEnvelope"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/allocations/{id}": {
            "get": {
                "tags": ["Allocations"],
                "summary": "Get an allocation",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AllocationEnvelope"}},
                    "404": {"description": "Allocation not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "parameters": {
        "status": {
            "name": "status",
            "in": "query",
            "type": "string",
            "enum": ["PENDING", "APPROVED", "DENIED", "DROPPED"]
        }
    },
    "definitions": {
        "EnrollRequest": {
            "type": "object",
            "required": ["courseId"],
            "properties": {
                "courseId": {"type": "string"},
                "comment": {"type": "string", "maxLength": 500}
            }
        },
        "DecisionRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["APPROVED", "DENIED"]},
                "comment": {"type": "string", "maxLength": 500}
            }
        },
        "AllocationDetail": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "student_id": {"type": "string"},
                "course_id": {"type": "string"},
                "status": {"type": "string", "enum": ["PENDING", "APPROVED", "DENIED", "DROPPED"]},
                "student_comment": {"type": "string"},
                "lecturer_comment": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"},
                "approved_at": {"type": "string", "format": "date-time"},
                "denied_at": {"type": "string", "format": "date-time"},
                "dropped_at": {"type": "string", "format": "date-time"},
                "student_number": {"type": "string"},
                "student_name": {"type": "string"},
                "course_code": {"type": "string"},
                "course_name": {"type": "string"},
                "lecturer_id": {"type": "string"}
            }
        },
        "Course": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "course_code": {"type": "string"},
                "course_name": {"type": "string"},
                "credits": {"type": "integer"},
                "department_id": {"type": "string"},
                "semester_id": {"type": "string"},
                "lecturer_id": {"type": "string"},
                "minimum_gpa": {"type": "number"},
                "max_capacity": {"type": "integer"},
                "current_enrollment": {"type": "integer"},
                "is_active": {"type": "boolean"}
            }
        },
        "CourseCapacity": {
            "type": "object",
            "properties": {
                "course_id": {"type": "string"},
                "max_capacity": {"type": "integer"},
                "current_enrollment": {"type": "integer"},
                "approved_count": {"type": "integer"},
                "pending_count": {"type": "integer"},
                "seats_available": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ListMeta": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "AllocationEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/AllocationDetail"}
            }
        },
        "AllocationListEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/AllocationDetail"}},
                "meta": {"$ref": "#/definitions/ListMeta"}
            }
        },
        "CourseListEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/Course"}},
                "meta": {"$ref": "#/definitions/ListMeta"}
            }
        },
        "CapacityEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/CourseCapacity"}
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
