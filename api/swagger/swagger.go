package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "EduPanel API",
        "description": "Backend for the EduPanel school administration portal",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Login and session tokens"},
        {"name": "Sections", "description": "School sections and their time windows"},
        {"name": "Classes", "description": "Classes within sections"},
        {"name": "Students", "description": "Enrollment, bulk import and roster export"},
        {"name": "Assignments", "description": "Class assignments with attachments"},
        {"name": "Notifications", "description": "Class and per-student notifications"},
        {"name": "Profile", "description": "Student self-service profile"}
    ],
    "paths": {
        "/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate a user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/FailureEnvelope"}}
                }
            }
        },
        "/admin/sections": {
            "get": {
                "tags": ["Sections"],
                "summary": "List sections",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sections"],
                "summary": "Add a section",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSectionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/SuccessEnvelope"}},
                    "409": {"description": "Duplicate name", "schema": {"$ref": "#/definitions/FailureEnvelope"}}
                }
            }
        },
        "/admin/sections/{id}": {
            "delete": {
                "tags": ["Sections"],
                "summary": "Delete a section",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessEnvelope"}},
                    "409": {"description": "Section still has classes", "schema": {"$ref": "#/definitions/FailureEnvelope"}}
                }
            }
        },
        "/admin/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List classes with section names",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessEnvelope"}}
                }
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Add a class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/SuccessEnvelope"}}
                }
            }
        },
        "/admin/classes/{id}": {
            "delete": {
                "tags": ["Classes"],
                "summary": "Delete a class",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessEnvelope"}},
                    "409": {"description": "Class has enrolled students", "schema": {"$ref": "#/definitions/FailureEnvelope"}}
                }
            }
        },
        "/admin/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List all students",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Enroll a student",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "first_name", "in": "formData", "required": true, "type": "string"},
                    {"name": "last_name", "in": "formData", "required": true, "type": "string"},
                    {"name": "roll_number", "in": "formData", "required": true, "type": "string"},
                    {"name": "class_id", "in": "formData", "required": true, "type": "integer"},
                    {"name": "username", "in": "formData", "required": true, "type": "string"},
                    {"name": "password", "in": "formData", "required": true, "type": "string"},
                    {"name": "photo", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/SuccessEnvelope"}}
                }
            }
        },
        "/admin/students/{id}": {
            "put": {
                "tags": ["Students"],
                "summary": "Update a student",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessEnvelope"}}
                }
            }
        },
        "/admin/students/class/{classId}": {
            "get": {
                "tags": ["Students"],
                "summary": "List students enrolled in a class",
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessEnvelope"}}
                }
            }
        },
        "/admin/students/bulk-upload": {
            "post": {
                "tags": ["Students"],
                "summary": "Import students from an Excel file",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "excelFile", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "Import report", "schema": {"$ref": "#/definitions/ImportReport"}}
                }
            }
        },
        "/admin/students/bulk-upload-zip": {
            "post": {
                "tags": ["Students"],
                "summary": "Import students with photos from a ZIP archive",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "zipFile", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "Import report", "schema": {"$ref": "#/definitions/ImportReport"}}
                }
            }
        },
        "/admin/students/export/{classId}": {
            "get": {
                "tags": ["Students"],
                "summary": "Export the roster of a class",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Roster file"}
                }
            }
        },
        "/admin/assignments": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List assignments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessEnvelope"}}
                }
            },
            "post": {
                "tags": ["Assignments"],
                "summary": "Add an assignment",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "title", "in": "formData", "required": true, "type": "string"},
                    {"name": "description", "in": "formData", "type": "string"},
                    {"name": "class_id", "in": "formData", "required": true, "type": "integer"},
                    {"name": "due_date", "in": "formData", "required": true, "type": "string"},
                    {"name": "assignmentFile", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/SuccessEnvelope"}}
                }
            }
        },
        "/admin/assignments/{id}": {
            "put": {
                "tags": ["Assignments"],
                "summary": "Update an assignment",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Assignments"],
                "summary": "Delete an assignment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessEnvelope"}}
                }
            }
        },
        "/admin/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List notifications",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessEnvelope"}}
                }
            },
            "post": {
                "tags": ["Notifications"],
                "summary": "Send a notification",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "class_id", "in": "formData", "required": true, "type": "integer"},
                    {"name": "title", "in": "formData", "required": true, "type": "string"},
                    {"name": "description", "in": "formData", "required": true, "type": "string"},
                    {"name": "message", "in": "formData", "type": "string"},
                    {"name": "recipient_type", "in": "formData", "required": true, "type": "string", "enum": ["all", "particular"]},
                    {"name": "selected_students", "in": "formData", "type": "string", "description": "JSON array of student IDs"},
                    {"name": "notificationFile", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/SuccessEnvelope"}}
                }
            }
        },
        "/admin/notifications/{id}": {
            "put": {
                "tags": ["Notifications"],
                "summary": "Update a notification",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Notifications"],
                "summary": "Delete a notification",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessEnvelope"}}
                }
            }
        },
        "/admin/notifications/{id}/read": {
            "put": {
                "tags": ["Notifications"],
                "summary": "Mark a notification as read",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessEnvelope"}}
                }
            }
        },
        "/student/profile/{userId}": {
            "get": {
                "tags": ["Profile"],
                "summary": "Fetch the profile linked to a user account",
                "parameters": [
                    {"name": "userId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessEnvelope"}}
                }
            },
            "put": {
                "tags": ["Profile"],
                "summary": "Update the profile linked to a user account",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "userId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "CreateSectionRequest": {
            "type": "object",
            "properties": {
                "section_name": {"type": "string"},
                "start_time": {"type": "string", "example": "08:00"},
                "end_time": {"type": "string", "example": "14:00"}
            },
            "required": ["section_name", "start_time", "end_time"]
        },
        "CreateClassRequest": {
            "type": "object",
            "properties": {
                "class_name": {"type": "string"},
                "section_id": {"type": "integer"},
                "teacher_name": {"type": "string"}
            },
            "required": ["class_name", "section_id", "teacher_name"]
        },
        "RowError": {
            "type": "object",
            "properties": {
                "row": {"type": "integer"},
                "reason": {"type": "string"}
            }
        },
        "ImportReport": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "imported": {"type": "integer"},
                "failed": {"type": "integer"},
                "photosUploaded": {"type": "integer"},
                "errorDetails": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/RowError"}
                }
            }
        },
        "SuccessEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "message": {"type": "string"}
            }
        },
        "FailureEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "message": {"type": "string"},
                "code": {"type": "string"}
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
