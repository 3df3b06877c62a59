// Package docs registra en swag el documento OpenAPI que sirve /swagger/doc.json.
// Se mantiene a mano a partir de las anotaciones godoc de los handlers; al cambiar
// una ruta, actualizar también su entrada en docTemplate.
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
    "security": [{"BearerAuth": []}],
    "paths": {
        "/api/auth/register": {
            "post": {"tags": ["auth"], "summary": "Crea una cuenta. Rol por defecto Patient; Admin no se puede registrar.", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/api/auth/login": {
            "post": {"tags": ["auth"], "summary": "Login con email y password. Devuelve un JWT.", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/auth/me": {
            "get": {"tags": ["auth"], "summary": "Identidad del token con roles normalizados", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/patients": {
            "get": {"tags": ["patients"], "summary": "Lista pacientes (solo personal)", "parameters": [{"type": "string", "name": "query", "in": "query"}, {"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "page_size", "in": "query"}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}},
            "post": {"tags": ["patients"], "summary": "Crea un paciente (solo personal)", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}
        },
        "/api/patients/me": {
            "get": {"tags": ["patients"], "summary": "Ficha vinculada a la cuenta", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/patients/{id}": {
            "get": {"tags": ["patients"], "summary": "Lee un paciente (personal o dueño)", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["patients"], "summary": "Actualiza un paciente", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["patients"], "summary": "Borra un paciente y su historia", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/api/appointments": {
            "get": {"tags": ["appointments"], "summary": "Lista turnos. Un paciente solo ve los suyos.", "parameters": [{"type": "integer", "name": "patient_id", "in": "query"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "post": {"tags": ["appointments"], "summary": "Crea un turno. Un paciente solo puede crearlo para su propia ficha.", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}
        },
        "/api/appointments/{id}": {
            "get": {"tags": ["appointments"], "summary": "Lee un turno", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["appointments"], "summary": "Reprograma un turno", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"tags": ["appointments"], "summary": "Cancela un turno", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}}}
        },
        "/api/medical-records": {
            "get": {"tags": ["medical-records"], "summary": "Lista historias clínicas (solo personal)", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "post": {"tags": ["medical-records"], "summary": "Crea una historia clínica", "responses": {"201": {"description": "Created"}, "404": {"description": "Not Found"}}}
        },
        "/api/medical-records/{id}": {
            "get": {"tags": ["medical-records"], "summary": "Lee una historia con sus notas", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/api/medical-records/patient/{patientID}": {
            "get": {"tags": ["medical-records"], "summary": "Última historia clínica de un paciente", "parameters": [{"type": "integer", "name": "patientID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/api/medical-records/{id}/notes": {
            "get": {"tags": ["medical-records"], "summary": "Notas de una historia, más nuevas primero", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["medical-records"], "summary": "Agrega una nota (solo personal). El autor sale del email del token.", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}}
        },
        "/api/medical-records/notes/{noteID}": {
            "put": {"tags": ["medical-records"], "summary": "Edita una nota", "parameters": [{"type": "integer", "name": "noteID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["medical-records"], "summary": "Borra una nota", "parameters": [{"type": "integer", "name": "noteID", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/api/staff": {
            "get": {"tags": ["staff"], "summary": "Lista el personal", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["staff"], "summary": "Alta de personal (solo admin)", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/api/staff/{id}": {
            "get": {"tags": ["staff"], "summary": "Lee un miembro del personal", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["staff"], "summary": "Actualiza un miembro del personal", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["staff"], "summary": "Baja de personal", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/api/exports/patients.csv": {
            "get": {"tags": ["exports"], "summary": "Exporta todos los pacientes en CSV (solo personal)", "produces": ["text/csv"], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        }
    }
}`

// SwaggerInfo: metadatos del documento (host y basePath se pueden pisar al arrancar).
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "clinic-api",
	Description:      "API de la clínica: pacientes, turnos, historias clínicas y personal.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
