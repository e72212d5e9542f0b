// internal/app/system/httpjson/httpjson.go

// Package httpjson provides the JSON response helpers used by every
// handler. All error responses share one body shape: {"error": "..."}.
package httpjson

import (
	"encoding/json"
	"net/http"
)

// errorBody is the single error envelope exposed to clients.
type errorBody struct {
	Error string `json:"error"`
}

// Write encodes v as JSON with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with a 200 status.
func OK(w http.ResponseWriter, v any) { Write(w, http.StatusOK, v) }

// Created writes v with a 201 status.
func Created(w http.ResponseWriter, v any) { Write(w, http.StatusCreated, v) }

// Error writes {"error": msg} with the given status code.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, errorBody{Error: msg})
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, msg string) {
	Error(w, http.StatusBadRequest, msg)
}

// Unauthorized writes a 401 error response.
func Unauthorized(w http.ResponseWriter, msg string) {
	Error(w, http.StatusUnauthorized, msg)
}

// Forbidden writes a 403 error response.
func Forbidden(w http.ResponseWriter, msg string) {
	Error(w, http.StatusForbidden, msg)
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, msg string) {
	Error(w, http.StatusNotFound, msg)
}

// Conflict writes a 409 error response.
func Conflict(w http.ResponseWriter, msg string) {
	Error(w, http.StatusConflict, msg)
}

// ServerError writes a 500 error response. Internal details stay in the
// server log; clients only see a generic message.
func ServerError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Server error")
}

// Decode reads the request body into v. Unknown fields are tolerated; the
// handlers validate the fields they care about.
func Decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
