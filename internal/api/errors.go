package api

import (
	"encoding/json"
	"net/http"
)

// Client-facing error messages. Clients match on these strings, so they are
// kept stable.
const (
	msgMissingFields       = "Missing fields"
	msgInvalidJSON         = "Invalid JSON"
	msgInvalidForm         = "Invalid form body"
	msgBodyTooLarge        = "Request body too large"
	msgPasswordTooLong     = "Password too long"
	msgEmailExists         = "Email already registered"
	msgInvalidCredentials  = "Invalid email or password"
	msgUserNotFound        = "User not found"
	msgAuthMissing         = "Authorization header missing"
	msgInvalidToken        = "Invalid token"
	msgDeviceNotFound      = "Device not found"
	msgNoFieldsToUpdate    = "No fields to update"
	msgInvalidOldPassword  = "Invalid old_password"
	msgNotFound            = "Not found"
	msgMethodNotAllowed    = "Method not allowed"
	msgInternalServerError = "Internal server error"
)

// errorResponse is the body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes {"error": message}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, message)
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, message)
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, message)
}

// writeInternalError hides the cause from the client; callers log it.
func writeInternalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, msgInternalServerError)
}
