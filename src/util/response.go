package util

import (
	"encoding/json"
	"net/http"
)

// Envelope is the body of every API response.
type Envelope map[string]interface{}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// WriteSuccess writes {"success": true, "data": data}.
func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, Envelope{"success": true, "data": data})
}

// WriteMessage writes {"success": true, "message": message}.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{"success": true, "message": message})
}

// WriteError writes {"success": false, "message": message}.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{"success": false, "message": message})
}
