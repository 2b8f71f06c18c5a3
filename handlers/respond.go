// handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"contentboost/apperr"
)

func writeJSON(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, body map[string]interface{}) {
	if body == nil {
		body = map[string]interface{}{}
	}
	body["success"] = true
	writeJSON(w, http.StatusOK, body)
}

// writeError maps err onto its HTTP status. Internal failures keep their
// detail out of the response.
func writeError(w http.ResponseWriter, err error) {
	status := apperr.StatusOf(err)
	msg := err.Error()
	var ae *apperr.Error
	if status >= http.StatusInternalServerError && !errors.As(err, &ae) {
		msg = "internal error"
	}
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": msg,
	})
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}
