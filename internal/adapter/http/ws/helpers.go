package wshandler

import (
	"encoding/json"
	"net/http"
)

const (
	notFoundMessage      = "the requested resource could not be found"
	internalErrorMessage = "the server encountered a problem and could not process your request"
)

// errorResponse answers before the upgrade, while the connection is still plain HTTP.
func errorResponse(w http.ResponseWriter, status int, message any) {
	js, err := json.Marshal(map[string]any{"error": message})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
}
