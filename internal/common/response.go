package common

import (
	"net/http"

	"cortex_edu/internal/domain/model"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

// RespondWithDomainError picks the status from err. Messages of unexpected failures
// are not exposed to the client.
func RespondWithDomainError(w http.ResponseWriter, err error) {
	code := HTTPStatusFromError(err)
	if code == http.StatusInternalServerError {
		RespondWithError(w, code, ErrInternalServer.Error())
		return
	}
	RespondWithError(w, code, err.Error())
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := model.Encode(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
