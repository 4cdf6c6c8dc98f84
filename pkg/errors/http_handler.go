package errors

import (
	"encoding/json"
	"net/http"
)

// WriteError renders err the way the booking API does: {"message": "..."}.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := AsAppError(err)
	status := appErr.StatusCode()
	if status == 0 {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	})
}
