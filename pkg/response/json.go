package response

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the JSON envelope every endpoint answers with. The
// submission endpoint additionally carries the generated report id at
// the top level.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	ID      string      `json:"id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Submitted answers a successful report submission.
func Submitted(w http.ResponseWriter, message string, id string) {
	JSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		ID:      id,
	})
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Error(w http.ResponseWriter, statusCode int, message string, errDetail string) {
	JSON(w, statusCode, APIResponse{
		Success: false,
		Message: message,
		Error:   errDetail,
	})
}
