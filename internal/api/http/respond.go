package apihttp

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// errorEnvelope is the body returned for every non-2xx response. Clients
// match failures to server logs through the error id.
type errorEnvelope struct {
	Status  string `json:"status"`
	ErrorID string `json:"errorId"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError emits the error envelope. 4xx responses report status "fail",
// everything else "error".
func WriteError(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	envelope := errorEnvelope{
		Status:  "error",
		ErrorID: uuid.NewString(),
		Message: message,
	}
	if status >= 400 && status < 500 {
		envelope.Status = "fail"
	}
	if logger != nil {
		logger.Warn("request failed",
			zap.String("error_id", envelope.ErrorID),
			zap.Int("status", status),
			zap.String("message", message),
		)
	}
	writeJSON(w, status, envelope)
}
