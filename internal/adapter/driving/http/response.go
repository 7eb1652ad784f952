package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/modelkeeper/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Detail: message})
}

// errorResponse is the standard error response body. The web client reads
// the message from "detail".
type errorResponse struct {
	Detail string `json:"detail"`
}

// RecordResponse is the JSON representation of a stored model record.
type RecordResponse struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
	Date  string `json:"date"`
}

// CreateModelRequest is the JSON body for the create endpoint. Pointer
// fields distinguish a missing field from a zero value.
type CreateModelRequest struct {
	Name  *string `json:"name"`
	Value *int64  `json:"value"`
}

// MessageResponse is a plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// InfoResponse describes the running build.
type InfoResponse struct {
	App       string `json:"app"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Timestamp string `json:"timestamp"`
}

// toRecordResponse converts a domain ModelRecord to its JSON representation.
func toRecordResponse(r model.ModelRecord) RecordResponse {
	return RecordResponse{
		Name:  r.Name,
		Value: r.Value,
		Date:  r.Date.String(),
	}
}
