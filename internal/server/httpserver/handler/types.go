package handler

import "time"

// Response is the standard API response envelope. All JSON responses
// use this format; /metrics uses the Prometheus exposition format.
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// IssueTokenResponse is the response body for POST /csrf/{name}.
type IssueTokenResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ValidateTokenRequest is the request body for POST /csrf/{name}/validate.
//
// Slot selects which stored value the submitted one is checked against:
// "old" (the default) matches the previously issued value, "new" matches
// the most recently issued one.
type ValidateTokenRequest struct {
	Value string `json:"value"`
	Slot  string `json:"slot,omitempty"`
}

// ValidateTokenResponse is the response body for POST /csrf/{name}/validate.
type ValidateTokenResponse struct {
	Name  string `json:"name"`
	Valid bool   `json:"valid"`
	Slot  string `json:"slot"`
}

// HealthResponse is the response body for GET /healthz.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Sessions int    `json:"sessions"`
	Time     string `json:"time"`
}

// Validation slot names accepted by the API.
const (
	SlotOld = "old"
	SlotNew = "new"
)
