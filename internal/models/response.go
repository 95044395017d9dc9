package models

// ResponseModel is the envelope every API response is wrapped in:
// {"status": "success"|"error", "data"?, "message"?}.
type ResponseModel struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// NewOKResponse wraps payload data in a success envelope.
func NewOKResponse(data any) ResponseModel {
	return ResponseModel{Status: StatusSuccess, Data: data}
}

// NewErrorResponse wraps a human-readable message in an error envelope.
func NewErrorResponse(message string) ResponseModel {
	return ResponseModel{Status: StatusError, Message: message}
}
