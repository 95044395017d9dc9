package restapi

import "net/http"

// statusRecorder remembers the status code a handler wrote so the logging
// and metrics middleware can report it after the handler returns. A handler
// that never calls WriteHeader implicitly responded 200.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}
