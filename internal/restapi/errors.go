package restapi

import (
	"net/http"

	"smarttransit.seoullab.org/internal/logging"
)

// serverErrorResponse logs the underlying error and returns an opaque 500.
// Internal failure details never leak into the envelope.
func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.FromContext(r.Context())
	logging.LogError(logger, "internal server error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", GetRequestID(r.Context()),
	)

	api.sendError(w, r, http.StatusInternalServerError, "Internal server error")
}
