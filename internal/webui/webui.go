// Package webui serves the built SPA bundle and a non-production debug
// view over the simulator's internal tables.
package webui

import (
	"net/http"

	"smarttransit.seoullab.org/internal/app"
)

type WebUI struct {
	*app.Application
}

func NewWebUI(application *app.Application) *WebUI {
	return &WebUI{Application: application}
}

// SetupWebUIRoutes registers the debug view and the SPA catch-all. The
// catch-all must come last in precedence, which the mux handles for us.
func (webUI *WebUI) SetupWebUIRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /debug", webUI.debugIndexHandler)
	mux.HandleFunc("/", webUI.spaHandler)
}
