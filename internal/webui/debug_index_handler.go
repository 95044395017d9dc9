package webui

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/davecgh/go-spew/spew"
	"smarttransit.seoullab.org/internal/appconf"
	"smarttransit.seoullab.org/internal/congestion"
)

//go:embed debug_index.html
var templateFS embed.FS

type debugData struct {
	Title string
	Pre   string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	content := spew.Sdump(data)
	w.Header().Set("Content-Type", "text/html")
	tmpl, err := template.ParseFS(templateFS, "debug_index.html")
	if err != nil {
		// Log the actual error server-side
		slog.Error("failed to parse debug template", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	dataStruct := debugData{
		Title: title,
		Pre:   content,
	}

	err = tmpl.Execute(w, dataStruct)
	if err != nil {
		slog.Error("failed to execute debug template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// debugIndexHandler dumps the simulator's internal tables. Hidden in
// production.
func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	if webUI.Config.Env == appconf.Production {
		http.NotFound(w, r)
		return
	}
	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string

	switch dataType {
	case "patterns":
		data = congestion.Patterns()
		title = "Hourly Congestion Patterns"
	case "characteristics":
		data = congestion.AllCharacteristics()
		title = "Station Characteristics"
	case "stations":
		stations, err := webUI.Stations.ListStations(nil)
		if err != nil {
			slog.Error("failed to list stations for debug view", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		data = stations
		title = "Station Inventory"
	case "upstream_cache":
		data = webUI.Metro.CacheSnapshot()
		title = "Upstream Arrival Cache"
	default:
		data = map[string]string{
			"error": "Please use one of the following: patterns, characteristics, stations, upstream_cache.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}
