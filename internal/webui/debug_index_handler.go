package webui

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"

	"bikeflow.bluebikes.org/internal/models"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

var dataTypes = []string{"snapshot", "stations", "trips", "traffic"}

type debugData struct {
	Title     string
	Pre       string
	DataTypes []string
}

// snapshotSummary leaves out the large slices so the page stays readable.
type snapshotSummary struct {
	Version          uint64
	LoadedAt         string
	Stations         int
	Trips            int
	SkippedTrips     int
	MeanTripDuration string
	TripDB           map[string]int
	ImportRuntime    string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	content := spew.Sdump(data)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	dataStruct := debugData{
		Title:     title,
		Pre:       content,
		DataTypes: dataTypes,
	}

	if err := debugTemplate.Execute(w, dataStruct); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string

	manager := webUI.BikeshareManager
	snapshot := manager.Snapshot()

	switch dataType {
	case "snapshot":
		counts, err := manager.TripDB.TableCounts()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data = snapshotSummary{
			Version:          snapshot.Version,
			LoadedAt:         snapshot.LoadedAt.Format("2006-01-02 15:04:05 MST"),
			Stations:         len(snapshot.Stations),
			Trips:            len(snapshot.Trips),
			SkippedTrips:     snapshot.SkippedTrips,
			MeanTripDuration: models.MeanDuration(snapshot.Trips).Round(time.Second).String(),
			TripDB:           counts,
			ImportRuntime:    manager.TripDB.ImportRuntime().String(),
		}
		title = "Bikeshare - Snapshot"
	case "stations":
		data = snapshot.Stations
		title = "Bikeshare - Stations"
	case "trips":
		data = manager.GetTrips()
		title = "Bikeshare - Trips"
	case "traffic":
		filter, err := models.ParseTimeFilter(r.URL.Query().Get("time"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		list, err := manager.StationTraffic(r.Context(), filter)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data = list
		title = "Bikeshare - Station Traffic"
		if filter.IsActive() {
			title += " at " + filter.Label()
		}
	default:
		data = map[string]string{
			"error": "Please use one of the following: snapshot, stations, trips, traffic.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}
