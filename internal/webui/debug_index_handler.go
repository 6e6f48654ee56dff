package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"nextstop.transit.dev/internal/calendar"
	"nextstop.transit.dev/internal/logging"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

type debugData struct {
	Title string
	Pre   string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	content := spew.Sdump(data)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	dataStruct := debugData{
		Title: title,
		Pre:   content,
	}

	if err := debugTemplate.Execute(w, dataStruct); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// debugDay is ?date (YYYYMMDD) or today in the feed's zone.
func (webUI *WebUI) debugDay(r *http.Request) (calendar.Date, error) {
	if raw := r.URL.Query().Get("date"); raw != "" {
		return calendar.ParseDate(raw)
	}
	return calendar.DateOf(webUI.Now().In(webUI.GtfsManager.Location())), nil
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	db := webUI.GtfsManager.GtfsDB

	var data interface{}
	var title string
	var err error

	switch r.URL.Query().Get("dataType") {
	case "counts":
		data, err = webUI.counts(r)
		title = "Schedule Store - Counts"
	case "stops":
		data, err = db.ListStops(ctx)
		title = "Schedule Store - Stops"
	case "calendar":
		data, err = db.ListCalendars(ctx)
		title = "Schedule Store - Weekly Calendar"
	case "exceptions":
		day, dayErr := webUI.debugDay(r)
		if dayErr != nil {
			http.Error(w, dayErr.Error(), http.StatusBadRequest)
			return
		}
		data, err = db.ListCalendarDates(ctx, day.String())
		title = "Schedule Store - Calendar Exceptions " + day.ISO()
	case "active":
		day, dayErr := webUI.debugDay(r)
		if dayErr != nil {
			http.Error(w, dayErr.Error(), http.StatusBadRequest)
			return
		}
		data, err = webUI.GtfsManager.ActiveServicesOn(ctx, day)
		title = "Active Services " + day.ISO()
	default:
		data = map[string]string{
			"error": "Please use one of the following: counts, stops, calendar, exceptions, active.",
		}
		title = "Choose a data type"
	}

	if err != nil {
		logging.LogError(logging.FromContext(ctx), "debug page query failed", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeDebugData(w, title, data)
}

func (webUI *WebUI) counts(r *http.Request) (map[string]interface{}, error) {
	ctx := r.Context()
	db := webUI.GtfsManager.GtfsDB

	counts, err := db.TableCounts(ctx)
	if err != nil {
		return nil, err
	}
	meta, err := db.GetImportMetadata(ctx)
	if err != nil {
		return nil, err
	}
	data := map[string]interface{}{
		"tables":      counts,
		"import":      meta,
		"lastUpdated": webUI.GtfsManager.LastUpdated(),
	}

	region, ok, err := webUI.GtfsManager.RegionBounds(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		data["region"] = region
	}
	return data, nil
}
