package restapi

import (
	"errors"
	"net/http"

	"nextstop.transit.dev/gtfsdb"
	"nextstop.transit.dev/internal/models"
	"nextstop.transit.dev/internal/utils"
)

func (api *RestAPI) stopHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return
	}

	stop, err := api.GtfsManager.GtfsDB.GetStop(r.Context(), id)
	if errors.Is(err, gtfsdb.ErrStopNotFound) {
		api.sendNotFound(w, r)
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	entry := models.NewStop(stop)
	api.sendResponse(w, r, models.NewEntryResponse(entry, models.NewStopReferences(entry)))
}
