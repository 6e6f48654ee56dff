package restapi

import (
	"net/http"

	"nextstop.transit.dev/internal/models"
)

// currentTimeHandler reports the server clock in the feed's zone.
func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	now := api.Now().In(api.GtfsManager.Location())
	response := models.NewEntryResponse(models.NewCurrentTimeModel(now), models.NewEmptyReferences())
	api.sendResponse(w, r, response)
}
