package restapi

import (
	"net/http"

	"nextstop.transit.dev/internal/models"
	"nextstop.transit.dev/internal/utils"
)

// activeServicesHandler lists the services running on ?date (default today).
func (api *RestAPI) activeServicesHandler(w http.ResponseWriter, r *http.Request) {
	moment, fieldErrors := utils.ParseMoment(r.URL.Query(), api.Now(), api.GtfsManager.Location())
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	result, err := api.GtfsManager.ActiveServices(r.Context(), moment)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	notice := ""
	if result.Empty() {
		notice = models.NoticeNoService
	}

	api.sendResponse(w, r, models.NewEntryResponse(models.NewActiveServices(result), models.NewEmptyReferences(), notice))
}
