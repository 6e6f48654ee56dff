package restapi

import (
	"net/http"
	"net/url"

	"nextstop.transit.dev/internal/locator"
	"nextstop.transit.dev/internal/models"
	"nextstop.transit.dev/internal/utils"
)

const defaultMaxCount = 100

// parseLocation reads lat/lon. Callers check utils.HasLocationParams first.
func parseLocation(params url.Values) (locator.Location, map[string][]string) {
	lat, fieldErrors := utils.ParseFloatParam(params, "lat", nil)
	lon, _ := utils.ParseFloatParam(params, "lon", fieldErrors)
	if len(fieldErrors) > 0 {
		return locator.Location{}, fieldErrors
	}
	if locationErrors := utils.ValidateLocationParams(lat, lon); len(locationErrors) > 0 {
		return locator.Location{}, locationErrors
	}
	return locator.Location{Lat: lat, Lon: lon}, nil
}

func (api *RestAPI) stopsForLocationHandler(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()

	if !utils.HasLocationParams(queryParams) {
		api.locateFailedResponse(w, r)
		return
	}

	loc, fieldErrors := parseLocation(queryParams)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	maxCount := defaultMaxCount
	if queryParams.Get("maxCount") != "" {
		var countErrors map[string][]string
		maxCount, countErrors = utils.ParseIntParam(queryParams, "maxCount", nil)
		if len(countErrors) == 0 {
			if err := utils.ValidateMaxCount(maxCount); err != nil {
				countErrors["maxCount"] = append(countErrors["maxCount"], err.Error())
			}
		}
		if len(countErrors) > 0 {
			api.validationErrorResponse(w, r, countErrors)
			return
		}
	}

	ranked, err := api.GtfsManager.NearbyStops(r.Context(), loc, maxCount)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	list := make([]models.NearbyStop, 0, len(ranked))
	for _, stop := range ranked {
		list = append(list, models.NewNearbyStop(stop, locator.Direction(loc, stop.Stop)))
	}

	notice := ""
	if len(list) == 0 {
		notice = models.NoticeNoStops
	}

	api.sendResponse(w, r, models.NewListResponse(list, models.NewEmptyReferences(), notice))
}
