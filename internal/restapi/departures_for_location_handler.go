package restapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"nextstop.transit.dev/internal/locator"
	"nextstop.transit.dev/internal/models"
	"nextstop.transit.dev/internal/utils"
)

// queryLocation is the rider position carried by lat/lon query parameters.
type queryLocation url.Values

func (q queryLocation) CurrentLocation(ctx context.Context) (locator.Location, error) {
	if err := ctx.Err(); err != nil {
		return locator.Location{}, err
	}
	params := url.Values(q)
	if !utils.HasLocationParams(params) {
		return locator.Location{}, locator.ErrLocationUnavailable
	}
	loc, fieldErrors := parseLocation(params)
	if len(fieldErrors) > 0 {
		return locator.Location{}, locator.ErrLocationUnavailable
	}
	return loc, nil
}

// departuresForLocationHandler shows the board of the stop nearest the rider.
func (api *RestAPI) departuresForLocationHandler(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()

	if utils.HasLocationParams(queryParams) {
		if _, fieldErrors := parseLocation(queryParams); len(fieldErrors) > 0 {
			api.validationErrorResponse(w, r, fieldErrors)
			return
		}
	}

	moment, fieldErrors := utils.ParseMoment(queryParams, api.Now(), api.GtfsManager.Location())
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	nearby, err := api.GtfsManager.NextDeparturesFrom(r.Context(), queryLocation(queryParams), moment)
	if errors.Is(err, locator.ErrLocationUnavailable) {
		api.locateFailedResponse(w, r)
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	entry := models.NearbyDepartures{}
	references := models.NewEmptyReferences()
	if nearby.Stop != nil {
		stop := models.NewNearbyStop(*nearby.Stop, locator.Direction(nearby.Location, nearby.Stop.Stop))
		board := boardEntry(nearby.Board)
		entry.Stop = &stop
		entry.Board = &board
		references = models.NewStopReferences(models.NewStop(nearby.Board.Stop))
	}

	api.sendResponse(w, r, models.NewEntryResponse(entry, references, nearby.Notice()))
}
