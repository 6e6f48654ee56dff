package restapi

import (
	"errors"
	"net/http"

	"nextstop.transit.dev/gtfsdb"
	"nextstop.transit.dev/internal/gtfs"
	"nextstop.transit.dev/internal/models"
	"nextstop.transit.dev/internal/utils"
)

func boardEntry(board gtfs.DepartureBoard) models.DepartureBoard {
	return models.NewDepartureBoard(board.Stop.ID, board.Date, board.Now, board.Services, board.Departures)
}

// departuresForStopHandler ranks the next departures at :id. ?date and ?time pin the moment.
func (api *RestAPI) departuresForStopHandler(w http.ResponseWriter, r *http.Request) {
	stopID, err := utils.PathID(r, "id")
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return
	}

	moment, fieldErrors := utils.ParseMoment(r.URL.Query(), api.Now(), api.GtfsManager.Location())
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	board, err := api.GtfsManager.DeparturesForStop(r.Context(), stopID, moment)
	if errors.Is(err, gtfsdb.ErrStopNotFound) {
		api.sendNotFound(w, r)
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	references := models.NewStopReferences(models.NewStop(board.Stop))
	api.sendResponse(w, r, models.NewEntryResponse(boardEntry(board), references, board.Notice()))
}
