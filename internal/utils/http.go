package utils

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// PathID returns the named path parameter without its optional ".json" suffix, along with
// any validation failure for it as a GTFS id.
func PathID(r *http.Request, name string) (string, error) {
	id := strings.TrimSuffix(httprouter.ParamsFromContext(r.Context()).ByName(name), ".json")
	return id, ValidateID(id)
}
