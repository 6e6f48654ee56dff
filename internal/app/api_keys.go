package app

import (
	"net/http"
	"slices"
)

// APIKeyHeader lets kiosks and signage send their key without putting it in the URL.
const APIKeyHeader = "X-API-Key"

// APIKey returns the caller's key from the "key" query parameter, falling back to the X-API-Key header.
func APIKey(r *http.Request) string {
	if key := r.URL.Query().Get("key"); key != "" {
		return key
	}
	return r.Header.Get(APIKeyHeader)
}

func (app *Application) RequestHasInvalidAPIKey(r *http.Request) bool {
	return !app.IsValidAPIKey(APIKey(r))
}

func (app *Application) IsValidAPIKey(key string) bool {
	return key != "" && slices.Contains(app.Config.ApiKeys, key)
}
