package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"nextstop.transit.dev/internal/app"
)

// WebUI serves the debug pages.
type WebUI struct {
	*app.Application
}

func (webUI *WebUI) SetWebUIRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/", webUI.debugIndexHandler)
}
