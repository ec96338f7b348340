package api

import (
	"net/http"

	"github.com/givehub/givehub/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Applications.Handler().Routes(),
		domain.Attachments.Handler().Routes(),
	)
}
