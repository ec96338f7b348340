// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/givehub/givehub/internal/config"
	"github.com/givehub/givehub/internal/identity"
	"github.com/givehub/givehub/internal/infrastructure"
	"github.com/givehub/givehub/pkg/middleware"
	"github.com/givehub/givehub/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Every route behind the module requires a resolvable bearer token.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, *Domain, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(identity.Require(runtime.Identity, runtime.Logger))

	return m, domain, nil
}
