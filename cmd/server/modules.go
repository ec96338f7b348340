package main

import (
	"encoding/json"
	"net/http"

	"github.com/givehub/givehub/internal/api"
	"github.com/givehub/givehub/internal/config"
	"github.com/givehub/givehub/internal/infrastructure"
	"github.com/givehub/givehub/pkg/lifecycle"
	"github.com/givehub/givehub/pkg/module"
)

type Modules struct {
	API    *module.Module
	Domain *api.Domain
	cfg    *config.Config
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, domain, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API:    apiModule,
		Domain: domain,
		cfg:    cfg,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

// Start launches background work owned by the domain modules, currently the
// blob reconciliation sweeper.
func (m *Modules) Start(lc *lifecycle.Coordinator) error {
	sweeper := m.Domain.Attachments.Sweeper(m.cfg.Uploads.SweepIntervalDuration())
	return sweeper.Start(lc)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
