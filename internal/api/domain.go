package api

import (
	"github.com/givehub/givehub/internal/applications"
	"github.com/givehub/givehub/internal/attachments"
	"github.com/givehub/givehub/internal/config"
	"github.com/givehub/givehub/internal/notifications"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Applications applications.System
	Attachments  attachments.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	notifier := notifications.NewLog(runtime.Logger)

	applicationsSystem := applications.New(
		runtime.Database.Connection(),
		notifier,
		runtime.Logger,
		runtime.Pagination,
	)

	attachmentsSystem := attachments.New(
		runtime.Database.Connection(),
		runtime.Storage,
		&cfg.Uploads,
		cfg.Storage.MaxListSize,
		runtime.Logger,
	)

	return &Domain{
		Applications: applicationsSystem,
		Attachments:  attachmentsSystem,
	}
}
