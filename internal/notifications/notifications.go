// Package notifications publishes campaign application lifecycle events.
// Delivery (email templates, transport) is handled by an external service;
// this package defines the contract and a logging implementation used when
// no delivery backend is wired.
package notifications

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Submission describes a newly submitted campaign application.
type Submission struct {
	ApplicationID uuid.UUID
	Title         string
	SubmitterID   uuid.UUID
}

// StatusChange describes a status transition on a campaign application.
type StatusChange struct {
	ApplicationID uuid.UUID
	Title         string
	From          string
	To            string
	PerformedBy   string
}

// System receives application lifecycle events. Implementations must not
// block the calling request path on delivery.
type System interface {
	ApplicationSubmitted(ctx context.Context, s Submission)
	ApplicationStatusChanged(ctx context.Context, c StatusChange)
}

type logNotifier struct {
	logger *slog.Logger
}

// NewLog creates a System that records events to the logger.
func NewLog(logger *slog.Logger) System {
	return &logNotifier{
		logger: logger.With("system", "notifications"),
	}
}

func (n *logNotifier) ApplicationSubmitted(_ context.Context, s Submission) {
	n.logger.Info(
		"application submitted",
		"application_id", s.ApplicationID,
		"title", s.Title,
		"submitter_id", s.SubmitterID,
	)
}

func (n *logNotifier) ApplicationStatusChanged(_ context.Context, c StatusChange) {
	n.logger.Info(
		"application status changed",
		"application_id", c.ApplicationID,
		"from", c.From,
		"to", c.To,
		"performed_by", c.PerformedBy,
	)
}
