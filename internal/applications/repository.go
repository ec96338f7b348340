package applications

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/givehub/givehub/internal/identity"
	"github.com/givehub/givehub/internal/notifications"
	"github.com/givehub/givehub/pkg/pagination"
	"github.com/givehub/givehub/pkg/query"
	"github.com/givehub/givehub/pkg/repository"
)

type repo struct {
	db         *sql.DB
	notifier   notifications.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an application repository implementing the System interface.
func New(
	db *sql.DB,
	notifier notifications.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		notifier:   notifier,
		logger:     logger.With("system", "applications"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand, actor identity.Actor) (*Application, error) {
	if cmd.Title == "" {
		return nil, ErrInvalidInput
	}

	q := `
		INSERT INTO campaign_applications(id, organizer_id, title, description, goal_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, organizer_id, title, description, goal_amount, status, updated_by, created_at, updated_at`

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Application, error) {
		organizerID, err := ensureOrganizer(ctx, tx, actor.Person)
		if err != nil {
			return Application{}, err
		}

		args := []any{
			uuid.New(),
			organizerID,
			cmd.Title,
			cmd.Description,
			cmd.GoalAmount,
			StatusSubmitted,
		}

		return repository.QueryOne(ctx, tx, q, args, scanApplication)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.notifier.ApplicationSubmitted(ctx, notifications.Submission{
		ApplicationID: a.ID,
		Title:         a.Title,
		SubmitterID:   actor.Person.ID,
	})

	r.logger.Info("application created", "id", a.ID, "organizer_id", a.OrganizerID)
	return &a, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
	actor identity.Actor,
) (*pagination.PageResult[Application], error) {
	if !actor.Admin {
		return nil, ErrForbidden
	}

	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	apps, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanApplication)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}

	result := pagination.NewPageResult(apps, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID, actor identity.Actor) (*Application, error) {
	a, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.Owns(a.OrganizerID) {
		return nil, ErrNotFound
	}
	return a, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand, actor identity.Actor) (*Application, error) {
	current, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}

	tag, err := AuditTagFor(actor, current.OrganizerID)
	if err != nil {
		return nil, err
	}

	if cmd.Status != nil {
		if !cmd.Status.Valid() || !current.Status.CanTransition(*cmd.Status) {
			return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, *cmd.Status)
		}
	}

	q := `
		UPDATE campaign_applications
		SET title = COALESCE($1, title),
			description = COALESCE($2, description),
			goal_amount = COALESCE($3, goal_amount),
			status = COALESCE($4, status),
			updated_by = $5,
			updated_at = now()
		WHERE id = $6
		RETURNING id, organizer_id, title, description, goal_amount, status, updated_by, created_at, updated_at`

	args := []any{cmd.Title, cmd.Description, cmd.GoalAmount, cmd.Status, tag, id}

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Application, error) {
		return repository.QueryOne(ctx, tx, q, args, scanApplication)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if cmd.Status != nil && *cmd.Status != current.Status {
		r.notifier.ApplicationStatusChanged(ctx, notifications.StatusChange{
			ApplicationID: a.ID,
			Title:         a.Title,
			From:          string(current.Status),
			To:            string(a.Status),
			PerformedBy:   tag,
		})
	}

	r.logger.Info("application updated", "id", a.ID, "updated_by", tag)
	return &a, nil
}

func (r *repo) find(ctx context.Context, id uuid.UUID) (*Application, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanApplication)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

// ensureOrganizer returns the person's organizer id, creating the relation
// inside the caller's transaction when it does not exist yet. Submitting a
// first application is what makes a person an organizer.
func ensureOrganizer(ctx context.Context, tx *sql.Tx, person identity.Person) (uuid.UUID, error) {
	if person.OrganizerID != nil {
		return *person.OrganizerID, nil
	}

	q := `
		INSERT INTO organizers(id, person_id)
		VALUES ($1, $2)
		ON CONFLICT (person_id) DO UPDATE SET person_id = EXCLUDED.person_id
		RETURNING id`

	var id uuid.UUID
	if err := tx.QueryRowContext(ctx, q, uuid.New(), person.ID).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("ensure organizer: %w", err)
	}
	return id, nil
}
