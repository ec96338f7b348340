package applications

import (
	"context"

	"github.com/google/uuid"

	"github.com/givehub/givehub/internal/identity"
	"github.com/givehub/givehub/pkg/pagination"
)

// System defines the public contract for campaign application operations.
// Every operation takes the resolved actor; authorization decisions happen
// here, not in the HTTP layer.
type System interface {
	Handler() *Handler

	// Create submits a new application owned by the creator's organizer
	// relation, establishing one when the creator has none.
	Create(ctx context.Context, cmd CreateCommand, actor identity.Actor) (*Application, error)

	// List returns a page of applications in stable submission order.
	// Admin only; other actors receive ErrForbidden.
	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
		actor identity.Actor,
	) (*pagination.PageResult[Application], error)

	// Find returns one application. Admins see everything; other actors
	// only their own. Absence and lack of ownership are both ErrNotFound.
	Find(ctx context.Context, id uuid.UUID, actor identity.Actor) (*Application, error)

	// Update applies a patch under the actor's role and records who
	// authorized the change. Status patches are transition-checked.
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand, actor identity.Actor) (*Application, error)
}
