package applications

import (
	"github.com/google/uuid"

	"github.com/givehub/givehub/internal/identity"
)

// AuditTagFor resolves the tag recorded in updated_by for a mutation of an
// application owned by ownerID. Admins act on any application and are
// tagged ADMIN; organizers act only on their own, tagged with their
// organizer id. An organizer targeting another organizer's application
// gets ErrNotFound, indistinguishable from the application not existing.
// Non-admins without an organizer relation surface identity.ErrNoOrganizer.
func AuditTagFor(actor identity.Actor, ownerID uuid.UUID) (string, error) {
	role, err := actor.Role()
	if err != nil {
		return "", err
	}

	switch role := role.(type) {
	case identity.AdminRole:
		return role.AuditTag(), nil
	case identity.OrganizerRole:
		if role.ID != ownerID {
			return "", ErrNotFound
		}
		return role.AuditTag(), nil
	default:
		return "", ErrNotFound
	}
}
