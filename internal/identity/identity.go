// Package identity resolves request credentials to an authenticated person
// and the authorization role that person acts under. It verifies bearer
// tokens against the configured OIDC issuer and maps the token subject to a
// stored person record.
package identity

import "github.com/google/uuid"

// Person identifies a registered caller. OrganizerID is non-nil when the
// person administers at least one campaign.
type Person struct {
	ID          uuid.UUID  `json:"id"`
	SubjectID   string     `json:"subject_id"`
	Email       string     `json:"email"`
	OrganizerID *uuid.UUID `json:"organizer_id,omitempty"`
}

// Actor is the authenticated caller for a single request, derived from the
// verified token and the person lookup. It is never persisted.
type Actor struct {
	Person Person
	Admin  bool
}

// Role is the authorization role an operation is performed under:
// either AdminRole or OrganizerRole.
type Role interface {
	isRole()
	// AuditTag returns the value recorded against role-gated mutations.
	AuditTag() string
}

// AdminRole marks an operation performed with administrator authority.
type AdminRole struct{}

func (AdminRole) isRole() {}

func (AdminRole) AuditTag() string { return "ADMIN" }

// OrganizerRole marks an operation performed by the owning organizer.
type OrganizerRole struct {
	ID uuid.UUID
}

func (OrganizerRole) isRole() {}

func (r OrganizerRole) AuditTag() string { return r.ID.String() }

// Role resolves the actor's authorization role. Non-admin persons without an
// organizer relation have no role; the absence is reported as ErrNoOrganizer,
// which callers surface as not-found.
func (a Actor) Role() (Role, error) {
	if a.Admin {
		return AdminRole{}, nil
	}
	if a.Person.OrganizerID != nil {
		return OrganizerRole{ID: *a.Person.OrganizerID}, nil
	}
	return nil, ErrNoOrganizer
}

// Owns reports whether the actor may access a resource owned by the given
// organizer. Admins own everything; ownership absence and resource absence
// are indistinguishable to callers.
func (a Actor) Owns(organizerID uuid.UUID) bool {
	if a.Admin {
		return true
	}
	return a.Person.OrganizerID != nil && *a.Person.OrganizerID == organizerID
}
