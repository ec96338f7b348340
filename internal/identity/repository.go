package identity

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/givehub/givehub/pkg/repository"
)

const personBySubjectQuery = `
	SELECT p.id, p.subject_id, p.email, o.id
	FROM persons p
	LEFT JOIN organizers o ON o.person_id = p.id
	WHERE p.subject_id = $1`

func findPersonBySubject(ctx context.Context, db *sql.DB, subject string) (Person, error) {
	p, err := repository.QueryOne(ctx, db, personBySubjectQuery, []any{subject}, scanPerson)
	if err != nil {
		return Person{}, repository.MapError(err, ErrUnresolved, ErrUnresolved)
	}
	return p, nil
}

func scanPerson(s repository.Scanner) (Person, error) {
	var (
		p     Person
		orgID uuid.NullUUID
	)

	if err := s.Scan(&p.ID, &p.SubjectID, &p.Email, &orgID); err != nil {
		return Person{}, err
	}

	if orgID.Valid {
		p.OrganizerID = &orgID.UUID
	}
	return p, nil
}
