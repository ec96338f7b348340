package applications

import (
	"net/url"

	"github.com/givehub/givehub/pkg/query"
	"github.com/givehub/givehub/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "campaign_applications", "ca").
	Project("id", "ID").
	Project("organizer_id", "OrganizerID").
	Project("title", "Title").
	Project("description", "Description").
	Project("goal_amount", "GoalAmount").
	Project("status", "Status").
	Project("updated_by", "UpdatedBy").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for application queries.
// Nil fields are ignored. Status and OrganizerID use exact matching;
// Title uses case-insensitive contains matching.
type Filters struct {
	Status      *Status `json:"status,omitempty"`
	Title       *string `json:"title,omitempty"`
	OrganizerID *string `json:"organizer_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Title", f.Title).
		WhereEquals("OrganizerID", f.OrganizerID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		status := Status(s)
		f.Status = &status
	}

	if t := values.Get("title"); t != "" {
		f.Title = &t
	}

	if o := values.Get("organizer_id"); o != "" {
		f.OrganizerID = &o
	}

	return f
}

func scanApplication(s repository.Scanner) (Application, error) {
	var a Application
	err := s.Scan(
		&a.ID,
		&a.OrganizerID,
		&a.Title,
		&a.Description,
		&a.GoalAmount,
		&a.Status,
		&a.UpdatedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}
