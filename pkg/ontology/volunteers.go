package ontology

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mimir-aip/eco-ontology-go/pkg/models"
	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

type volunteerParams struct {
	Volunteer         string
	Skills            string
	ActivityLevel     string
	MedicalConditions string
	Experience        string
	Motivation        string
}

// VolunteerService reads volunteer profiles. The class and its properties
// were minted by WebProtege, so bare ids resolve in that namespace.
type VolunteerService struct {
	base
}

// NewVolunteerService creates a new volunteer service
func NewVolunteerService(client sparql.Client, logger *slog.Logger) *VolunteerService {
	return &VolunteerService{base: newBase(client, "volunteers.rq", logger)}
}

// ListVolunteers returns every volunteer ordered by label
func (s *VolunteerService) ListVolunteers(ctx context.Context) ([]sparql.Row, error) {
	return s.rows(ctx, "all", volunteerParams{})
}

// GetVolunteer returns one volunteer profile
func (s *VolunteerService) GetVolunteer(ctx context.Context, id string) (sparql.Row, error) {
	volunteer, err := resource(id, sparql.WebprotegeNS)
	if err != nil {
		return nil, err
	}
	return s.first(ctx, "all", volunteerParams{Volunteer: volunteer})
}

// ListVolunteersByActivityLevel returns volunteers whose activity level contains level
func (s *VolunteerService) ListVolunteersByActivityLevel(ctx context.Context, level string) ([]sparql.Row, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return nil, invalidf("activity level is required")
	}
	return s.rows(ctx, "all", volunteerParams{ActivityLevel: sparql.RegexPattern(level)})
}

// SearchVolunteers filters on any combination of profile fields
func (s *VolunteerService) SearchVolunteers(ctx context.Context, req *models.VolunteerSearchRequest) ([]sparql.Row, error) {
	pattern := func(v string) string {
		if v = strings.TrimSpace(v); v == "" {
			return ""
		}
		return sparql.RegexPattern(v)
	}
	return s.rows(ctx, "all", volunteerParams{
		Skills:            pattern(req.Skills),
		ActivityLevel:     pattern(req.ActivityLevel),
		MedicalConditions: pattern(req.MedicalConditions),
		Experience:        pattern(req.Experience),
		Motivation:        pattern(req.Motivation),
	})
}
