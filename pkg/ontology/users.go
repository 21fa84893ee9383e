package ontology

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

type userParams struct {
	User string
	Role string
}

// UserService reads eco:User individuals
type UserService struct {
	base
}

// NewUserService creates a new user service
func NewUserService(client sparql.Client, logger *slog.Logger) *UserService {
	return &UserService{base: newBase(client, "users.rq", logger)}
}

// ListUsers returns every user ordered by last then first name
func (s *UserService) ListUsers(ctx context.Context) ([]sparql.Row, error) {
	return s.rows(ctx, "all", userParams{})
}

// GetUser returns one user
func (s *UserService) GetUser(ctx context.Context, id string) (sparql.Row, error) {
	user, err := resource(id, sparql.EcoNS)
	if err != nil {
		return nil, err
	}
	return s.first(ctx, "by-id", userParams{User: user})
}

// ListOrganizers returns the users that organize at least one event
func (s *UserService) ListOrganizers(ctx context.Context) ([]sparql.Row, error) {
	return s.rows(ctx, "organizers", userParams{})
}

// ListUsersByRole returns users whose role contains role
func (s *UserService) ListUsersByRole(ctx context.Context, role string) ([]sparql.Row, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, invalidf("role is required")
	}
	return s.rows(ctx, "by-role", userParams{Role: sparql.RegexPattern(role)})
}
