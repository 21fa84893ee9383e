package ontology

import (
	"context"
	"log/slog"

	"github.com/mimir-aip/eco-ontology-go/pkg/models"
	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

type eventParams struct {
	Event    string
	Location string
	Date     string
	Title    string
}

// EventService reads eco:Event individuals
type EventService struct {
	base
}

// NewEventService creates a new event service
func NewEventService(client sparql.Client, logger *slog.Logger) *EventService {
	return &EventService{base: newBase(client, "events.rq", logger)}
}

// ListEvents returns every event ordered by date
func (s *EventService) ListEvents(ctx context.Context) ([]sparql.Row, error) {
	return s.rows(ctx, "all", eventParams{})
}

// GetEvent returns one event with its location, or an empty row
func (s *EventService) GetEvent(ctx context.Context, id string) (sparql.Row, error) {
	event, err := resource(id, sparql.EcoNS)
	if err != nil {
		return nil, err
	}
	return s.first(ctx, "by-id", eventParams{Event: event})
}

// SearchEvents filters events by location name, date and title. Every
// criterion is a case-insensitive substring match.
func (s *EventService) SearchEvents(ctx context.Context, req *models.EventSearchRequest) ([]sparql.Row, error) {
	params := eventParams{}
	if req.Location != "" {
		params.Location = sparql.RegexPattern(req.Location)
	}
	if req.Date != "" {
		params.Date = sparql.RegexPattern(req.Date)
	}
	if req.Title != "" {
		params.Title = sparql.RegexPattern(req.Title)
	}
	return s.rows(ctx, "search", params)
}
