package ontology

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

type reservationParams struct {
	Status string
	Event  string
	User   string
}

// ReservationService reads eco:Reservation individuals
type ReservationService struct {
	base
}

// NewReservationService creates a new reservation service
func NewReservationService(client sparql.Client, logger *slog.Logger) *ReservationService {
	return &ReservationService{base: newBase(client, "reservations.rq", logger)}
}

// ListReservations returns every reservation with its seat, event and user
func (s *ReservationService) ListReservations(ctx context.Context) ([]sparql.Row, error) {
	return s.rows(ctx, "all", reservationParams{})
}

// ListReservationsByStatus matches the status case-insensitively
func (s *ReservationService) ListReservationsByStatus(ctx context.Context, status string) ([]sparql.Row, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, invalidf("status is required")
	}
	return s.rows(ctx, "all", reservationParams{Status: sparql.Literal(strings.ToLower(status))})
}

// ListReservationsByEvent returns reservations whose event title contains title
func (s *ReservationService) ListReservationsByEvent(ctx context.Context, title string) ([]sparql.Row, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalidf("event name is required")
	}
	return s.rows(ctx, "all", reservationParams{Event: sparql.Literal(strings.ToLower(title))})
}

// ListReservationsByUser returns reservations whose user first name contains name
func (s *ReservationService) ListReservationsByUser(ctx context.Context, name string) ([]sparql.Row, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("user name is required")
	}
	return s.rows(ctx, "all", reservationParams{User: sparql.Literal(strings.ToLower(name))})
}

// ReservationStats counts reservations per status
func (s *ReservationService) ReservationStats(ctx context.Context) ([]sparql.Row, error) {
	return s.rows(ctx, "stats", reservationParams{})
}
