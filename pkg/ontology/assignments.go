package ontology

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mimir-aip/eco-ontology-go/pkg/models"
	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

// Status values used in the dataset.
const (
	statusApproved = "approuvé"
	statusRejected = "non approuvé"
)

// Allowed ORDER BY clauses; nothing else reaches the template.
var assignmentOrders = map[string]string{
	"":           "DESC(?startDate)",
	"start_date": "DESC(?startDate)",
	"rating":     "DESC(?rating)",
	"status":     "?status",
}

const (
	defaultAssignmentLimit = 100
	maxAssignmentLimit     = 1000
)

type assignmentParams struct {
	Assignment    string
	Volunteer     string
	Event         string
	Status        string
	ExcludeStatus string
	MinRating     string
	MaxRating     string
	DateFrom      string
	DateTo        string
	OrderBy       string
	Limit         string
}

// AssignmentService reads volunteer assignments to events
type AssignmentService struct {
	base
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(client sparql.Client, logger *slog.Logger) *AssignmentService {
	return &AssignmentService{base: newBase(client, "assignments.rq", logger)}
}

// ListAssignments returns every assignment
func (s *AssignmentService) ListAssignments(ctx context.Context) ([]sparql.Row, error) {
	return s.rows(ctx, "list", assignmentParams{OrderBy: "?assignment"})
}

// GetAssignment returns one assignment
func (s *AssignmentService) GetAssignment(ctx context.Context, id string) (sparql.Row, error) {
	assignment, err := resource(id, sparql.WebprotegeNS)
	if err != nil {
		return nil, err
	}
	return s.first(ctx, "list", assignmentParams{Assignment: assignment})
}

// ListAssignmentsByStatus matches the status case-insensitively, newest first
func (s *AssignmentService) ListAssignmentsByStatus(ctx context.Context, status string) ([]sparql.Row, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, invalidf("status is required")
	}
	return s.rows(ctx, "list", assignmentParams{
		Status:  sparql.RegexPattern(status),
		OrderBy: assignmentOrders["start_date"],
	})
}

// ListAssignmentsByRating returns assignments rated at least minRating
func (s *AssignmentService) ListAssignmentsByRating(ctx context.Context, minRating string) ([]sparql.Row, error) {
	n, err := strconv.Atoi(strings.TrimSpace(minRating))
	if err != nil {
		return nil, invalidf("rating must be an integer, got %q", minRating)
	}
	return s.rows(ctx, "list", assignmentParams{
		MinRating: sparql.Integer(n),
		OrderBy:   assignmentOrders["rating"],
	})
}

// ListHighRatedAssignments returns assignments rated 4 or more
func (s *AssignmentService) ListHighRatedAssignments(ctx context.Context) ([]sparql.Row, error) {
	return s.ListAssignmentsByRating(ctx, "4")
}

// ListApprovedAssignments returns approved assignments. "non approuvé"
// contains "approuvé", so rejected ones are excluded explicitly.
func (s *AssignmentService) ListApprovedAssignments(ctx context.Context) ([]sparql.Row, error) {
	return s.rows(ctx, "list", assignmentParams{
		Status:        sparql.RegexPattern(statusApproved),
		ExcludeStatus: sparql.RegexPattern(statusRejected),
		OrderBy:       assignmentOrders["start_date"],
	})
}

// ListRejectedAssignments returns rejected assignments
func (s *AssignmentService) ListRejectedAssignments(ctx context.Context) ([]sparql.Row, error) {
	return s.rows(ctx, "list", assignmentParams{
		Status:  sparql.RegexPattern(statusRejected),
		OrderBy: assignmentOrders["start_date"],
	})
}

// ListAssignmentsByVolunteer returns the assignments of one volunteer
func (s *AssignmentService) ListAssignmentsByVolunteer(ctx context.Context, id string) ([]sparql.Row, error) {
	volunteer, err := resource(id, sparql.WebprotegeNS)
	if err != nil {
		return nil, err
	}
	return s.rows(ctx, "list", assignmentParams{Volunteer: volunteer, OrderBy: assignmentOrders["start_date"]})
}

// ListAssignmentsByEvent returns the assignments for one event
func (s *AssignmentService) ListAssignmentsByEvent(ctx context.Context, id string) ([]sparql.Row, error) {
	event, err := resource(id, sparql.WebprotegeNS)
	if err != nil {
		return nil, err
	}
	return s.rows(ctx, "list", assignmentParams{Event: event, OrderBy: assignmentOrders["start_date"]})
}

// AssignmentStatistics returns total, approved_count, rejected_count and
// average_rating in a single row
func (s *AssignmentService) AssignmentStatistics(ctx context.Context) (sparql.Row, error) {
	return s.first(ctx, "statistics", assignmentParams{})
}

// SearchAssignments filters on status, minimum rating and start date range
func (s *AssignmentService) SearchAssignments(ctx context.Context, req *models.AssignmentSearchRequest) ([]sparql.Row, error) {
	basic := models.AssignmentSearchRequest{
		Status:    req.Status,
		MinRating: req.MinRating,
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
	}
	params, err := assignmentSearchParams(&basic)
	if err != nil {
		return nil, err
	}
	return s.rows(ctx, "list", params)
}

// AdvancedSearchAssignments also honours max rating, volunteer, event,
// ordering and limit.
func (s *AssignmentService) AdvancedSearchAssignments(ctx context.Context, req *models.AssignmentSearchRequest) ([]sparql.Row, error) {
	params, err := assignmentSearchParams(req)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(req.VolunteerID); v != "" {
		if params.Volunteer, err = resource(v, sparql.WebprotegeNS); err != nil {
			return nil, err
		}
	}
	if v := strings.TrimSpace(req.EventID); v != "" {
		if params.Event, err = resource(v, sparql.WebprotegeNS); err != nil {
			return nil, err
		}
	}

	order, ok := assignmentOrders[strings.TrimSpace(req.SortBy)]
	if !ok {
		return nil, invalidf("sort_by must be one of start_date, rating, status")
	}
	params.OrderBy = order

	limit := defaultAssignmentLimit
	if req.Limit.IsSet() {
		if limit, err = req.Limit.Int(); err != nil {
			return nil, invalidf("limit: %v", err)
		}
		limit = max(1, min(limit, maxAssignmentLimit))
	}
	params.Limit = strconv.Itoa(limit)

	return s.rows(ctx, "list", params)
}

func assignmentSearchParams(req *models.AssignmentSearchRequest) (assignmentParams, error) {
	params := assignmentParams{OrderBy: assignmentOrders["start_date"]}
	if v := strings.TrimSpace(req.Status); v != "" {
		params.Status = sparql.RegexPattern(v)
	}
	if req.MinRating.IsSet() {
		n, err := req.MinRating.Float()
		if err != nil {
			return params, invalidf("min_rating: %v", err)
		}
		params.MinRating = sparql.Decimal(n)
	}
	if req.MaxRating.IsSet() {
		n, err := req.MaxRating.Float()
		if err != nil {
			return params, invalidf("max_rating: %v", err)
		}
		params.MaxRating = sparql.Decimal(n)
	}
	var err error
	if params.DateFrom, err = dateLiteral("date_from", req.DateFrom); err != nil {
		return params, err
	}
	if params.DateTo, err = dateLiteral("date_to", req.DateTo); err != nil {
		return params, err
	}
	return params, nil
}

// dateLiteral turns a YYYY-MM-DD value into an xsd:date literal; empty stays empty.
func dateLiteral(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return "", invalidf("%s must be a YYYY-MM-DD date, got %q", field, value)
	}
	return sparql.Date(t), nil
}
