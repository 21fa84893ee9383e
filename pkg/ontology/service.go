package ontology

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

//go:embed queries/*.rq
var queryFiles embed.FS

var (
	// ErrInvalidInput marks a request the caller can fix.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a mutated resource does not exist.
	ErrNotFound = errors.New("not found")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// loadBank reads one embedded query file. The files ship with the binary, so
// a missing one is a programming error.
func loadBank(name string) *sparql.Bank {
	data, err := queryFiles.ReadFile("queries/" + name)
	if err != nil {
		panic(fmt.Sprintf("ontology: missing query file %s: %v", name, err))
	}
	return sparql.LoadBank(string(data))
}

// base holds what every concept service needs: the store, its query bank
// and a logger.
type base struct {
	client sparql.Client
	bank   *sparql.Bank
	logger *slog.Logger
}

func newBase(client sparql.Client, file string, logger *slog.Logger) base {
	if logger == nil {
		logger = slog.Default()
	}
	return base{client: client, bank: loadBank(file), logger: logger}
}

func (b *base) prepare(tag string, params any) (string, error) {
	return b.bank.Prepare(tag, params)
}

func (b *base) results(ctx context.Context, tag string, params any) (*sparql.Results, error) {
	query, err := b.prepare(tag, params)
	if err != nil {
		return nil, err
	}
	res, err := b.client.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s failed: %w", tag, err)
	}
	return res, nil
}

func (b *base) rows(ctx context.Context, tag string, params any) ([]sparql.Row, error) {
	res, err := b.results(ctx, tag, params)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

func (b *base) first(ctx context.Context, tag string, params any) (sparql.Row, error) {
	res, err := b.results(ctx, tag, params)
	if err != nil {
		return nil, err
	}
	return res.First(), nil
}

func (b *base) ask(ctx context.Context, tag string, params any) (bool, error) {
	res, err := b.results(ctx, tag, params)
	if err != nil {
		return false, err
	}
	return res.Boolean != nil && *res.Boolean, nil
}

func (b *base) update(ctx context.Context, update string) error {
	if err := b.client.Update(ctx, update); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	return nil
}

// resource resolves a path identifier; bad identifiers are caller errors.
func resource(id, ns string) (string, error) {
	term, err := sparql.Resource(id, ns)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return term, nil
}

// Services bundles one service per ontology concept over a shared client.
type Services struct {
	Events         *EventService
	Locations      *LocationService
	Users          *UserService
	Campaigns      *CampaignService
	Reservations   *ReservationService
	Certifications *CertificationService
	Volunteers     *VolunteerService
	Assignments    *AssignmentService
	Sponsors       *SponsorService
	Blogs          *BlogService
	Reviews        *ReviewService
	Stats          *StatsService
}

// NewServices creates every concept service
func NewServices(client sparql.Client, logger *slog.Logger) *Services {
	return &Services{
		Events:         NewEventService(client, logger),
		Locations:      NewLocationService(client, logger),
		Users:          NewUserService(client, logger),
		Campaigns:      NewCampaignService(client, logger),
		Reservations:   NewReservationService(client, logger),
		Certifications: NewCertificationService(client, logger),
		Volunteers:     NewVolunteerService(client, logger),
		Assignments:    NewAssignmentService(client, logger),
		Sponsors:       NewSponsorService(client, logger),
		Blogs:          NewBlogService(client, logger),
		Reviews:        NewReviewService(client, logger),
		Stats:          NewStatsService(client, logger),
	}
}
