package ontology

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimir-aip/eco-ontology-go/pkg/models"
	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

// fakeClient records every request and answers queries from a queue.
type fakeClient struct {
	mu      sync.Mutex
	queries []string
	updates []string
	answers []*sparql.Results
	err     error
}

func (f *fakeClient) Query(_ context.Context, query string) (*sparql.Results, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.answers) == 0 {
		return &sparql.Results{Rows: []sparql.Row{}}, nil
	}
	res := f.answers[0]
	f.answers = f.answers[1:]
	return res, nil
}

func (f *fakeClient) Update(_ context.Context, update string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
	return f.err
}

func (f *fakeClient) Ping(context.Context) error { return f.err }

func (f *fakeClient) lastQuery(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.queries)
	return f.queries[len(f.queries)-1]
}

func rows(r ...sparql.Row) *sparql.Results {
	return &sparql.Results{Rows: r}
}

func askResult(b bool) *sparql.Results {
	return &sparql.Results{Rows: []sparql.Row{}, Boolean: &b}
}

const hostile = `x" } ; DROP ALL ; { "`

func TestQueryBanksParse(t *testing.T) {
	event := sparql.MustIRI(sparql.EcoNS + "Event1")
	volunteer := sparql.MustIRI(sparql.WebprotegeNS + "V1")
	blog := sparql.MustIRI(sparql.BlogBase + "b1")
	pattern := sparql.RegexPattern(hostile)
	lit := sparql.Literal(hostile)

	cases := []struct {
		file   string
		tag    string
		params any
	}{
		{"events.rq", "all", eventParams{}},
		{"events.rq", "by-id", eventParams{Event: event}},
		{"events.rq", "search", eventParams{Location: pattern, Date: pattern, Title: pattern}},
		{"locations.rq", "all", locationParams{}},
		{"locations.rq", "by-id", locationParams{Location: event}},
		{"locations.rq", "available", locationParams{}},
		{"locations.rq", "search", locationParams{City: pattern, MinCapacity: sparql.Integer(10), MaxPrice: sparql.Decimal(12.5)}},
		{"users.rq", "all", userParams{}},
		{"users.rq", "by-id", userParams{User: event}},
		{"users.rq", "organizers", userParams{}},
		{"users.rq", "by-role", userParams{Role: pattern}},
		{"reservations.rq", "all", reservationParams{}},
		{"reservations.rq", "all", reservationParams{Status: lit, Event: lit, User: lit}},
		{"reservations.rq", "stats", reservationParams{}},
		{"certifications.rq", "all", certificationParams{}},
		{"certifications.rq", "all", certificationParams{Type: lit, Issuer: lit, MinPoints: sparql.Integer(3)}},
		{"certifications.rq", "stats", certificationParams{}},
		{"certifications.rq", "leaderboard", certificationParams{}},
		{"volunteers.rq", "all", volunteerParams{}},
		{"volunteers.rq", "all", volunteerParams{Volunteer: volunteer, Skills: pattern, ActivityLevel: pattern, MedicalConditions: pattern, Experience: pattern, Motivation: pattern}},
		{"assignments.rq", "list", assignmentParams{OrderBy: "?assignment"}},
		{"assignments.rq", "list", assignmentParams{
			Assignment: volunteer, Volunteer: volunteer, Event: event,
			Status: pattern, ExcludeStatus: pattern,
			MinRating: sparql.Decimal(1), MaxRating: sparql.Decimal(5),
			DateFrom: `"2024-01-01"^^<http://www.w3.org/2001/XMLSchema#date>`,
			DateTo:   `"2024-12-31"^^<http://www.w3.org/2001/XMLSchema#date>`,
			OrderBy:  "DESC(?rating)", Limit: "10",
		}},
		{"assignments.rq", "statistics", assignmentParams{}},
		{"sponsors.rq", "sponsors", sponsorParams{}},
		{"sponsors.rq", "sponsors", sponsorParams{Sponsor: event, Filters: []sponsorFilter{{Var: "companyName", Pattern: pattern}, {Var: "industry", Pattern: pattern}}}},
		{"sponsors.rq", "donations", donationParams{Types: []string{event, volunteer}, Order: "DESC(?date)", Limit: "200"}},
		{"sponsors.rq", "donations", donationParams{Donation: event, Types: []string{event}}},
		{"campaigns.rq", "campaigns", campaignParams{}},
		{"campaigns.rq", "campaigns", campaignParams{Active: true}},
		{"campaigns.rq", "campaigns", campaignParams{Class: event}},
		{"campaigns.rq", "campaigns", campaignParams{Name: lit}},
		{"campaigns.rq", "campaign-resources", campaignParams{Name: lit}},
		{"campaigns.rq", "resources", campaignParams{}},
		{"campaigns.rq", "resources", campaignParams{Class: event}},
		{"campaigns.rq", "resources", campaignParams{Name: lit}},
		{"blogs.rq", "all", blogParams{}},
		{"blogs.rq", "all", blogParams{Blog: blog}},
		{"blogs.rq", "search", blogParams{
			Title: pattern, Keyword: pattern, Category: pattern,
			DateFrom: &dateBound{DateTime: `"2024-01-01T00:00:00Z"^^<http://www.w3.org/2001/XMLSchema#dateTime>`, Date: `"2024-01-01"^^<http://www.w3.org/2001/XMLSchema#date>`},
			DateTo:   &dateBound{DateTime: `"2024-01-31T23:59:59Z"^^<http://www.w3.org/2001/XMLSchema#dateTime>`, Date: `"2024-01-31"^^<http://www.w3.org/2001/XMLSchema#date>`},
		}},
		{"blogs.rq", "exists", blogParams{Blog: blog}},
		{"reviews.rq", "by-blog", reviewParams{Blog: blog}},
		{"reviews.rq", "exists", reviewParams{Review: blog}},
		{"stats.rq", "ontology-info", nil},
		{"stats.rq", "schema-counts", nil},
		{"stats.rq", "instance-counts", nil},
		{"stats.rq", "triple-count", nil},
	}

	for i, tc := range cases {
		t.Run(fmt.Sprintf("%s/%s/%d", tc.file, tc.tag, i), func(t *testing.T) {
			query, err := loadBank(tc.file).Prepare(tc.tag, tc.params)
			require.NoError(t, err)
			assert.NotContains(t, query, "<no value>")
			assert.NotContains(t, query, "{{")
			assert.NoError(t, sparql.Check(query), query)
		})
	}
}

func TestLoadBankMissingFilePanics(t *testing.T) {
	assert.Panics(t, func() { loadBank("nope.rq") })
}

func TestStoreErrorsAreWrapped(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("%w: status 500", sparql.ErrStore)}
	svc := NewEventService(client, nil)

	_, err := svc.ListEvents(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, sparql.ErrStore))
	assert.False(t, errors.Is(err, ErrInvalidInput))
}

func TestEventService(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store yields an empty list", func(t *testing.T) {
		svc := NewEventService(&fakeClient{}, nil)
		events, err := svc.ListEvents(ctx)
		require.NoError(t, err)
		assert.NotNil(t, events)
		assert.Empty(t, events)
	})

	t.Run("get resolves bare ids in the eco namespace", func(t *testing.T) {
		client := &fakeClient{answers: []*sparql.Results{rows(sparql.Row{"title": "Beach cleanup"})}}
		svc := NewEventService(client, nil)

		event, err := svc.GetEvent(ctx, "Event1")
		require.NoError(t, err)
		assert.Equal(t, "Beach cleanup", event["title"])
		assert.Contains(t, client.lastQuery(t), "<http://www.semanticweb.org/eco-ontology#Event1>")
	})

	t.Run("get with no match returns an empty row", func(t *testing.T) {
		svc := NewEventService(&fakeClient{}, nil)
		event, err := svc.GetEvent(ctx, "Missing")
		require.NoError(t, err)
		assert.Empty(t, event)
	})

	t.Run("hostile ids are rejected before any query", func(t *testing.T) {
		client := &fakeClient{}
		svc := NewEventService(client, nil)
		_, err := svc.GetEvent(ctx, "a> . } DROP ALL")
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Empty(t, client.queries)
	})
}

func TestLocationSearchValidatesNumbers(t *testing.T) {
	client := &fakeClient{}
	svc := NewLocationService(client, nil)

	_, err := svc.SearchLocations(context.Background(), &models.LocationSearchRequest{MinCapacity: "lots"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, client.queries)

	_, err = svc.SearchLocations(context.Background(), &models.LocationSearchRequest{City: "Tunis", MinCapacity: "50", MaxPrice: "99.5"})
	require.NoError(t, err)
	q := client.lastQuery(t)
	assert.Contains(t, q, `?capacity >= "50"^^<http://www.w3.org/2001/XMLSchema#integer>`)
	assert.Contains(t, q, `?price <= "99.5"^^<http://www.w3.org/2001/XMLSchema#decimal>`)
	assert.Contains(t, q, `REGEX(STR(?city), "Tunis", "i")`)
}

func TestCampaignService(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{}
	svc := NewCampaignService(client, nil)

	_, err := svc.ListActiveCampaigns(ctx)
	require.NoError(t, err)
	q := client.lastQuery(t)
	assert.Contains(t, q, `LCASE(STR(?status)) = "active"`)
	assert.Contains(t, q, "rdfs:subClassOf* eco:Campaign")

	_, err = svc.ListCampaignsByType(ctx, "ReforestationCampaign")
	require.NoError(t, err)
	assert.Contains(t, client.lastQuery(t), "?campaign a <http://www.semanticweb.org/eco-ontology#ReforestationCampaign>")

	_, err = svc.ListResourcesByType(ctx, "http://evil.example/x")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetCampaign(ctx, `Clean "the" beach`)
	require.NoError(t, err)
	assert.Contains(t, client.lastQuery(t), `FILTER(STR(?name) = "Clean \"the\" beach")`)
}

func TestReservationFiltersAreLowercased(t *testing.T) {
	client := &fakeClient{}
	svc := NewReservationService(client, nil)

	_, err := svc.ListReservationsByStatus(context.Background(), "Confirmed")
	require.NoError(t, err)
	assert.Contains(t, client.lastQuery(t), `FILTER(LCASE(STR(?status)) = "confirmed")`)

	_, err = svc.ListReservationsByUser(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCertificationsByPoints(t *testing.T) {
	client := &fakeClient{}
	svc := NewCertificationService(client, nil)

	_, err := svc.ListCertificationsByPoints(context.Background(), "ten")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ListCertificationsByPoints(context.Background(), "10")
	require.NoError(t, err)
	q := client.lastQuery(t)
	assert.Contains(t, q, `?pointsEarned >= "10"^^<http://www.w3.org/2001/XMLSchema#integer>`)
	assert.Contains(t, q, "ORDER BY DESC(?pointsEarned)")
}

func TestStatsService(t *testing.T) {
	client := &fakeClient{answers: []*sparql.Results{
		rows(sparql.Row{"title": "Eco Ontology", "version": "1.2"}),
		rows(sparql.Row{"classes": "42", "properties": "17", "individuals": "300", "triples": "5000"}),
		rows(sparql.Row{"events": "12", "blogs": "3", "donations": "x"}),
	}}
	svc := NewStatsService(client, nil)

	stats, err := svc.OntologyStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "success", stats.Status)
	assert.Equal(t, "Eco Ontology", stats.OntologyInfo.Title)
	assert.Equal(t, 42, stats.Statistics.TotalClasses)
	assert.Equal(t, 5000, stats.Statistics.TotalTriples)
	assert.Equal(t, 12, stats.Instances.Events)
	assert.Equal(t, 3, stats.Instances.Blogs)
	assert.Equal(t, 0, stats.Instances.Donations)
	assert.Len(t, client.queries, 3)
}

func TestQueriesNeverCarryRawInput(t *testing.T) {
	client := &fakeClient{}
	svcs := NewServices(client, nil)
	ctx := context.Background()

	_, _ = svcs.Users.ListUsersByRole(ctx, hostile)
	_, _ = svcs.Reservations.ListReservationsByEvent(ctx, hostile)
	_, _ = svcs.Certifications.ListCertificationsByIssuer(ctx, hostile)
	_, _ = svcs.Volunteers.ListVolunteersByActivityLevel(ctx, hostile)
	_, _ = svcs.Assignments.ListAssignmentsByStatus(ctx, hostile)

	require.Len(t, client.queries, 5)
	for _, q := range client.queries {
		assert.False(t, strings.Contains(q, hostile), q)
		assert.NoError(t, sparql.Check(q), q)
	}
}
