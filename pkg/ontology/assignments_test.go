package ontology

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimir-aip/eco-ontology-go/pkg/models"
	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

func TestApprovedExcludesRejected(t *testing.T) {
	client := &fakeClient{}
	svc := NewAssignmentService(client, nil)

	_, err := svc.ListApprovedAssignments(context.Background())
	require.NoError(t, err)
	q := client.lastQuery(t)
	assert.Contains(t, q, `FILTER(REGEX(STR(?status), "approuvé", "i"))`)
	assert.Contains(t, q, `FILTER(!REGEX(STR(?status), "non approuvé", "i"))`)
	assert.Contains(t, q, "ORDER BY DESC(?startDate)")
}

func TestAssignmentLookupsUseWebprotegeIDs(t *testing.T) {
	client := &fakeClient{}
	svc := NewAssignmentService(client, nil)

	_, err := svc.ListAssignmentsByVolunteer(context.Background(), "RvolunteerA")
	require.NoError(t, err)
	assert.Contains(t, client.lastQuery(t), "webprotege:RBNk0vvVsRh8FjaWPGT0XCO <http://webprotege.stanford.edu/RvolunteerA> .")
}

func TestSearchAssignments(t *testing.T) {
	ctx := context.Background()

	t.Run("basic search ignores advanced fields", func(t *testing.T) {
		client := &fakeClient{}
		svc := NewAssignmentService(client, nil)

		_, err := svc.SearchAssignments(ctx, &models.AssignmentSearchRequest{
			Status: "approuvé", MinRating: "3", DateFrom: "2024-05-01",
			EventID: "Revent", Limit: "5",
		})
		require.NoError(t, err)
		q := client.lastQuery(t)
		assert.Contains(t, q, `?rating >= "3"^^<http://www.w3.org/2001/XMLSchema#decimal>`)
		assert.Contains(t, q, `?startDate >= "2024-05-01"^^<http://www.w3.org/2001/XMLSchema#date>`)
		assert.NotContains(t, q, "Revent")
		assert.NotContains(t, q, "LIMIT")
	})

	t.Run("bad dates are caller errors", func(t *testing.T) {
		client := &fakeClient{}
		svc := NewAssignmentService(client, nil)

		_, err := svc.SearchAssignments(ctx, &models.AssignmentSearchRequest{DateTo: "01/02/2024"})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Empty(t, client.queries)
	})

	t.Run("advanced search", func(t *testing.T) {
		client := &fakeClient{}
		svc := NewAssignmentService(client, nil)

		_, err := svc.AdvancedSearchAssignments(ctx, &models.AssignmentSearchRequest{
			MaxRating: "4", VolunteerID: "Rvol", EventID: "Revent", SortBy: "rating", Limit: "5000",
		})
		require.NoError(t, err)
		q := client.lastQuery(t)
		assert.Contains(t, q, `?rating <= "4"^^<http://www.w3.org/2001/XMLSchema#decimal>`)
		assert.Contains(t, q, "<http://webprotege.stanford.edu/Revent>")
		assert.Contains(t, q, "ORDER BY DESC(?rating)")
		assert.Contains(t, q, "LIMIT 1000")
		assert.NoError(t, sparql.Check(q))
	})

	t.Run("unknown sort key", func(t *testing.T) {
		svc := NewAssignmentService(&fakeClient{}, nil)
		_, err := svc.AdvancedSearchAssignments(ctx, &models.AssignmentSearchRequest{SortBy: "?x } DROP ALL"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestAssignmentStatistics(t *testing.T) {
	client := &fakeClient{answers: []*sparql.Results{rows(sparql.Row{"total": "8", "approved_count": "5", "rejected_count": "2", "average_rating": "3.5"})}}
	svc := NewAssignmentService(client, nil)

	stats, err := svc.AssignmentStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "8", stats["total"])
	assert.Equal(t, "3.5", stats["average_rating"])
}

func TestDonations(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		query    models.DonationQuery
		contains []string
		excludes []string
	}{
		{
			name:     "defaults",
			query:    models.DonationQuery{},
			contains: []string{"ORDER BY DESC(?date)", "LIMIT 200", "<http://www.semanticweb.org/eco-ontology#ServiceDonation>"},
		},
		{
			name:     "oldest first with clamped limit",
			query:    models.DonationQuery{Sort: "oldest", Limit: "0"},
			contains: []string{"ORDER BY ASC(?date)", "LIMIT 1"},
		},
		{
			name:     "bad limit keeps the default",
			query:    models.DonationQuery{Limit: "many"},
			contains: []string{"LIMIT 200"},
		},
		{
			name:     "short type name is sanitized",
			query:    models.DonationQuery{Type: "Financial Donation!"},
			contains: []string{"FILTER(?type IN (<http://www.semanticweb.org/eco-ontology#FinancialDonation>))"},
			excludes: []string{"MaterialDonation"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{}
			svc := NewSponsorService(client, nil)

			_, err := svc.ListDonations(ctx, tt.query)
			require.NoError(t, err)
			q := client.lastQuery(t)
			for _, s := range tt.contains {
				assert.Contains(t, q, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, q, s)
			}
		})
	}

	t.Run("type with nothing usable", func(t *testing.T) {
		svc := NewSponsorService(&fakeClient{}, nil)
		_, err := svc.ListDonations(ctx, models.DonationQuery{Type: "!!"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestSearchSponsorsAcceptsFrenchAliases(t *testing.T) {
	client := &fakeClient{}
	svc := NewSponsorService(client, nil)

	_, err := svc.SearchSponsors(context.Background(), &models.SponsorSearchRequest{NomEntreprise: "Green", Secteur: "énergie"})
	require.NoError(t, err)
	q := client.lastQuery(t)
	assert.Contains(t, q, `FILTER(REGEX(STR(?companyName), "Green", "i"))`)
	assert.Contains(t, q, `FILTER(REGEX(STR(?industry), "énergie", "i"))`)
	assert.NoError(t, sparql.Check(q))
}
