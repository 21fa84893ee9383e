package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

func TestSelect(t *testing.T) {
	s := NewSelector()

	tests := []struct {
		question string
		template string
		contains []string
		excludes []string
	}{
		{
			question: "Quelles sont les campagnes actives ?",
			template: "campaign.active",
			contains: []string{`FILTER(LCASE(STR(?status)) = "active"`, "eco:Campaign"},
			excludes: []string{"LIMIT"},
		},
		{
			question: "Show me cleanup campaigns",
			template: "campaign.cleanup",
			contains: []string{"?campaign a <http://www.semanticweb.org/eco-ontology#CleanupCampaign> ."},
		},
		{
			question: "Liste des campagnes",
			template: "campaign.all",
			contains: []string{"rdfs:subClassOf* eco:Campaign", "LIMIT 20"},
		},
		{
			question: "Combien de campagnes par type ?",
			template: "campaign.count-by-type",
			contains: []string{"(COUNT(DISTINCT ?campaign) AS ?count)", "GROUP BY ?type"},
		},
		{
			question: "Nombre total de campagnes",
			template: "campaign.count",
			contains: []string{"?totalCampaigns"},
			excludes: []string{"GROUP BY"},
		},
		{
			question: "Trier les campagnes par date de début",
			template: "campaign.sort-by-start",
			contains: []string{"FILTER(BOUND(?startDate))", "ORDER BY DESC(?startDate)", "LIMIT 10"},
		},
		{
			question: "Sort campaigns",
			template: "campaign.sort",
			contains: []string{"ORDER BY DESC(?name)", "LIMIT 10"},
		},
		{
			question: "Combien de ressources par catégorie ?",
			template: "resource.count-by-category",
			contains: []string{"GROUP BY ?category", "ORDER BY DESC(?count)"},
		},
		{
			question: "count resources",
			template: "resource.count",
			contains: []string{"?totalResources"},
		},
		{
			question: "Trier les ressources par coût",
			template: "resource.sort-by-cost",
			contains: []string{"FILTER(BOUND(?unitCost))", "ORDER BY DESC(xsd:decimal(?unitCost))", "PREFIX xsd:"},
		},
		{
			question: "Ressources dans l'ordre",
			template: "resource.sort",
			contains: []string{"ORDER BY DESC(?name)"},
		},
		{
			question: "Quelles ressources humaines ?",
			template: "resource.human",
			contains: []string{"#HumanResource>", "?skillLevel"},
		},
		{
			question: "Tous les utilisateurs",
			template: "user.all",
			contains: []string{"ORDER BY ?firstName", "LIMIT 20"},
		},
		{
			question: "Réservations confirmées pour l'événement",
			template: "reservation.confirmed",
			contains: []string{`FILTER(LCASE(STR(?status)) = "confirmed")`},
		},
		{
			question: "Nombre de réservations par événement",
			template: "reservation.per-event",
			contains: []string{"COUNT(?reservation)", "GROUP BY ?eventTitle ?eventDate ?locationName"},
		},
		{
			question: "Où ont lieu les événements à Paris ?",
			template: "event.where",
			contains: []string{`FILTER(CONTAINS(LCASE(STR(?city)), "paris"))`},
		},
		{
			question: "Quand sont les events ?",
			template: "event.when",
		},
		{
			question: "Quelles salles sont disponibles ?",
			template: "location.available",
			contains: []string{"!BOUND(?reserved)", "ORDER BY ?name"},
		},
		{
			question: "Les salles par ville",
			template: "location.by-city",
			contains: []string{"?country", "ORDER BY ?city ?name"},
			excludes: []string{"CONTAINS"},
		},
		{
			question: "Qui sont les organisateurs ?",
			template: "people.organizers",
			contains: []string{"SELECT DISTINCT ?user"},
		},
		{
			question: "certifications avec le plus de points",
			template: "certification.points",
			contains: []string{`"points"`, "ORDER BY DESC(?pointsEarned)"},
		},
		{
			question: "Bénévoles ayant des compétences",
			template: "volunteer.skills",
			contains: []string{"FILTER(BOUND(?skills))"},
		},
		{
			question: "Affectations des bénévoles non approuvées",
			template: "assignment.rejected",
			contains: []string{`FILTER(REGEX(STR(?status), "non approuvé", "i"))`},
		},
		{
			question: "Affectations approuvées",
			template: "assignment.approved",
			contains: []string{`FILTER(!REGEX(STR(?status), "non approuvé", "i"))`},
		},
		{
			question: "missions avec une note de 3 ou plus",
			template: "assignment.rated",
			contains: []string{`?rating >= "3"^^<http://www.w3.org/2001/XMLSchema#decimal>`},
		},
		{
			question: "Quels sont les sponsors ?",
			template: "donation.sponsors",
		},
		{
			question: "Les dons de matériel",
			template: "donation.material",
			contains: []string{"#MaterialDonation>"},
		},
		{
			question: "Bonjour",
			template: DefaultTemplate,
			contains: []string{"UNION", "ORDER BY ?type ?name", "LIMIT 20"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			sel, err := s.Select(tt.question)
			require.NoError(t, err)
			assert.Equal(t, tt.template, sel.Template)
			for _, want := range tt.contains {
				assert.Contains(t, sel.Query, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, sel.Query, unwanted)
			}
			assert.NoError(t, sparql.Check(sel.Query))
		})
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	s := NewSelector()
	first, err := s.Select("Quelles sont les campagnes actives ?")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := s.Select("QUELLES SONT LES CAMPAGNES ACTIVES ?")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestDateWordsUseTheClock(t *testing.T) {
	now := time.Date(2026, time.March, 31, 18, 30, 0, 0, time.UTC)
	s := NewSelector().WithClock(func() time.Time { return now })

	sel, err := s.Select("Quels événements aujourd'hui ?")
	require.NoError(t, err)
	assert.Equal(t, "event.today", sel.Template)
	assert.Contains(t, sel.Query, `FILTER(STRSTARTS(STR(?date), "2026-03-31"))`)
	assert.NoError(t, sparql.Check(sel.Query))

	sel, err = s.Select("Y a-t-il un event demain ?")
	require.NoError(t, err)
	assert.Equal(t, "event.tomorrow", sel.Template)
	assert.Contains(t, sel.Query, `"2026-04-01"`)
}

func TestRatingSlotDefault(t *testing.T) {
	sel, err := NewSelector().Select("assignments by rating")
	require.NoError(t, err)
	assert.Contains(t, sel.Query, `?rating >= "4"^^<http://www.w3.org/2001/XMLSchema#decimal>`)
}

func TestEveryIntentRenders(t *testing.T) {
	s := NewSelector()
	for _, rule := range Rules {
		intents := append([]Intent{rule.Default}, rule.Intents...)
		for _, intent := range intents {
			q, err := s.render(intent, "paris 3")
			require.NoError(t, err, "%s.%s", rule.Entity, intent.Name)
			assert.NotContains(t, q, "<no value>", "%s.%s", rule.Entity, intent.Name)
			assert.NoError(t, sparql.Check(q), "%s.%s\n%s", rule.Entity, intent.Name, q)
		}
	}
}

func TestCustomRules(t *testing.T) {
	s := NewSelectorWithRules([]Rule{{
		Entity:   "badge",
		Keywords: []string{"badge"},
		Default:  Intent{Name: "leaders", Template: "certifications", Contains: "leadership"},
	}})

	sel, err := s.Select("badges")
	require.NoError(t, err)
	assert.Equal(t, "badge.leaders", sel.Template)

	sel, err = s.Select("campagnes")
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplate, sel.Template)
}
