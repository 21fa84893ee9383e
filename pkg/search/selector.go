package search

import (
	_ "embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

//go:embed templates.rq
var templateSource string

// Slot names a value lifted from the question text into the query.
type Slot string

const (
	// SlotCity fills City with the first known city named in the question.
	SlotCity Slot = "city"
	// SlotRating fills MinRating with the first digit from 1 to 5, or 4.
	SlotRating Slot = "rating"
	// SlotDay fills Day with the selector's current date shifted by
	// DayOffset days.
	SlotDay Slot = "day"
)

// Intent narrows a rule to one template. Keywords match as substrings of the
// lowercased question; an intent with no keywords never matches and is only
// used as a rule default. When With is set, one of its words must occur too.
type Intent struct {
	Name     string
	Keywords []string
	With     []string
	Template string

	Class     string // eco local name
	Status    string // compared lowercased
	Contains  string
	Exclude   string
	Require   string // variable that must be bound
	Order     string
	Limit     int
	Active    bool
	Available bool
	ByCity    bool
	Slot      Slot
	DayOffset int
}

// Rule maps an entity family to its intents.
type Rule struct {
	Entity   string
	Keywords []string
	Intents  []Intent
	Default  Intent
}

// Selection is the outcome of matching a question.
type Selection struct {
	Entity   string `json:"entity"`
	Template string `json:"template"`
	Query    string `json:"query"`
}

// templateParams carries every field any template may reference.
type templateParams struct {
	Class     string
	Status    string
	Contains  string
	Exclude   string
	Require   string
	Order     string
	City      string
	MinRating string
	Day       string
	Limit     int
	Active    bool
	Available bool
	ByCity    bool
}

// DefaultTemplate is used when no rule matches.
const DefaultTemplate = "default"

var knownCities = []string{"new york", "paris", "tunis", "lyon", "marseille", "londres", "london"}

var ratingDigit = regexp.MustCompile(`\b([1-5])\b`)

var (
	countWords = []string{"nombre", "combien", "count"}
	sortWords  = []string{"trier", "sort", "ordre"}
)

// Rules is the keyword table, in priority order.
var Rules = []Rule{
	{
		Entity:   "assignment",
		Keywords: []string{"affectation", "assignment", "assignation", "mission"},
		Intents: []Intent{
			{Name: "rejected", Keywords: []string{"non approuvé", "rejeté", "refusé", "rejected"}, Template: "assignments", Status: "non approuvé"},
			{Name: "approved", Keywords: []string{"approuvé", "approved", "validé"}, Template: "assignments", Status: "approuvé", Exclude: "non approuvé"},
			{Name: "statistics", Keywords: []string{"statistique", "stats", "combien", "moyenne", "average"}, Template: "assignment-stats"},
			{Name: "rated", Keywords: []string{"note", "rating", "étoile", "star", "meilleur"}, Template: "assignments", Slot: SlotRating, Order: "DESC(?rating)"},
		},
		Default: Intent{Name: "all", Template: "assignments"},
	},
	{
		Entity:   "volunteer",
		Keywords: []string{"bénévole", "benevole", "volontaire", "volunteer"},
		Intents: []Intent{
			{Name: "skills", Keywords: []string{"compétence", "competence", "skill"}, Template: "volunteers", Require: "skills"},
			{Name: "medical", Keywords: []string{"médical", "medical", "santé", "health"}, Template: "volunteers", Require: "medicalConditions"},
			{Name: "experience", Keywords: []string{"expérience", "experience"}, Template: "volunteers", Require: "experience"},
			{Name: "active", Keywords: []string{"actif", "active"}, Template: "volunteers", Contains: "actif|active|high|élevé"},
		},
		Default: Intent{Name: "all", Template: "volunteers"},
	},
	{
		Entity:   "donation",
		Keywords: []string{"donation", "les dons", "des dons", "sponsor", "mécène", "mécénat", "commanditaire"},
		Intents: []Intent{
			{Name: "sponsors", Keywords: []string{"sponsor", "mécène", "mécénat", "commanditaire"}, Template: "sponsors"},
			{Name: "financial", Keywords: []string{"financi", "argent", "money"}, Template: "donations", Class: "FinancialDonation"},
			{Name: "material", Keywords: []string{"matériel", "material"}, Template: "donations", Class: "MaterialDonation"},
			{Name: "service", Keywords: []string{"service"}, Template: "donations", Class: "ServiceDonation"},
		},
		Default: Intent{Name: "all", Template: "donations"},
	},
	{
		Entity:   "campaign",
		Keywords: []string{"campagne", "campaign"},
		Intents: []Intent{
			{Name: "count-by-type", Keywords: countWords, With: []string{"type", "catégorie"}, Template: "campaign-count-by-type"},
			{Name: "count", Keywords: countWords, Template: "campaign-count"},
			{Name: "sort-by-start", Keywords: sortWords, With: []string{"début", "start"}, Template: "campaigns", Require: "startDate", Order: "DESC(?startDate)", Limit: 10},
			{Name: "sort", Keywords: sortWords, Template: "campaigns", Order: "DESC(?name)", Limit: 10},
			{Name: "active", Keywords: []string{"actif", "active", "en cours", "current"}, Template: "campaigns", Active: true},
			{Name: "cleanup", Keywords: []string{"nettoyage", "cleanup"}, Template: "campaigns", Class: "CleanupCampaign"},
			{Name: "awareness", Keywords: []string{"sensibilisation", "awareness"}, Template: "campaigns", Class: "AwarenessCampaign"},
			{Name: "funding", Keywords: []string{"financement", "funding"}, Template: "campaigns", Class: "FundingCampaign"},
			{Name: "event", Keywords: []string{"événement", "event"}, Template: "campaigns", Class: "EventCampaign"},
		},
		Default: Intent{Name: "all", Template: "campaigns", Limit: 20},
	},
	{
		Entity:   "resource",
		Keywords: []string{"ressource", "resource"},
		Intents: []Intent{
			{Name: "count-by-category", Keywords: countWords, With: []string{"catégorie", "category"}, Template: "resource-count-by-category"},
			{Name: "count", Keywords: countWords, Template: "resource-count"},
			{Name: "sort-by-cost", Keywords: sortWords, With: []string{"coût", "cost"}, Template: "resources", Require: "unitCost", Order: "DESC(xsd:decimal(?unitCost))", Limit: 10},
			{Name: "sort", Keywords: sortWords, Template: "resources", Order: "DESC(?name)", Limit: 10},
			{Name: "human", Keywords: []string{"humaine", "human"}, Template: "resources", Class: "HumanResource"},
			{Name: "material", Keywords: []string{"matériel", "material"}, Template: "resources", Class: "MaterialResource"},
			{Name: "equipment", Keywords: []string{"équipement", "equipment"}, Template: "resources", Class: "EquipmentResource"},
			{Name: "financial", Keywords: []string{"financière", "financial"}, Template: "resources", Class: "FinancialResource"},
			{Name: "digital", Keywords: []string{"numérique", "digital"}, Template: "resources", Class: "DigitalResource"},
		},
		Default: Intent{Name: "all", Template: "resources", Limit: 20},
	},
	{
		Entity:   "user",
		Keywords: []string{"utilisateur", "user"},
		Default:  Intent{Name: "all", Template: "users", Order: "?firstName", Limit: 20},
	},
	{
		Entity:   "reservation",
		Keywords: []string{"réservation", "reservation", "réserver", "booking"},
		Intents: []Intent{
			{Name: "confirmed", Keywords: []string{"confirmé", "confirmed"}, Template: "reservations", Status: "confirmed"},
			{Name: "pending", Keywords: []string{"attente", "pending"}, Template: "reservations", Status: "pending"},
			{Name: "cancelled", Keywords: []string{"annulé", "cancelled"}, Template: "reservations", Status: "cancelled"},
			{Name: "per-event", Keywords: []string{"par événement", "par event", "groupé"}, Template: "reservations-per-event"},
		},
		Default: Intent{Name: "all", Template: "reservations"},
	},
	{
		Entity:   "event",
		Keywords: []string{"événement", "évènement", "event"},
		Intents: []Intent{
			{Name: "today", Keywords: []string{"aujourd'hui", "aujourd’hui", "today", "ce jour"}, Template: "events-on-day", Slot: SlotDay},
			{Name: "tomorrow", Keywords: []string{"demain", "tomorrow"}, Template: "events-on-day", Slot: SlotDay, DayOffset: 1},
			{Name: "where", Keywords: []string{"où", "where", "lieu"}, Template: "events-where", Slot: SlotCity},
			{Name: "when", Keywords: []string{"quand", "when", "date"}, Template: "events-when"},
			{Name: "organizers", Keywords: []string{"qui organise", "organisateur"}, Template: "events-organizers"},
		},
		Default: Intent{Name: "all", Template: "events"},
	},
	{
		Entity:   "location",
		Keywords: []string{"location", "lieu", "endroit", "salle", "place"},
		Intents: []Intent{
			{Name: "available", Keywords: []string{"disponible", "available"}, Template: "locations", Available: true},
			{Name: "by-city", Keywords: append([]string{"ville", "city"}, knownCities...), Template: "locations", ByCity: true, Slot: SlotCity},
		},
		Default: Intent{Name: "all", Template: "locations"},
	},
	{
		Entity:   "people",
		Keywords: []string{"personne", "organisateur", "organise"},
		Intents: []Intent{
			{Name: "organizers", Keywords: []string{"organisateur", "organise"}, Template: "organizers"},
		},
		Default: Intent{Name: "all", Template: "users", Order: "?lastName ?firstName"},
	},
	{
		Entity:   "certification",
		Keywords: []string{"certification", "certificat", "diplôme", "récompense", "badge"},
		Intents: []Intent{
			{Name: "participation", Keywords: []string{"participation"}, Template: "certifications", Contains: "participation"},
			{Name: "achievement", Keywords: []string{"accomplissement", "achievement"}, Template: "certifications", Contains: "achievement"},
			{Name: "points", Keywords: []string{"points", "eco-points"}, Template: "certifications", Contains: "points", Order: "DESC(?pointsEarned)"},
			{Name: "leadership", Keywords: []string{"leadership", "leader"}, Template: "certifications", Contains: "leadership"},
		},
		Default: Intent{Name: "all", Template: "certifications"},
	},
}

// Selector maps questions to canned queries through a rule table.
type Selector struct {
	rules []Rule
	bank  *sparql.Bank
	now   func() time.Time
}

// NewSelector creates a selector over the built-in rule table
func NewSelector() *Selector {
	return NewSelectorWithRules(Rules)
}

// NewSelectorWithRules creates a selector over a custom table
func NewSelectorWithRules(rules []Rule) *Selector {
	return &Selector{rules: rules, bank: sparql.LoadBank(templateSource), now: time.Now}
}

// WithClock replaces the clock used for date words such as "demain".
func (s *Selector) WithClock(now func() time.Time) *Selector {
	s.now = now
	return s
}

// Select picks the first rule whose keywords occur in the question, then
// the first of its intents that matches, falling back to the rule default.
// A question no rule recognizes gets the default overview query.
func (s *Selector) Select(question string) (Selection, error) {
	q := strings.ToLower(question)

	for _, rule := range s.rules {
		if !containsAny(q, rule.Keywords) {
			continue
		}
		intent := rule.Default
		for _, candidate := range rule.Intents {
			if candidate.matches(q) {
				intent = candidate
				break
			}
		}
		query, err := s.render(intent, q)
		if err != nil {
			return Selection{}, err
		}
		return Selection{Entity: rule.Entity, Template: rule.Entity + "." + intent.Name, Query: query}, nil
	}

	query, err := s.bank.Prepare(DefaultTemplate, templateParams{})
	if err != nil {
		return Selection{}, err
	}
	return Selection{Entity: "any", Template: DefaultTemplate, Query: query}, nil
}

func (s *Selector) render(intent Intent, question string) (string, error) {
	p := templateParams{
		Require:   intent.Require,
		Order:     intent.Order,
		Limit:     intent.Limit,
		Active:    intent.Active,
		Available: intent.Available,
		ByCity:    intent.ByCity,
	}
	if intent.Class != "" {
		class, err := sparql.Eco(intent.Class)
		if err != nil {
			return "", fmt.Errorf("intent %s: %w", intent.Name, err)
		}
		p.Class = class
	}
	if intent.Status != "" {
		p.Status = sparql.Literal(strings.ToLower(intent.Status))
	}
	if intent.Contains != "" {
		p.Contains = sparql.Literal(intent.Contains)
	}
	if intent.Exclude != "" {
		p.Exclude = sparql.Literal(intent.Exclude)
	}

	switch intent.Slot {
	case SlotCity:
		for _, city := range knownCities {
			if strings.Contains(question, city) {
				p.City = sparql.Literal(city)
				break
			}
		}
	case SlotDay:
		day := s.now().AddDate(0, 0, intent.DayOffset)
		p.Day = sparql.Literal(day.Format(time.DateOnly))
	case SlotRating:
		rating := 4
		if m := ratingDigit.FindStringSubmatch(question); m != nil {
			rating, _ = strconv.Atoi(m[1])
		}
		p.MinRating = sparql.Decimal(float64(rating))
	}

	return s.bank.Prepare(intent.Template, p)
}

func (i Intent) matches(question string) bool {
	if !containsAny(question, i.Keywords) {
		return false
	}
	return len(i.With) == 0 || containsAny(question, i.With)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
