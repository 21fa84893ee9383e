package taln

import (
	"strings"
	"unicode/utf8"
)

type keywordClass struct {
	class    string
	keywords []string
}

// entityTable is scanned in order; every keyword found in the question adds
// one entity, so a keyword listed under two classes yields two entities.
var entityTable = []keywordClass{
	{"eco:Event", []string{"événement", "event", "évènement", "evenement", "événements", "events", "manifestation", "manifestations"}},
	{"eco:EducationalEvent", []string{"atelier", "ateliers", "workshop", "workshops", "formation", "formations", "training", "trainings", "séminaire", "séminaires", "seminar", "seminars", "conférence", "conférences", "conference", "conferences", "cours", "course", "courses", "éducation", "education"}},
	{"eco:EntertainmentEvent", []string{"festival", "festivals", "fête", "fêtes", "party", "parties", "concert", "concerts", "spectacle", "spectacles", "show", "shows", "divertissement", "entertainment", "loisir", "loisirs", "leisure"}},
	{"eco:CompetitiveEvent", []string{"compétition", "compétitions", "competition", "competitions", "challenge", "challenges", "défi", "défis", "contest", "contests", "tournoi", "tournois", "tournament", "tournaments", "marathon", "marathons"}},
	{"eco:SocializationEvent", []string{"socialisation", "socialization", "réseautage", "networking", "rencontre", "meeting", "social"}},
	{"eco:Campaign", []string{"campagne", "campaign", "initiative", "initiatives"}},
	{"eco:AwarenessCampaign", []string{"campagne", "campaign", "sensibilisation", "awareness", "information", "éducation"}},
	{"eco:CleanupCampaign", []string{"nettoyage", "cleanup", "ramassage", "collecte", "déchets", "waste"}},
	{"eco:FundingCampaign", []string{"financement", "funding", "don", "donation", "collecte", "fundraising"}},
	{"eco:Location", []string{"location", "lieu", "endroit", "salle", "place", "venue", "local", "site", "adresse", "address"}},
	{"eco:Indoor", []string{"intérieur", "indoor", "salle", "hall", "auditorium", "salle de conférence"}},
	{"eco:Outdoor", []string{"extérieur", "outdoor", "parc", "park", "jardin", "garden", "plage", "beach"}},
	{"eco:VirtualPlatform", []string{"virtuel", "virtual", "en ligne", "online", "webinaire", "webinar"}},
	{"webprotege:RCXXzqv27uFuX5nYU81XUvw", []string{"volontaire", "volunteer", "bénévole", "benevole", "volontaires", "volunteers"}},
	{"webprotege:Rj2A7xNWLfpNcbE4HJMKqN", []string{"assignement", "assignment", "assignation", "affectation", "assignements", "assignments"}},
	{"eco:Resource", []string{"ressource", "resource", "équipement", "equipment", "matériel", "material"}},
	{"eco:DigitalResource", []string{"ressource numérique", "digital resource", "logiciel", "software", "application", "app"}},
	{"eco:EquipmentResource", []string{"équipement", "equipment", "outil", "tool", "matériel", "material"}},
	{"eco:HumanResource", []string{"ressource humaine", "human resource", "personnel", "staff", "équipe", "team"}},
	{"eco:Reservation", []string{"réservation", "reservation", "réserver", "booking", "réservations", "reservations"}},
	{"eco:Blog", []string{"blog", "article", "publication", "post", "blogs", "articles"}},
	{"eco:Certification", []string{"certification", "certificat", "diplôme", "diploma", "récompense", "reward", "badge"}},
}

// broadEntities is only consulted when entityTable found nothing.
var broadEntities = []struct {
	text, typ, class string
	terms            []string
}{
	{"événement", "Event", "eco:Event", []string{"événement", "event", "évènement", "evenement", "événements", "events"}},
	{"volontaire", "Volunteer", "webprotege:RCXXzqv27uFuX5nYU81XUvw", []string{"volontaire", "volunteer", "bénévole", "benevole"}},
	{"assignement", "Assignment", "webprotege:Rj2A7xNWLfpNcbE4HJMKqN", []string{"assignement", "assignment", "assignation", "affectation"}},
	{"campagne", "Campaign", "eco:Campaign", []string{"campagne", "campaign"}},
	{"certification", "Certification", "eco:Certification", []string{"certification", "certificat", "diplôme", "récompense", "badge"}},
}

var temporalTable = []keywordClass{
	{"future", []string{"à venir", "futur", "future", "upcoming", "prochain", "demain", "tomorrow"}},
	{"past", []string{"passé", "past", "ancien", "previous", "terminé", "hier", "yesterday"}},
	{"present", []string{"aujourd'hui", "today", "ce jour", "actuel", "current"}},
	{"week", []string{"semaine", "week", "weekend", "week-end"}},
	{"month", []string{"mois", "month"}},
	{"year", []string{"année", "year", "annuel", "annual"}},
}

var knownLocations = []string{"paris", "london", "new york", "boston", "chicago", "san francisco", "tunis"}

// intentTable is scanned in order and the last matching intent wins.
var intentTable = []keywordClass{
	{"list", []string{"quelles", "quels", "montre", "liste", "tous", "all", "every"}},
	{"count", []string{"combien", "nombre", "total", "count", "how many"}},
	{"filter", []string{"par", "par type", "par catégorie", "par ville", "par date"}},
	{"search", []string{"recherche", "trouve", "find", "search", "cherche"}},
	{"details", []string{"détails", "informations", "details", "information", "qui", "où", "quand"}},
}

var stopWords = map[string]bool{"les": true, "des": true, "une": true, "pour": true, "avec": true, "dans": true, "sur": true}

// Fallback analyses a question with local keyword tables. It is used when
// the TALN API is not configured or does not answer.
func Fallback(question string) *Analysis {
	q := strings.ToLower(question)

	a := &Analysis{
		OriginalQuestion: question,
		Entities:         fallbackEntities(q),
		Relationships:    []Relationship{},
		Intent:           Intent{PrimaryIntent: "unknown", QueryType: "general"},
		Keywords:         []Keyword{},
		TemporalInfo:     TemporalInfo{TimeExpressions: []string{}},
		LocationInfo:     LocationInfo{Locations: []string{}},
		SemanticRoles:    []map[string]any{},
		ConfidenceScores: ConfidenceScores{
			Overall:                0.6,
			EntityRecognition:      0.7,
			RelationshipExtraction: 0.3,
			IntentClassification:   0.8,
		},
		Metadata: Metadata{Language: "fr", ProcessingTime: 0.1, APIVersion: "fallback", Method: "pattern_matching"},
	}

	for _, period := range temporalTable {
		if kw, ok := firstContained(q, period.keywords); ok {
			a.TemporalInfo.TimeExpressions = append(a.TemporalInfo.TimeExpressions, kw)
			a.TemporalInfo.RelativeTime = period.class
		}
	}

	for _, loc := range knownLocations {
		if strings.Contains(q, loc) {
			a.LocationInfo.Locations = append(a.LocationInfo.Locations, loc)
		}
	}

	for _, intent := range intentTable {
		if _, ok := firstContained(q, intent.keywords); ok {
			a.Intent.PrimaryIntent = intent.class
			a.Intent.QueryType = intent.class
		}
	}

	for _, word := range strings.Fields(question) {
		lower := strings.ToLower(word)
		if utf8.RuneCountInString(word) <= 3 || stopWords[lower] {
			continue
		}
		a.Keywords = append(a.Keywords, Keyword{Text: lower, Importance: 0.5, Category: "general", SemanticType: "keyword"})
	}

	return a
}

func fallbackEntities(q string) []Entity {
	entities := []Entity{}
	for _, row := range entityTable {
		for _, kw := range row.keywords {
			if strings.Contains(q, kw) {
				entities = append(entities, Entity{
					Text:          kw,
					Type:          localPart(row.class),
					Category:      "domain_entity",
					Confidence:    0.8,
					OntologyClass: row.class,
				})
			}
		}
	}
	if len(entities) > 0 {
		return entities
	}

	for _, b := range broadEntities {
		if _, ok := firstContained(q, b.terms); ok {
			entities = append(entities, Entity{
				Text:          b.text,
				Type:          b.typ,
				Category:      "domain_entity",
				Confidence:    0.9,
				OntologyClass: b.class,
			})
		}
	}
	return entities
}

func firstContained(q string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return kw, true
		}
	}
	return "", false
}

func localPart(class string) string {
	if i := strings.IndexByte(class, ':'); i >= 0 {
		return class[i+1:]
	}
	return class
}
