package llm

import (
	"strconv"
	"strings"

	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

// ClassSchema lists the properties the model may use for one class.
type ClassSchema struct {
	Name       string
	Properties []string
}

// Schema is the part of the ontology described to the model.
type Schema struct {
	Prefixes []string // well-known prefix names, see sparql.Prologue
	Classes  []ClassSchema
	// Aliases explains opaque IRIs, one line each.
	Aliases  []string
	Patterns []string
	Rules    []string
}

// DefaultSchema describes the eco-ontology dataset.
var DefaultSchema = Schema{
	Prefixes: []string{"eco", "webprotege"},
	Classes: []ClassSchema{
		{Name: "Event", Properties: []string{"eventTitle", "eventDate", "eventDescription", "maxParticipants", "isLocatedAt", "isOrganizedBy", "eventStatus", "duration", "eventImages", "eventType"}},
		{Name: "Location", Properties: []string{"locationName", "address", "city", "country", "capacity", "price", "reserved", "inRepair", "locationDescription", "latitude", "longitude", "locationImages", "locationType"}},
		{Name: "User", Properties: []string{"firstName", "lastName", "email", "role", "phone", "registrationDate"}},
		{Name: "Campaign", Properties: []string{"campaignName", "campaignDescription", "campaignStatus", "startDate", "endDate", "goal", "targetAmount", "fundsRaised", "targetParticipants", "requiresResource"}},
		{Name: "Resource", Properties: []string{"resourceName", "resourceDescription", "resourceCategory", "quantityAvailable", "unitCost"}},
		{Name: "Reservation", Properties: []string{"belongsToUser", "confirmedBy", "numberOfTickets", "reservationStatus", "reservationDate"}},
		{Name: "Certification", Properties: []string{"awardedTo", "issuedBy", "certificateCode", "pointsEarned", "certificationType"}},
		{Name: "Sponsor", Properties: []string{"companyName", "industry", "contactEmail", "phoneNumber", "website", "hasSponsorshipLevel", "makesDonation"}},
		{Name: "Donation", Properties: []string{"amount", "currency", "dateDonated", "itemDescription", "estimatedValue", "hoursDonated", "fundsEvent", "donationType"}},
		{Name: "Blog", Properties: []string{"blogTitle", "blogContent", "category", "publicationDate"}},
	},
	Aliases: []string{
		"Campaign subclasses: CleanupCampaign, AwarenessCampaign, FundingCampaign, EventCampaign",
		"Resource subclasses: HumanResource, MaterialResource, EquipmentResource, FinancialResource, DigitalResource",
		"Donation subclasses: FinancialDonation, MaterialDonation, ServiceDonation",
		"Volunteer class: webprotege:RCXXzqv27uFuX5nYU81XUvw (skills webprotege:RBqpxvMVBnwM1Wb6OhzTpHf, activity level webprotege:RCHqvY6cUdoI8XfAt441VX0, experience webprotege:R9tdW5crNU837y5TemwdNfR, motivation webprotege:R9PW79FzwQKWuQYdTdYlHzN)",
		"Assignment class: webprotege:Rj2A7xNWLfpNcbE4HJMKqN (volunteer webprotege:RBNk0vvVsRh8FjaWPGT0XCO, event webprotege:RBqttmTqH5uyTK64wj0hDiD, start date webprotege:RD3Wor03BEPInfzUaMNVPC7, status webprotege:RDT3XEARggTy1BIBKDXXrmx, rating webprotege:RRatingAssignment)",
	},
	Patterns: []string{
		"For event type questions: Use FILTER with CONTAINS/REGEX on eventTitle, eventDescription, or eventType",
		"For location type questions: Use FILTER with CONTAINS/REGEX on locationName, locationType, or address",
		"For date filters: Use FILTER(?date >= NOW()) for future, FILTER(?date < NOW()) for past",
		`For city filters: FILTER(CONTAINS(LCASE(STR(?city)), "cityname"))`,
		`For text searches: Use FILTER(CONTAINS(LCASE(STR(?field)), "searchterm"))`,
		"For available locations: FILTER(!BOUND(?reserved) || ?reserved = false) && FILTER(!BOUND(?inRepair) || ?inRepair = false)",
		"For subclasses: ?sub rdfs:subClassOf* eco:Campaign . ?x a ?sub .",
	},
	Rules: []string{
		"Always use PREFIX eco: <http://www.semanticweb.org/eco-ontology#>",
		"Use OPTIONAL for properties that might not exist",
		"Use ORDER BY when appropriate for sorting",
		"Use LIMIT 20-50 to prevent too many results",
		"Make location properties OPTIONAL (locationName, city, etc.)",
		"Return ONLY the SPARQL query, no explanations",
		"Be creative and adapt to the specific question",
	},
}

// Prompt is the input of one generation. Exactly one of Question or Context
// is normally set; Context carries a structured analysis of the question.
type Prompt struct {
	Schema   Schema
	Question string
	Context  string
}

// String renders the prompt text sent to the model.
func (p Prompt) String() string {
	var sb strings.Builder

	sb.WriteString("You are a SPARQL query generator for an ecological events platform. ")
	if p.Context != "" {
		sb.WriteString("Convert the analyzed question below to a valid SPARQL query.\n\n")
	} else {
		sb.WriteString("Convert the natural language question to a valid SPARQL query.\n\n")
	}

	sb.WriteString("ONTOLOGY CONTEXT:\n")
	for _, line := range strings.Split(strings.TrimSpace(sparql.Prologue(p.Schema.Prefixes...)), "\n") {
		if line != "" {
			sb.WriteString(strings.Replace(line, "PREFIX ", "Prefix: ", 1))
			sb.WriteByte('\n')
		}
	}

	names := make([]string, len(p.Schema.Classes))
	for i, c := range p.Schema.Classes {
		names[i] = c.Name
	}
	sb.WriteString("\nMAIN CLASSES:\n- ")
	sb.WriteString(strings.Join(names, ", "))
	sb.WriteString("\n")

	for _, c := range p.Schema.Classes {
		sb.WriteString("\n")
		sb.WriteString(strings.ToUpper(c.Name))
		sb.WriteString(" PROPERTIES:\n- ")
		sb.WriteString(strings.Join(c.Properties, ", "))
		sb.WriteString("\n")
	}

	writeList(&sb, "OTHER CLASSES", p.Schema.Aliases)
	writeList(&sb, "IMPORTANT QUERY PATTERNS", p.Schema.Patterns)

	rules := make([]string, len(p.Schema.Rules))
	copy(rules, p.Schema.Rules)
	if p.Context != "" {
		rules = append(rules, "Use the entities, intent, time and locations of the analysis to choose classes and filters")
	}
	sb.WriteString("\nCRITICAL RULES:\n")
	for i, r := range rules {
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString(". ")
		sb.WriteString(r)
		sb.WriteString("\n")
	}

	if p.Context != "" {
		sb.WriteString("\nSTRUCTURED ANALYSIS:\n")
		sb.WriteString(strings.TrimSpace(p.Context))
		sb.WriteString("\n")
	} else {
		sb.WriteString("\nQUESTION: \"")
		sb.WriteString(p.Question)
		sb.WriteString("\"\n")
	}
	sb.WriteString("\nSPARQL QUERY:")

	return sb.String()
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString(":\n")
	for _, item := range items {
		sb.WriteString("- ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
}
