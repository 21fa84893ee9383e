package taln

import (
	"fmt"
	"strings"
)

// Entity is a domain term found in the question
type Entity struct {
	Text          string  `json:"text"`
	Type          string  `json:"type"`
	Category      string  `json:"category"`
	Confidence    float64 `json:"confidence"`
	StartPos      *int    `json:"start_pos,omitempty"`
	EndPos        *int    `json:"end_pos,omitempty"`
	OntologyClass string  `json:"ontology_class"`
}

// Relationship links two entities
type Relationship struct {
	Subject      string  `json:"subject"`
	Predicate    string  `json:"predicate"`
	Object       string  `json:"object"`
	Confidence   float64 `json:"confidence"`
	RelationType string  `json:"relation_type,omitempty"`
}

// Intent is what the user wants to do with the data
type Intent struct {
	PrimaryIntent    string   `json:"primary_intent"`
	SecondaryIntents []string `json:"secondary_intents,omitempty"`
	ActionType       string   `json:"action_type,omitempty"`
	QueryType        string   `json:"query_type"`
	Confidence       float64  `json:"confidence,omitempty"`
}

// Keyword is a significant word of the question
type Keyword struct {
	Text         string  `json:"text"`
	Importance   float64 `json:"importance"`
	Category     string  `json:"category"`
	SemanticType string  `json:"semantic_type"`
}

// TemporalInfo holds time expressions
type TemporalInfo struct {
	TimeExpressions []string `json:"time_expressions"`
	RelativeTime    string   `json:"relative_time,omitempty"`
	AbsoluteTime    string   `json:"absolute_time,omitempty"`
	TimePeriod      string   `json:"time_period,omitempty"`
}

// LocationInfo holds place names
type LocationInfo struct {
	Locations            []string `json:"locations"`
	GeographicalEntities []string `json:"geographical_entities,omitempty"`
	SpatialRelations     []string `json:"spatial_relations,omitempty"`
}

// ConfidenceScores rate each part of the analysis
type ConfidenceScores struct {
	Overall                float64 `json:"overall_confidence"`
	EntityRecognition      float64 `json:"entity_recognition"`
	RelationshipExtraction float64 `json:"relationship_extraction"`
	IntentClassification   float64 `json:"intent_classification"`
}

// Metadata describes how the analysis was produced
type Metadata struct {
	Language       string  `json:"language"`
	ProcessingTime float64 `json:"processing_time"`
	APIVersion     string  `json:"api_version"`
	Method         string  `json:"method,omitempty"`
}

// Analysis is the structured reading of one question
type Analysis struct {
	OriginalQuestion string           `json:"original_question"`
	Entities         []Entity         `json:"entities"`
	Relationships    []Relationship   `json:"relationships"`
	Intent           Intent           `json:"intent"`
	Keywords         []Keyword        `json:"keywords"`
	TemporalInfo     TemporalInfo     `json:"temporal_info"`
	LocationInfo     LocationInfo     `json:"location_info"`
	SemanticRoles    []map[string]any `json:"semantic_roles"`
	ConfidenceScores ConfidenceScores `json:"confidence_scores"`
	Metadata         Metadata         `json:"analysis_metadata"`
}

const maxContextKeywords = 10

// StructuredContext renders the analysis as the line-oriented block given
// to the SPARQL generator.
func (a *Analysis) StructuredContext() string {
	parts := []string{"QUESTION: " + a.OriginalQuestion}

	if len(a.Entities) > 0 {
		entities := make([]string, len(a.Entities))
		for i, e := range a.Entities {
			entities[i] = fmt.Sprintf("- %s (%s)", e.Text, e.OntologyClass)
		}
		parts = append(parts, "ENTITIES: "+strings.Join(entities, ", "))
	}

	parts = append(parts, fmt.Sprintf("INTENT: %s - %s", a.Intent.PrimaryIntent, a.Intent.QueryType))

	if a.TemporalInfo.RelativeTime != "" {
		parts = append(parts, "TIME: "+a.TemporalInfo.RelativeTime)
	}
	if len(a.LocationInfo.Locations) > 0 {
		parts = append(parts, "LOCATIONS: "+strings.Join(a.LocationInfo.Locations, ", "))
	}

	if len(a.Keywords) > 0 {
		n := min(len(a.Keywords), maxContextKeywords)
		words := make([]string, n)
		for i := 0; i < n; i++ {
			words[i] = a.Keywords[i].Text
		}
		parts = append(parts, "KEYWORDS: "+strings.Join(words, ", "))
	}

	if len(a.Relationships) > 0 {
		rels := make([]string, len(a.Relationships))
		for i, r := range a.Relationships {
			rels[i] = fmt.Sprintf("%s -> %s -> %s", r.Subject, r.Predicate, r.Object)
		}
		parts = append(parts, "RELATIONSHIPS: "+strings.Join(rels, "; "))
	}

	return strings.Join(parts, "\n")
}
