package models

// OntologyInfo describes the loaded ontology
type OntologyInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// OntologyStatistics holds schema level counts
type OntologyStatistics struct {
	TotalClasses     int `json:"total_classes"`
	TotalProperties  int `json:"total_properties"`
	TotalIndividuals int `json:"total_individuals"`
	TotalTriples     int `json:"total_triples"`
}

// InstanceCounts holds per concept instance counts
type InstanceCounts struct {
	Events    int `json:"events"`
	Locations int `json:"locations"`
	Users     int `json:"users"`
	Campaigns int `json:"campaigns"`
	Resources int `json:"resources"`
	Sponsors  int `json:"sponsors"`
	Donations int `json:"donations"`
	Blogs     int `json:"blogs"`
}

// OntologyStats is returned by GET /api/ontology-stats
type OntologyStats struct {
	Status       string             `json:"status"`
	OntologyInfo OntologyInfo       `json:"ontology_info"`
	Statistics   OntologyStatistics `json:"statistics"`
	Instances    InstanceCounts     `json:"instances"`
}
