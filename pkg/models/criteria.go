package models

// EventSearchRequest filters events by location name, date and title
type EventSearchRequest struct {
	Location string `json:"location"`
	Date     string `json:"date"`
	Title    string `json:"title"`
}

// LocationSearchRequest filters locations by city, capacity and price
type LocationSearchRequest struct {
	City        string `json:"city"`
	MinCapacity Number `json:"min_capacity"`
	MaxPrice    Number `json:"max_price"`
}

// VolunteerSearchRequest filters volunteers by profile fields
type VolunteerSearchRequest struct {
	Skills            string `json:"skills"`
	ActivityLevel     string `json:"activity_level"`
	MedicalConditions string `json:"medical_conditions"`
	Experience        string `json:"experience"`
	Motivation        string `json:"motivation"`
}

// AssignmentSearchRequest filters volunteer assignments. The volunteer,
// event, max rating and sort fields are only honoured by the advanced search.
type AssignmentSearchRequest struct {
	Status      string `json:"status"`
	MinRating   Number `json:"min_rating"`
	MaxRating   Number `json:"max_rating"`
	DateFrom    string `json:"date_from"`
	DateTo      string `json:"date_to"`
	VolunteerID string `json:"volunteer_id"`
	EventID     string `json:"event_id"`
	SortBy      string `json:"sort_by"` // start_date (default), rating, status
	Limit       Number `json:"limit"`
}

// SponsorSearchRequest accepts both the English and the French field names
// used by the frontend.
type SponsorSearchRequest struct {
	Name             string `json:"name"`
	CompanyName      string `json:"companyName"`
	NomEntreprise    string `json:"nomEntreprise"`
	Industry         string `json:"industry"`
	Secteur          string `json:"secteur"`
	Email            string `json:"email"`
	Courriel         string `json:"courriel"`
	Phone            string `json:"phone"`
	Telephone        string `json:"telephone"`
	Website          string `json:"website"`
	SiteWeb          string `json:"siteWeb"`
	SponsorshipLevel string `json:"sponsorshipLevel"`
	NiveauSponsoring string `json:"niveauDeSponsoring"`
}

// Criteria returns the filters keyed by the projected variable they apply to
func (r *SponsorSearchRequest) Criteria() map[string]string {
	pick := func(values ...string) string {
		for _, v := range values {
			if v != "" {
				return v
			}
		}
		return ""
	}
	out := map[string]string{}
	add := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	add("companyName", pick(r.Name, r.CompanyName, r.NomEntreprise))
	add("industry", pick(r.Industry, r.Secteur))
	add("contactEmail", pick(r.Email, r.Courriel))
	add("phoneNumber", pick(r.Phone, r.Telephone))
	add("website", pick(r.Website, r.SiteWeb))
	add("levelName", pick(r.SponsorshipLevel, r.NiveauSponsoring))
	return out
}

// DonationQuery holds the query string of GET /api/donations
type DonationQuery struct {
	Type  string
	Sort  string
	Limit string
}

// BlogSearchRequest filters blog posts
type BlogSearchRequest struct {
	Title    string `json:"title"`
	Keyword  string `json:"keyword"`
	Category string `json:"category"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}
