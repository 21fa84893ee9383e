package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mimir-aip/eco-ontology-go/pkg/models"
	"github.com/mimir-aip/eco-ontology-go/pkg/ontology"
)

// SponsorHandler handles sponsor and donation requests
type SponsorHandler struct {
	service *ontology.SponsorService
}

// NewSponsorHandler creates a new sponsor handler
func NewSponsorHandler(service *ontology.SponsorService) *SponsorHandler {
	return &SponsorHandler{service: service}
}

// Register mounts the routes under /api
func (h *SponsorHandler) Register(r chi.Router) {
	r.Get("/sponsors", h.handleListSponsors)
	r.Post("/sponsors/search", h.handleSearchSponsors)
	r.Get("/sponsors/{id}", h.handleGetSponsor)

	r.Get("/donations", h.handleListDonations)
	r.Get("/donations/{id}", h.handleGetDonation)
}

func (h *SponsorHandler) handleListSponsors(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListSponsors(r.Context())
	writeRows(w, rows, err)
}

func (h *SponsorHandler) handleSearchSponsors(w http.ResponseWriter, r *http.Request) {
	var req models.SponsorSearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rows, err := h.service.SearchSponsors(r.Context(), &req)
	writeRows(w, rows, err)
}

func (h *SponsorHandler) handleGetSponsor(w http.ResponseWriter, r *http.Request) {
	row, err := h.service.GetSponsor(r.Context(), pathParam(r, "id"))
	writeRow(w, row, err)
}

// handleListDonations handles GET /api/donations?type=&sort=&limit=
func (h *SponsorHandler) handleListDonations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := h.service.ListDonations(r.Context(), models.DonationQuery{
		Type:  q.Get("type"),
		Sort:  q.Get("sort"),
		Limit: q.Get("limit"),
	})
	writeRows(w, rows, err)
}

func (h *SponsorHandler) handleGetDonation(w http.ResponseWriter, r *http.Request) {
	row, err := h.service.GetDonation(r.Context(), pathParam(r, "id"))
	writeRow(w, row, err)
}
