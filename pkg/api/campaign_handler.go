package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mimir-aip/eco-ontology-go/pkg/ontology"
)

// CampaignHandler handles campaign and resource requests. Its answers keep
// the SPARQL JSON results shape.
type CampaignHandler struct {
	service *ontology.CampaignService
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(service *ontology.CampaignService) *CampaignHandler {
	return &CampaignHandler{service: service}
}

// Register mounts the routes under /api
func (h *CampaignHandler) Register(r chi.Router) {
	r.Get("/campaigns", h.handleListCampaigns)
	r.Get("/campaigns/active", h.handleActiveCampaigns)
	r.Get("/campaigns/type/{type}", h.handleCampaignsByType)
	r.Get("/campaigns/{name}", h.handleGetCampaign)
	r.Get("/campaigns/{name}/resources", h.handleCampaignResources)

	r.Get("/resources", h.handleListResources)
	r.Get("/resources/type/{type}", h.handleResourcesByType)
	r.Get("/resources/{name}", h.handleGetResource)
}

func (h *CampaignHandler) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ListCampaigns(r.Context())
	writeResults(w, res, err)
}

func (h *CampaignHandler) handleActiveCampaigns(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ListActiveCampaigns(r.Context())
	writeResults(w, res, err)
}

func (h *CampaignHandler) handleCampaignsByType(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ListCampaignsByType(r.Context(), pathParam(r, "type"))
	writeResults(w, res, err)
}

func (h *CampaignHandler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.GetCampaign(r.Context(), pathParam(r, "name"))
	writeResults(w, res, err)
}

func (h *CampaignHandler) handleCampaignResources(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ListCampaignResources(r.Context(), pathParam(r, "name"))
	writeResults(w, res, err)
}

func (h *CampaignHandler) handleListResources(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ListResources(r.Context())
	writeResults(w, res, err)
}

func (h *CampaignHandler) handleResourcesByType(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ListResourcesByType(r.Context(), pathParam(r, "type"))
	writeResults(w, res, err)
}

func (h *CampaignHandler) handleGetResource(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.GetResource(r.Context(), pathParam(r, "name"))
	writeResults(w, res, err)
}
