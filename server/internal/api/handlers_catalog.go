package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mycelian/mycelian-identities/server/internal/api/respond"
	"github.com/mycelian/mycelian-identities/server/internal/model"
	"github.com/mycelian/mycelian-identities/server/internal/services"
)

// CatalogHandler serves the characters and careers identities refer to.
type CatalogHandler struct {
	svc *services.CatalogService
}

func NewCatalogHandler(svc *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// CreateCharacter POST /api/characters
func (h *CatalogHandler) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	var req model.Character
	if !decode(w, r, &req) {
		return
	}
	out, err := h.svc.CreateCharacter(r.Context(), &model.Character{ProjectID: req.ProjectID, Name: req.Name})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListCharacters GET /api/characters/project/{projectId}
func (h *CatalogHandler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListCharacters(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*model.Character{}
	}
	respond.WriteJSON(w, http.StatusOK, items)
}

// CreateCareer POST /api/careers
func (h *CatalogHandler) CreateCareer(w http.ResponseWriter, r *http.Request) {
	var req model.Career
	if !decode(w, r, &req) {
		return
	}
	out, err := h.svc.CreateCareer(r.Context(), &model.Career{
		ProjectID: req.ProjectID, Name: req.Name, Type: req.Type, MaxStage: req.MaxStage,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListCareers GET /api/careers/project/{projectId}
func (h *CatalogHandler) ListCareers(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListCareers(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*model.Career{}
	}
	respond.WriteJSON(w, http.StatusOK, items)
}
