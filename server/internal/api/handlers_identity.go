package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mycelian/mycelian-identities/server/internal/api/respond"
	"github.com/mycelian/mycelian-identities/server/internal/api/validate"
	"github.com/mycelian/mycelian-identities/server/internal/model"
	"github.com/mycelian/mycelian-identities/server/internal/services"
)

// IdentityHandler is a thin HTTP transport over IdentityService.
type IdentityHandler struct {
	svc *services.IdentityService
}

func NewIdentityHandler(svc *services.IdentityService) *IdentityHandler {
	return &IdentityHandler{svc: svc}
}

// identityList is the paginated project listing.
type identityList struct {
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Items []*model.Identity `json:"items"`
}

// CreateIdentity POST /api/identities
func (h *IdentityHandler) CreateIdentity(w http.ResponseWriter, r *http.Request) {
	var req services.CreateIdentityInput
	if !decode(w, r, &req) {
		return
	}
	out, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// GetIdentity GET /api/identities/{id}
func (h *IdentityHandler) GetIdentity(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// ListProjectIdentities GET /api/identities/project/{projectId}
func (h *IdentityHandler) ListProjectIdentities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := validate.PageParams(q)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	desc, err := validate.SortOrder(q, true)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	items, total, err := h.svc.ListByProject(r.Context(), model.IdentityFilter{
		ProjectID:    mux.Vars(r)["projectId"],
		CharacterID:  q.Get("character_id"),
		IdentityType: q.Get("identity_type"),
		Status:       q.Get("status"),
		SortBy:       q.Get("sort_by"),
		Descending:   desc,
		Limit:        page.Limit,
		Offset:       page.Offset,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*model.Identity{}
	}
	respond.WriteJSON(w, http.StatusOK, identityList{Total: total, Page: page.Page, Limit: page.Limit, Items: items})
}

// ListCharacterIdentities GET /api/identities/character/{characterId}
func (h *IdentityHandler) ListCharacterIdentities(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListByCharacter(r.Context(), mux.Vars(r)["characterId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*model.Identity{}
	}
	respond.WriteJSON(w, http.StatusOK, items)
}

// UpdateIdentity PUT /api/identities/{id}
func (h *IdentityHandler) UpdateIdentity(w http.ResponseWriter, r *http.Request) {
	var req model.IdentityPatch
	if !decode(w, r, &req) {
		return
	}
	out, err := h.svc.Update(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteIdentity DELETE /api/identities/{id}
func (h *IdentityHandler) DeleteIdentity(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteAck(w, "identity deleted")
}

// SetPrimary POST /api/identities/{id}/set-primary
func (h *IdentityHandler) SetPrimary(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CharacterID string `json:"character_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	out, err := h.svc.SetPrimary(r.Context(), req.CharacterID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
