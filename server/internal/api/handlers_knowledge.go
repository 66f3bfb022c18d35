package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mycelian/mycelian-identities/server/internal/api/respond"
	"github.com/mycelian/mycelian-identities/server/internal/model"
	"github.com/mycelian/mycelian-identities/server/internal/services"
)

type KnowledgeHandler struct {
	svc *services.KnowledgeService
}

func NewKnowledgeHandler(svc *services.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{svc: svc}
}

// ListKnowledge GET /api/identities/{id}/knowledge
func (h *KnowledgeHandler) ListKnowledge(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*model.IdentityKnowledge{}
	}
	respond.WriteJSON(w, http.StatusOK, items)
}

// AddKnowledge POST /api/identities/{id}/knowledge
func (h *KnowledgeHandler) AddKnowledge(w http.ResponseWriter, r *http.Request) {
	var req services.AddKnowledgeInput
	if !decode(w, r, &req) {
		return
	}
	out, err := h.svc.Add(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// UpdateKnowledge PUT /api/identities/{id}/knowledge/{knowledgeId}
func (h *KnowledgeHandler) UpdateKnowledge(w http.ResponseWriter, r *http.Request) {
	var req model.KnowledgePatch
	if !decode(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	out, err := h.svc.Update(r.Context(), vars["id"], vars["knowledgeId"], req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteKnowledge DELETE /api/identities/{id}/knowledge/{knowledgeId}
func (h *KnowledgeHandler) DeleteKnowledge(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.svc.Delete(r.Context(), vars["id"], vars["knowledgeId"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteAck(w, "knowledge removed")
}

// CheckKnowledge GET /api/identities/{id}/knowledge/check?knower_character_id=
func (h *KnowledgeHandler) CheckKnowledge(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Check(r.Context(), mux.Vars(r)["id"], r.URL.Query().Get("knower_character_id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
