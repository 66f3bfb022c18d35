package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mycelian/mycelian-identities/server/internal/api/respond"
	"github.com/mycelian/mycelian-identities/server/internal/model"
	"github.com/mycelian/mycelian-identities/server/internal/services"
)

type CareerHandler struct {
	svc *services.CareerService
}

func NewCareerHandler(svc *services.CareerService) *CareerHandler {
	return &CareerHandler{svc: svc}
}

// ListCareers GET /api/identities/{id}/careers
func (h *CareerHandler) ListCareers(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*model.IdentityCareer{}
	}
	respond.WriteJSON(w, http.StatusOK, items)
}

// AddCareer POST /api/identities/{id}/careers
func (h *CareerHandler) AddCareer(w http.ResponseWriter, r *http.Request) {
	var req services.AddCareerInput
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

// UpdateCareer PUT /api/identities/{id}/careers/{careerId}
func (h *CareerHandler) UpdateCareer(w http.ResponseWriter, r *http.Request) {
	var req model.CareerPatch
	if !decode(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	out, err := h.svc.Update(r.Context(), vars["id"], vars["careerId"], req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteCareer DELETE /api/identities/{id}/careers/{careerId}
func (h *CareerHandler) DeleteCareer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.svc.Delete(r.Context(), vars["id"], vars["careerId"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteAck(w, "career removed")
}
