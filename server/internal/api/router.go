package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mycelian/mycelian-identities/server/internal/api/recovery"
	"github.com/mycelian/mycelian-identities/server/internal/auth"
	"github.com/mycelian/mycelian-identities/server/internal/services"
	"github.com/mycelian/mycelian-identities/server/internal/store"
)

// Deps carries what the router needs.
type Deps struct {
	Store      store.Store
	Authorizer auth.Authorizer
	IsHealthy  func() bool
	Log        zerolog.Logger
}

// NewRouter creates the HTTP router with all API routes. Health and metrics
// are public; everything else under /api requires a bearer token.
func NewRouter(d Deps) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware(d.Log))
	router.Use(metricsMiddleware)

	identitySvc := services.NewIdentityService(d.Store)
	careerSvc := services.NewCareerService(d.Store, identitySvc)
	knowledgeSvc := services.NewKnowledgeService(d.Store, identitySvc)
	catalogSvc := services.NewCatalogService(d.Store)

	healthHandler := NewHealthHandler(d.IsHealthy)
	identityHandler := NewIdentityHandler(identitySvc)
	careerHandler := NewCareerHandler(careerSvc)
	knowledgeHandler := NewKnowledgeHandler(knowledgeSvc)
	catalogHandler := NewCatalogHandler(catalogSvc)

	// Public endpoints
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.Middleware(d.Authorizer, d.Log))

	// Identity endpoints; the fixed segments are registered before {id}.
	api.HandleFunc("/identities", identityHandler.CreateIdentity).Methods("POST")
	api.HandleFunc("/identities/project/{projectId}", identityHandler.ListProjectIdentities).Methods("GET")
	api.HandleFunc("/identities/character/{characterId}", identityHandler.ListCharacterIdentities).Methods("GET")
	api.HandleFunc("/identities/{id}", identityHandler.GetIdentity).Methods("GET")
	api.HandleFunc("/identities/{id}", identityHandler.UpdateIdentity).Methods("PUT")
	api.HandleFunc("/identities/{id}", identityHandler.DeleteIdentity).Methods("DELETE")
	api.HandleFunc("/identities/{id}/set-primary", identityHandler.SetPrimary).Methods("POST")

	// Career endpoints
	api.HandleFunc("/identities/{id}/careers", careerHandler.ListCareers).Methods("GET")
	api.HandleFunc("/identities/{id}/careers", careerHandler.AddCareer).Methods("POST")
	api.HandleFunc("/identities/{id}/careers/{careerId}", careerHandler.UpdateCareer).Methods("PUT")
	api.HandleFunc("/identities/{id}/careers/{careerId}", careerHandler.DeleteCareer).Methods("DELETE")

	// Knowledge endpoints
	api.HandleFunc("/identities/{id}/knowledge", knowledgeHandler.ListKnowledge).Methods("GET")
	api.HandleFunc("/identities/{id}/knowledge", knowledgeHandler.AddKnowledge).Methods("POST")
	api.HandleFunc("/identities/{id}/knowledge/check", knowledgeHandler.CheckKnowledge).Methods("GET")
	api.HandleFunc("/identities/{id}/knowledge/{knowledgeId}", knowledgeHandler.UpdateKnowledge).Methods("PUT")
	api.HandleFunc("/identities/{id}/knowledge/{knowledgeId}", knowledgeHandler.DeleteKnowledge).Methods("DELETE")

	// Catalog endpoints
	api.HandleFunc("/characters", catalogHandler.CreateCharacter).Methods("POST")
	api.HandleFunc("/characters/project/{projectId}", catalogHandler.ListCharacters).Methods("GET")
	api.HandleFunc("/careers", catalogHandler.CreateCareer).Methods("POST")
	api.HandleFunc("/careers/project/{projectId}", catalogHandler.ListCareers).Methods("GET")

	return router
}
