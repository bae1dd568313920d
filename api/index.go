package handler

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"project-mcp-backend/pkg/config"
	"project-mcp-backend/pkg/database"
	"project-mcp-backend/pkg/handlers"
	"project-mcp-backend/pkg/ingest"
	"project-mcp-backend/pkg/logger"
	customMiddleware "project-mcp-backend/pkg/middleware"
	"project-mcp-backend/pkg/scope"
	"project-mcp-backend/pkg/slug"
	"project-mcp-backend/pkg/utils"
	"project-mcp-backend/pkg/view"
)

// Handler is the single entry point: all API endpoints live in one chi router
// so the service runs the same way as a plain server or a serverless function.
func Handler(w http.ResponseWriter, r *http.Request) {
	cfg := config.GetCached()
	if err := cfg.Validate(); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Configuration error: "+err.Error())
		return
	}

	log := logger.New(cfg.Environment, cfg.Debug)

	db := database.GetDatabase(database.DatabaseConfig{
		UseMemoryDB: cfg.UseMemoryDB,
		PostgresDSN: cfg.PostgresDSN,
		Debug:       cfg.Debug,
	})

	router := chi.NewRouter()
	setupMiddleware(router, cfg, log)
	setupRoutes(router, cfg, db, log)

	router.ServeHTTP(w, r)
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, log zerolog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(customMiddleware.Normalize())
	router.Use(customMiddleware.OptionalAuthMiddleware(cfg))
	router.Use(customMiddleware.RequestLogger(log))
	router.Use(customMiddleware.Recovery(cfg, log))
	router.Use(customMiddleware.CORS(cfg))
	router.Use(middleware.Timeout(25 * time.Second))
	router.Use(middleware.Compress(5))
	router.Use(customMiddleware.MaxBodySize(4 << 20))

	if cfg.IsDevelopment() {
		router.Use(middleware.Heartbeat("/ping"))
	}
}

func setupRoutes(router *chi.Mux, cfg *config.Config, db database.Store, log zerolog.Logger) {
	allocator := slug.NewAllocator(db, log)
	authority := scope.NewAuthority(db, log)
	authority.DefaultResourceID = cfg.ScopeDefaultResourceID
	authority.DefaultOAuth2Sub = cfg.ScopeDefaultOAuth2Sub

	scopedView := view.NewView(db, allocator, log)
	requirementIngester := ingest.NewRequirementIngester(scopedView, log)
	standardIngester := ingest.NewStandardIngester(scopedView, log)

	authHandler := handlers.NewAuthHandler(cfg, db, log)
	enterprisesHandler := handlers.NewEnterprisesHandler(cfg, scopedView, authority, log)
	projectsHandler := handlers.NewProjectsHandler(cfg, scopedView, authority, log)
	workItemsHandler := handlers.NewWorkItemsHandler(cfg, scopedView, authority, log)
	planningHandler := handlers.NewPlanningHandler(cfg, scopedView, authority, log)
	requirementsHandler := handlers.NewRequirementsHandler(cfg, scopedView, authority, requirementIngester, log)
	standardsHandler := handlers.NewStandardsHandler(cfg, scopedView, authority, standardIngester, log)
	issuesHandler := handlers.NewIssuesHandler(cfg, scopedView, authority, log)
	catalogHandler := handlers.NewCatalogHandler(cfg, scopedView, authority, log)
	resourcesHandler := handlers.NewResourcesHandler(cfg, scopedView, authority, log)
	reportsHandler := handlers.NewReportsHandler(cfg, scopedView, authority, log)

	router.Get("/", authHandler.HealthCheck)

	if cfg.IsDevelopment() {
		router.Get("/debug/db-pool", func(w http.ResponseWriter, r *http.Request) {
			utils.WriteSuccessResponse(w, database.GetConnectionStats())
		})
		router.Get("/debug/env-check", func(w http.ResponseWriter, r *http.Request) {
			utils.WriteSuccessResponse(w, map[string]interface{}{
				"environment":               cfg.Environment,
				"jwt_secret":                cfg.JWTSecret != "",
				"postgres_dsn":              cfg.PostgresDSN != "",
				"use_memory_db":             cfg.UseMemoryDB,
				"scope_default_resource_id": cfg.ScopeDefaultResourceID != "",
				"scope_default_oauth2_sub":  cfg.ScopeDefaultOAuth2Sub != "",
			})
		})
	}

	router.Route("/api", func(r chi.Router) {
		r.Use(customMiddleware.ContentTypeJSON)

		r.Post("/auth/dev-token", authHandler.DevToken)

		r.Get("/scope", resourcesHandler.GetScope)

		r.Get("/search", reportsHandler.Search)
		r.Get("/reports/projects", reportsHandler.ProjectSummaries)

		r.Route("/enterprises", func(r chi.Router) {
			r.Get("/", enterprisesHandler.List)
			r.Post("/", enterprisesHandler.Create)
			r.Get("/{id}", enterprisesHandler.Get)
			r.Put("/{id}", enterprisesHandler.Update)

			r.Get("/{id}/projects", projectsHandler.ListByEnterprise)
			r.Post("/{id}/projects", projectsHandler.Upsert)

			r.Get("/{id}/milestones", planningHandler.ListMilestones)
			r.Post("/{id}/milestones", planningHandler.UpsertMilestone)

			r.Get("/{id}/standards", standardsHandler.ListByEnterprise)
			r.Post("/{id}/standards", standardsHandler.Upsert)
			r.Post("/{id}/standards/ingest", standardsHandler.Ingest)

			r.Get("/{id}/keywords", requirementsHandler.ListKeywords)
			r.Post("/{id}/keywords", requirementsHandler.UpsertKeyword)

			r.Get("/{id}/domains", catalogHandler.ListDomains)
			r.Post("/{id}/domains", catalogHandler.UpsertDomain)
			r.Get("/{id}/systems", catalogHandler.ListSystems)
			r.Post("/{id}/systems", catalogHandler.UpsertSystem)
			r.Get("/{id}/assets", catalogHandler.ListAssets)
			r.Post("/{id}/assets", catalogHandler.UpsertAsset)

			r.Get("/{id}/resources", resourcesHandler.List)
			r.Post("/{id}/resources", resourcesHandler.Upsert)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectsHandler.List)
			r.Get("/{id}", projectsHandler.Get)

			r.Get("/{id}/workitems", workItemsHandler.List)
			r.Post("/{id}/workitems", workItemsHandler.Upsert)

			r.Get("/{id}/releases", planningHandler.ListReleases)
			r.Post("/{id}/releases", planningHandler.UpsertRelease)

			r.Get("/{id}/requirements", requirementsHandler.List)
			r.Post("/{id}/requirements", requirementsHandler.Upsert)
			r.Post("/{id}/requirements/ingest", requirementsHandler.Ingest)

			r.Get("/{id}/standards", standardsHandler.ListByProject)

			r.Get("/{id}/issues", issuesHandler.List)
			r.Post("/{id}/issues", issuesHandler.Upsert)

			r.Get("/{id}/gantt", reportsHandler.Gantt)

			r.Post("/{id}/members", resourcesHandler.GrantMembership)
		})

		r.Route("/workitems", func(r chi.Router) {
			r.Get("/", workItemsHandler.List)
			r.Get("/{id}", workItemsHandler.Get)
			r.Delete("/{id}", workItemsHandler.Delete)
		})

		r.Get("/milestones/{id}", planningHandler.GetMilestone)
		r.Get("/releases/{id}", planningHandler.GetRelease)
		r.Get("/requirements/{id}", requirementsHandler.Get)
		r.Get("/standards/{id}", standardsHandler.Get)
		r.Get("/issues/{id}", issuesHandler.Get)
		r.Get("/keywords/{id}", requirementsHandler.GetKeyword)
		r.Get("/resources/{id}", resourcesHandler.Get)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteNotFoundResponse(w, "Endpoint not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}

// main-style server entry for non-serverless deployments.
func ListenAndServe() error {
	cfg := config.GetCached()
	if err := cfg.Validate(); err != nil {
		return err
	}

	port := cfg.Port
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "8080"
	}

	return http.ListenAndServe(":"+port, http.HandlerFunc(Handler))
}
