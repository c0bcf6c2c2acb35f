package routes

import (
	"github.com/frbcapl/league-system/docs"
	"github.com/frbcapl/league-system/handlers"
	"github.com/frbcapl/league-system/middleware"
	"github.com/frbcapl/league-system/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRoutes mounts every API surface on the router. Write endpoints that
// mutate league data behind a player's back (hard deletes, standings
// imports) require an admin token; reads and the proposal/match lifecycle
// stay open for the schedule frontend.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	proposalHandler *handlers.ProposalHandler,
	matchHandler *handlers.MatchHandler,
	challengeHandler *handlers.ChallengeHandler,
	standingsHandler *handlers.StandingsHandler,
	authHandler *handlers.AuthHandler,
	noteHandler *handlers.NoteHandler,
	healthHandler *handlers.HealthHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(jwtSecret))
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	router.Route("/api", func(r chi.Router) {
		r.Get("/healthz", healthHandler.Healthz)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/me", authHandler.GetCurrentUser)
		})

		r.Route("/proposals", func(r chi.Router) {
			r.Post("/", proposalHandler.CreateProposal)
			r.Get("/", proposalHandler.ListProposals)
			r.Patch("/{proposalID}/status", proposalHandler.SetProposalStatus)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Use(adminOnly)
				r.Delete("/admin/{proposalID}", proposalHandler.DeleteProposal)
			})
		})

		r.Route("/matches", func(r chi.Router) {
			r.Post("/from-proposal", matchHandler.CreateMatchFromProposal)
			r.Patch("/{matchID}/complete", matchHandler.CompleteMatch)
			r.Get("/status/{division}/{status}", matchHandler.ListMatchesByStatus)
			r.Get("/player/{player}/{division}", matchHandler.ListMatchesByPlayer)
			r.Get("/stats/{division}", matchHandler.GetMatchStats)
		})

		r.Route("/challenges", func(r chi.Router) {
			r.Get("/stats/{player}/{division}", challengeHandler.GetPlayerStats)
			r.Get("/eligible-opponents/{player}/{division}", challengeHandler.GetEligibleOpponents)
			r.Post("/validate", challengeHandler.ValidateChallenge)
		})

		r.Route("/standings", func(r chi.Router) {
			r.Get("/{division}", standingsHandler.ListStandings)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Use(adminOnly)
				r.Post("/{division}/sync", standingsHandler.SyncFromSheet)
				r.Post("/{division}/snapshot", standingsHandler.SnapshotToSheet)
			})
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", noteHandler.ListNotes)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/", noteHandler.CreateNote)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Delete("/{noteID}", noteHandler.DeleteNote)
				})
			})
		})

		r.Get("/docs/openapi.json", docs.ServeOpenAPI)
	})

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/api/docs/openapi.json"),
	))

	router.Get("/ws/divisions/{division}", webSocketHandler.ServeWs)
}
