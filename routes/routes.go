package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/zenkai-arena/tournament-server/handlers"
)

func InitRoutes(
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	wsHandler *handlers.WebSocketHandler,
	allowedOrigins []string,
) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/tournaments", func(r chi.Router) {
		r.Post("/", tournamentHandler.StartHandler)
		r.Post("/advance", tournamentHandler.AdvanceHandler)

		r.Get("/current", tournamentHandler.CurrentHandler)
		r.Delete("/current", tournamentHandler.EndHandler)
		r.Get("/dashboard", tournamentHandler.DashboardHandler)
		r.Get("/standings", tournamentHandler.StandingsHandler)
		r.Get("/bracket", tournamentHandler.BracketHandler)
		r.Get("/qualification", tournamentHandler.QualificationHandler)
		r.Get("/setup", tournamentHandler.SetupSuggestionHandler)

		r.Route("/players", func(r chi.Router) {
			r.Get("/", tournamentHandler.RosterHandler)
			r.Post("/", tournamentHandler.RegisterPlayerHandler)
			r.Delete("/{playerID}", tournamentHandler.RemovePlayerHandler)
		})

		r.Route("/timer", func(r chi.Router) {
			r.Post("/start", tournamentHandler.StartTimerHandler)
			r.Post("/reset", tournamentHandler.ResetTimerHandler)
			r.Post("/free", tournamentHandler.FreeTimeHandler)
		})

		r.Post("/matches/{matchID}/result", matchHandler.SubmitResultHandler)
	})

	router.Get("/ws/tournaments/{tournamentID}", wsHandler.ServeWs)

	return router
}
