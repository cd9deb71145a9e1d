package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"tubertify-backend/internal/handlers"
	"tubertify-backend/internal/middleware"
	"tubertify-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	aiHandler *handlers.AIHandler,
	courseHandler *handlers.CourseHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Edge limiter for generation endpoints (30 req/min per IP);
	// content quotas proper live in the usage ledger.
	aiLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── AI Generation Routes ────
		r.Route("/ai", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(aiLimiter.Middleware)
			r.Post("/summary", aiHandler.GenerateSummary)
			r.Post("/notes", aiHandler.GenerateNotes)
			r.Post("/mcq", aiHandler.GenerateMCQ)
			r.Post("/chat", aiHandler.Chat)
		})

		// ──── Course Routes ────
		r.Route("/courses", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", courseHandler.Create)
			r.Get("/{id}", courseHandler.Get)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
