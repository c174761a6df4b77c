package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/qa-forum/server/src/server/handlers"
	"github.com/qa-forum/server/src/server/middleware"
)

// Deps are the handlers and optional middleware the router wires together.
// A nil Metrics or Limiter disables that feature. TrustProxy honours
// X-Forwarded-For and X-Real-IP; leave it off unless a proxy that overwrites
// those headers sits in front, or clients can choose their rate-limit key.
type Deps struct {
	Accounts    *handlers.AccountHandler
	Questions   *handlers.QuestionHandler
	Answers     *handlers.AnswerHandler
	Health      *handlers.HealthHandler
	Metrics     *middleware.Metrics
	Limiter     *middleware.RateLimiter
	CORSOrigins []string
	TrustProxy  bool
}

func notAllowed(message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.ErrorResponse(w, http.StatusMethodNotAllowed, message)
	}
}

func notActive(w http.ResponseWriter, r *http.Request) {
	middleware.ErrorResponse(w, http.StatusNotFound, "Not an active endpoint")
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if d.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics.Instrument)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	// Set before any Route call so subrouters inherit it.
	r.NotFound(notActive)

	limit := func(next http.Handler) http.Handler { return next }
	if d.Limiter != nil {
		limit = d.Limiter.Handler
	}

	r.Get("/", notActive)

	r.Route("/register", func(r chi.Router) {
		r.MethodNotAllowed(notAllowed("/register only supports POST with user data."))
		r.With(limit).Post("/", d.Accounts.Register)
	})

	r.Route("/login", func(r chi.Router) {
		r.MethodNotAllowed(notAllowed("/login only supports POST with user credentials."))
		r.With(limit).Post("/", d.Accounts.Login)
	})

	r.Route("/question", func(r chi.Router) {
		r.MethodNotAllowed(notAllowed("/question only supports GET and POST with user and question details."))
		r.Get("/", d.Questions.ListMine)
		r.Post("/", d.Questions.Post)

		r.Route("/{qID}", func(r chi.Router) {
			r.MethodNotAllowed(notAllowed("/question/:qID only supports GET."))
			r.Get("/", d.Questions.Get)

			r.Route("/answer", func(r chi.Router) {
				r.MethodNotAllowed(notAllowed("/question/:qID/answer only supports POST and PUT with user and answer details."))
				r.Post("/", d.Answers.Post)
				r.Put("/", d.Answers.Put)
			})
		})
	})

	if d.Health != nil {
		r.Get("/health", d.Health.Check)
	}
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	return r
}
