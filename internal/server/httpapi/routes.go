package httpapi

import (
	"net/http"

	logger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (s *Server) routes(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if opts.AccessLog != nil {
		r.Use(logger.Logger("router", opts.AccessLog))
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		// bearer tokens travel in a header, never in cookies
		AllowCredentials: false,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "endpoint not found")
	})

	r.Get("/health", s.health)

	r.Route("/user", func(r chi.Router) {
		r.Post("/", s.createAccount)
		r.Get("/verify", s.verifyAccount)
		r.Post("/login", s.login)
		r.Post("/forgot-password", s.forgotPassword)
		r.Post("/reset-forgot-password", s.resetViaLink)
		r.Get("/send-template", s.resetForm)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/me", s.getSelf)
			r.Get("/all", s.listAccounts)
			r.Get("/{id}", s.getAccount)
			r.Patch("/", s.updateSelf)
			r.Delete("/{id}", s.deleteAccount)
			r.Post("/reset-password", s.resetAuthenticated)
		})
	})

	return r
}
