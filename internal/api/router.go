package api

import (
	"net/http"
	"time"

	"eventsphere/internal/api/handler"
	"eventsphere/internal/api/middleware"
	"eventsphere/internal/app/service"
	"eventsphere/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

type Services struct {
	Auth       *service.AuthService
	Contest    *service.ContestService
	Question   *service.QuestionService
	Submission *service.SubmissionService
	Practice   *service.PracticeService
	Runtime    *service.RuntimeService
}

func NewRouter(svc Services) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chiMiddleware.Recoverer)
	// Grading runs every hidden case in the request, so this must exceed
	// the per-case timeout times the case count.
	r.Use(chiMiddleware.Timeout(5 * time.Minute))

	// Looks for "Authorization: Bearer T" and stores the verified token in context.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Route("/auth", handler.NewAuthHandler(svc.Auth).RegisterRoutes)
		v1.Route("/runtimes", handler.NewRuntimeHandler(svc.Runtime).RegisterRoutes)
		v1.Route("/contests", handler.NewContestHandler(svc.Contest).RegisterRoutes)
		v1.Route("/questions", handler.NewQuestionHandler(svc.Question).RegisterRoutes)
		v1.Route("/submissions", handler.NewSubmissionHandler(svc.Submission, svc.Practice).RegisterRoutes)
	})

	return r
}
