// Package api assembles the HTTP surface: route table, middleware chain,
// and the dependency wiring behind the handlers.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/flowtutor/flowtutor/internal/api/handlers"
	"github.com/flowtutor/flowtutor/internal/api/middleware"
	"github.com/flowtutor/flowtutor/internal/auth"
)

// Router wraps the HTTP multiplexer with middleware and handlers
type Router struct {
	mux         *http.ServeMux
	app         *App
	questions   *handlers.QuestionHandler
	submissions *handlers.SubmissionHandler
	hints       *handlers.HintHandler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(app *App) http.Handler {
	r := &Router{
		mux: http.NewServeMux(),
		app: app,
	}

	r.questions = handlers.NewQuestionHandler(app.Questions, app.Ideals, app.Producer)
	r.submissions = handlers.NewSubmissionHandler(app.Submissions)
	r.hints = handlers.NewHintHandler(app.Hints, app.Questions)

	r.registerRoutes()

	return r.buildMiddlewareChain(r.mux, app)
}

func (r *Router) registerRoutes() {
	rlCfg := middleware.DefaultRateLimitConfig()

	// Health check
	r.mux.HandleFunc("GET /health", r.handleHealth)
	r.mux.HandleFunc("GET /ready", r.handleReady)

	// Questions (read for any authenticated user, writes teacher-only)
	r.mux.HandleFunc("GET /api/v1/questions", r.requireAuth(r.questions.List))
	r.mux.HandleFunc("GET /api/v1/questions/{id}", r.requireAuth(r.questions.Get))
	r.mux.HandleFunc("POST /api/v1/questions", r.requireTeacher(r.questions.Save))
	r.mux.HandleFunc("POST /api/v1/questions/generate",
		r.requireTeacher(middleware.ModelRateLimit(rlCfg, r.questions.Generate)))
	r.mux.HandleFunc("POST /api/v1/questions/{id}/ideal",
		r.requireTeacher(middleware.ModelRateLimit(rlCfg, r.questions.RegenerateIdeal)))
	r.mux.HandleFunc("GET /api/v1/questions/{id}/ideal", r.requireTeacher(r.questions.GetIdeal))

	// Submissions
	r.mux.HandleFunc("POST /api/v1/submissions/flowchart",
		r.requireAuth(middleware.ModelRateLimit(rlCfg, r.submissions.CheckFlowchart)))
	r.mux.HandleFunc("PUT /api/v1/submissions/{questionID}/stage/{stage}", r.requireAuth(r.submissions.SaveStage))
	r.mux.HandleFunc("GET /api/v1/submissions/{questionID}", r.requireAuth(r.submissions.Get))

	// Hints
	r.mux.HandleFunc("POST /api/v1/hints",
		r.requireAuth(middleware.ModelRateLimit(rlCfg, r.hints.Hint)))
}

func (r *Router) buildMiddlewareChain(handler http.Handler, app *App) http.Handler {
	// Apply middleware in reverse order (last applied = first executed)
	handler = middleware.Recovery(handler)
	handler = middleware.Logger(handler)

	// Skip general rate limiting in debug mode for easier development
	if !app.Config.Debug {
		handler = middleware.RateLimitMiddleware(middleware.DefaultRateLimitConfig())(handler)
	}

	handler = middleware.RequestID(handler)
	handler = middleware.CORS(handler)

	return handler
}

// requireAuth verifies the bearer token and injects the identity.
func (r *Router) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		token, ok := bearerToken(req)
		if !ok {
			Unauthorized(w, req, "authentication required")
			return
		}

		id, err := r.app.Verifier.Verify(req.Context(), token)
		if err != nil {
			slog.Warn("token rejected",
				"error", err,
				"request_id", middleware.GetRequestID(req.Context()),
			)
			Unauthorized(w, req, "invalid token")
			return
		}

		next(w, req.WithContext(auth.WithIdentity(req.Context(), id)))
	}
}

// requireTeacher additionally checks the teacher role.
func (r *Router) requireTeacher(next http.HandlerFunc) http.HandlerFunc {
	return r.requireAuth(func(w http.ResponseWriter, req *http.Request) {
		id, _ := auth.FromContext(req.Context())
		if id == nil || id.Role != auth.RoleTeacher {
			Forbidden(w, req, "teacher role required")
			return
		}
		next(w, req)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// Health check handlers
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (r *Router) handleReady(w http.ResponseWriter, req *http.Request) {
	checks := map[string]string{"database": "healthy"}

	if err := r.app.Ping(req.Context()); err != nil {
		slog.Error("database health check failed",
			"error", err,
			"request_id", middleware.GetRequestID(req.Context()),
		)
		checks["database"] = "unhealthy"
		WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not ready",
			"checks": checks,
		})
		return
	}

	if r.app.Queue != nil {
		if r.app.Queue.IsConnected() {
			checks["queue"] = "healthy"
		} else {
			checks["queue"] = "unhealthy"
		}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"checks": checks,
	})
}
