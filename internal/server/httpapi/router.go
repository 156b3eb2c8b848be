// Package httpapi is the REST surface of the feedback portal: routing,
// middleware, authentication and the JSON handlers.
package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	Logger             logging.Logger
	Cache              UserCache
	CacheTTL           time.Duration
	Metrics            *Metrics
	CORSOrigins        []string
	MaxBodyBytes       int64
	LoginRatePerSecond int
	LoginBurst         int
}

type handler struct {
	svc      Services
	logger   logging.Logger
	cache    UserCache
	cacheTTL time.Duration
}

// NewRouter wires every route behind the shared middleware chain.
func NewRouter(svc Services, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	h := &handler{
		svc:      svc,
		logger:   logger.With("module", "httpapi"),
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
	}

	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))
	r.Use(metrics.instrument)
	r.Use(cors(opts.CORSOrigins))
	r.Use(middleware.StripSlashes)
	r.Use(maxBodyBytes(opts.MaxBodyBytes))

	r.Get(api.PathHealthz, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, api.PathMetrics, metrics.Handler())

	// a non-positive rate turns login throttling off
	if opts.LoginRatePerSecond > 0 {
		limiter := newLoginLimiter(opts.LoginRatePerSecond, opts.LoginBurst)
		r.With(limiter.middleware).Post(api.PathToken, h.token)
	} else {
		r.Post(api.PathToken, h.token)
	}
	r.Post("/users", h.register)

	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)

		r.Get("/users/me", h.me)
		r.Get("/users/by_email/{email}", h.userByEmail)

		r.Route("/manager/{managerID}", func(r chi.Router) {
			r.Get("/team", h.team)
			r.Get("/available-employees", h.availableEmployees)
			r.Post("/assign-employee/{employeeID}", h.assignEmployee)
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Get("/", h.listFeedback)
			r.Post("/", h.createFeedback)
			r.Get("/employee", h.employeeFeedback)
			r.Get("/manager", h.managerFeedback)
			r.Route("/{feedbackID}", func(r chi.Router) {
				r.Get("/", h.getFeedback)
				r.Put("/", h.updateFeedback)
				r.Post("/acknowledge", h.acknowledge)
				r.Get("/acknowledgement/{employeeID}", h.acknowledgementStatus)
				r.Get("/pdf", h.feedbackPDF)
				r.Post("/comments", h.addComment)
			})
		})

		r.Get("/dashboard/manager-stats", h.managerStats)
		r.Get("/dashboard/employee/{employeeID}", h.employeeDashboard)

		r.Route("/feedback-requests", func(r chi.Router) {
			r.Get("/", h.listRequests)
			r.Post("/", h.createRequest)
			r.Get("/pending", h.pendingRequests)
			r.Get("/manager", h.managerRequests)
			r.Post("/{requestID}/approve", h.approveRequest)
			r.Post("/{requestID}/deny", h.denyRequest)
		})

		r.Get("/tags", h.listTags)
		r.Post("/tags", h.createTag)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}
