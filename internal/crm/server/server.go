package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xela07ax/teamcrm/internal/crm/handler"
	"github.com/xela07ax/teamcrm/internal/infra"
	"github.com/xela07ax/teamcrm/internal/infra/auth"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Server struct {
	router *chi.Mux
	logger *zap.Logger
	cfg    *infra.Config

	// Интерфейс для проверки токенов (RS256)
	authValidator auth.TokenValidator
	revoked       *auth.RevokeList
	metrics       *Metrics
	metricsReg    *prometheus.Registry

	// Обработчики бизнес-доменов
	authHandler     *handler.AuthHandler     // /auth/token
	contactHandler  *handler.ContactHandler  // /v1/contacts
	companyHandler  *handler.CompanyHandler  // /v1/companies
	caseHandler     *handler.CaseHandler     // /v1/cases
	taskHandler     *handler.TaskHandler     // /v1/tasks
	meetingHandler  *handler.MeetingHandler  // /v1/meetings
	documentHandler *handler.DocumentHandler // /v1/documents
	userHandler     *handler.UserHandler     // /v1/users
	activityHandler *handler.ActivityHandler // /v1/activities
}

// Handlers группирует обработчики, чтобы конструктор не расползался.
type Handlers struct {
	Auth     *handler.AuthHandler
	Contact  *handler.ContactHandler
	Company  *handler.CompanyHandler
	Case     *handler.CaseHandler
	Task     *handler.TaskHandler
	Meeting  *handler.MeetingHandler
	Document *handler.DocumentHandler
	User     *handler.UserHandler
	Activity *handler.ActivityHandler
}

// NewServer инициализирует HTTP-сервер CRM со всеми зависимостями
func NewServer(
	cfg *infra.Config,
	logger *zap.Logger,
	validator auth.TokenValidator,
	revoked *auth.RevokeList,
	metricsReg *prometheus.Registry,
	metrics *Metrics,
	h Handlers,
) *Server {
	s := &Server{
		router:          chi.NewRouter(),
		logger:          logger.Named("crm-api"),
		cfg:             cfg,
		authValidator:   validator,
		revoked:         revoked,
		metrics:         metrics,
		metricsReg:      metricsReg,
		authHandler:     h.Auth,
		contactHandler:  h.Contact,
		companyHandler:  h.Company,
		caseHandler:     h.Case,
		taskHandler:     h.Task,
		meetingHandler:  h.Meeting,
		documentHandler: h.Document,
		userHandler:     h.User,
		activityHandler: h.Activity,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware (для всех) ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	if s.cfg.Server.RateLimit > 0 {
		limiter := rate.NewLimiter(rate.Limit(s.cfg.Server.RateLimit), s.cfg.Server.RateLimitBurst)
		r.Use(rateLimitMiddleware(limiter))
	}

	// Principal Provider глобален: он не отклоняет анонимов,
	// обязательность сессии решает таблица политики ниже.
	r.Use(auth.NewMiddleware(s.authValidator, s.revoked, s.logger))

	// --- 2. ПУБЛИЧНЫЕ РОУТЫ ---
	r.Post("/auth/token", s.authHandler.Login)

	// Healthcheck для мониторинга
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	if s.metricsReg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metricsReg, promhttp.HandlerOpts{}))
	}

	// --- 3. CRM API ---
	// Авторизация здесь ресурсная, не маршрутная: каждый хендлер
	// прогоняет операцию через комбинатор решений.
	r.Route("/v1", func(r chi.Router) {
		r.Mount("/contacts", s.contactHandler.Routes())
		r.Mount("/companies", s.companyHandler.Routes())
		r.Mount("/cases", s.caseHandler.Routes())
		r.Mount("/tasks", s.taskHandler.Routes())
		r.Mount("/meetings", s.meetingHandler.Routes())
		r.Mount("/documents", s.documentHandler.Routes())

		// Управление учетками (+ отдельный поток смены пароля)
		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.userHandler.List)
			r.Post("/", s.userHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.userHandler.Get)
				r.Put("/", s.userHandler.Update)
				r.Delete("/", s.userHandler.Delete)
				r.Post("/password", s.authHandler.ChangePassword)
			})
		})

		// Журнал активности (Observability)
		r.Get("/activities", s.activityHandler.List)
	})
}

// ServeHTTP позволяет использовать Server как стандартный http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
