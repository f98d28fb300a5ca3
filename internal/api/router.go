package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/clinichub/clinic-api/docs"
	"github.com/clinichub/clinic-api/internal/api/handler"
	"github.com/clinichub/clinic-api/internal/api/middleware"
	"github.com/clinichub/clinic-api/internal/core/authz"
	"github.com/clinichub/clinic-api/internal/core/domain"
	"github.com/clinichub/clinic-api/internal/core/ports"
	"github.com/clinichub/clinic-api/internal/core/relay"
	"github.com/clinichub/clinic-api/internal/pkg/config"
)

// Dependencies is everything the router wires into handlers.
type Dependencies struct {
	Config *config.Config
	Log    zerolog.Logger

	Gate      *authz.Gate
	Auth      ports.AuthService
	Users     ports.UserService
	Dashboard ports.DashboardService
	Hub       *relay.Hub

	Appointments   ports.RecordService[domain.Appointment]
	Prescriptions  ports.RecordService[domain.Prescription]
	MedicalRecords ports.RecordService[domain.MedicalRecord]
	Stock          ports.RecordService[domain.StockItem]
	Billing        ports.RecordService[domain.Billing]

	// Checks back /health/ready, keyed by dependency name.
	Checks map[string]handler.Check

	// Registry receives the HTTP metrics; nil means the default registry.
	Registry *prometheus.Registry
}

// recordRoutes is the method set shared by every RecordHandler instantiation.
type recordRoutes interface {
	Create(c echo.Context) error
	Get(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
	List(c echo.Context) error
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	cfg := deps.Config

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "clinichub",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	patients := handler.NewUserHandler(deps.Users, domain.RolePatient, authz.AdminOrDoctor)
	doctors := handler.NewUserHandler(deps.Users, domain.RoleDoctor, nil)
	dashboard := handler.NewDashboardHandler(deps.Dashboard)
	signaling := handler.NewSignalingHandler(deps.Hub, cfg.CORSOrigins, cfg.Relay.WriteTimeout, cfg.Relay.MaxMessageBytes, deps.Log)
	health := handler.NewHealthHandler(deps.Checks)

	authenticated := middleware.Auth(deps.Gate)
	adminOnly := middleware.RequireRole(authz.AdminOnly)
	adminOrDoctor := middleware.RequireRole(authz.AdminOrDoctor)
	anyRole := middleware.RequireRole(authz.AnyRole)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/login", authHandler.Login, loginLimiter(cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateBurst))
	api.POST("/auth/logout", authHandler.Logout, authenticated)
	api.GET("/auth/me", authHandler.Me, authenticated)
	api.POST("/password/set-password", authHandler.SetPassword, authenticated)

	// --- Accounts ---
	api.POST("/patient/register", patients.Register)
	patientProfile := api.Group("/patient/profile", authenticated)
	patientProfile.GET("/:user_id", patients.Get)
	patientProfile.PUT("/:user_id", patients.Update)
	patientProfile.DELETE("/:user_id", patients.Delete)

	api.POST("/doctor/register", doctors.Register, authenticated, adminOnly)
	doctorProfile := api.Group("/doctor/profile", authenticated, adminOrDoctor)
	doctorProfile.GET("/:user_id", doctors.Get)
	doctorProfile.PUT("/:user_id", doctors.Update)
	doctorProfile.DELETE("/:user_id", doctors.Delete)

	admin := api.Group("/admin", authenticated, adminOnly)
	for path, h := range map[string]*handler.UserHandler{"/doctors": doctors, "/patients": patients} {
		admin.GET(path, h.List)
		admin.POST(path, h.Register)
		admin.PUT(path+"/:id", h.Update)
		admin.DELETE(path+"/:id", h.Delete)
	}

	// --- Records ---
	mountRecords(api.Group("/appointments", authenticated, anyRole),
		handler.NewRecordHandler[domain.Appointment, domain.AppointmentPatch](deps.Appointments, "appointment", "patient_id", "doctor_id", "status").ScopedToPatient(),
		nil)
	mountRecords(api.Group("/prescriptions", authenticated),
		handler.NewRecordHandler[domain.Prescription, domain.PrescriptionPatch](deps.Prescriptions, "prescription", "patient_id", "doctor_id", "status").ScopedToPatient(),
		adminOrDoctor)
	mountRecords(api.Group("/medical-records", authenticated, adminOrDoctor),
		handler.NewRecordHandler[domain.MedicalRecord, domain.MedicalRecordPatch](deps.MedicalRecords, "medical_record", "patient_id", "doctor_id"),
		nil)
	mountRecords(api.Group("/stock", authenticated, adminOnly),
		handler.NewRecordHandler[domain.StockItem, domain.StockItemPatch](deps.Stock, "stock_item"),
		nil)
	mountRecords(api.Group("/billing", authenticated),
		handler.NewRecordHandler[domain.Billing, domain.BillingPatch](deps.Billing, "billing", "patient_id", "status").ScopedToPatient(),
		adminOnly)

	// --- Dashboards ---
	e.GET("/admin/dashboard/data", dashboard.Admin, authenticated, adminOnly)
	api.GET("/doctor/dashboard", dashboard.Doctor, authenticated, middleware.RequireRole(authz.DoctorOnly))

	// --- Signaling ---
	api.GET("/video/ws/:room_id", signaling.Serve)

	// --- Operational ---
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// mountRecords registers the CRUD routes of h on g. write guards the
// mutating routes in addition to g's own middleware.
func mountRecords(g *echo.Group, h recordRoutes, write echo.MiddlewareFunc) {
	var guard []echo.MiddlewareFunc
	if write != nil {
		guard = append(guard, write)
	}
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, guard...)
	g.PUT("/:id", h.Update, guard...)
	g.DELETE("/:id", h.Delete, guard...)
}

// loginLimiter throttles login attempts per client IP.
func loginLimiter(perSecond float64, burst int) echo.MiddlewareFunc {
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(perSecond),
			Burst: burst,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
		},
	})
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
