package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/app4080/eldercareserver/internal/auth"
	"github.com/app4080/eldercareserver/usecase"
)

// Services groups the use cases exposed over HTTP
type Services struct {
	Users        *usecase.UserService
	Patients     *usecase.PatientService
	Appointments *usecase.AppointmentService
	Reports      *usecase.ProgressReportService
}

// Handler serves the HTTP API
type Handler struct {
	users        *usecase.UserService
	patients     *usecase.PatientService
	appointments *usecase.AppointmentService
	reports      *usecase.ProgressReportService
	tokens       *auth.TokenIssuer
	logger       *zap.Logger
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, services Services, tokens *auth.TokenIssuer, loginLimiter *RateLimiter, logger *zap.Logger) {
	h := &Handler{
		users:        services.Users,
		patients:     services.Patients,
		appointments: services.Appointments,
		reports:      services.Reports,
		tokens:       tokens,
		logger:       logger,
	}

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "eldercare-server",
		})
	})

	// API v1 routes
	v1 := e.Group("/api/v1")

	// Staff accounts
	v1.POST("/users/register", h.register)
	v1.POST("/users/login", h.login, RateLimit(loginLimiter))

	protected := v1.Group("", RequireToken(tokens, logger))

	protected.GET("/users", h.listUsers)
	protected.GET("/users/:id", h.getUser)

	protected.POST("/patients", h.createPatient)
	protected.GET("/patients", h.listPatients)
	protected.GET("/patients/:id", h.getPatient)
	protected.DELETE("/patients/:id", h.deletePatient)

	protected.POST("/appointments", h.createAppointment)
	protected.GET("/appointments", h.findAppointments)
	protected.DELETE("/appointments/:id", h.deleteAppointment)

	protected.POST("/reports", h.createReport)
	protected.GET("/reports", h.findReports)
	protected.DELETE("/reports/:id", h.deleteReport)
}
