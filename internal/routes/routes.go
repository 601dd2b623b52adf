package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/clinic-scheduler/internal/app"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
)

func RegisterRoutes(r *gin.Engine, a *app.App, cfg *config.Config) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// HANDLERS
	// ======================================================
	sessionHandler := handlers.NewSessionHandler(
		a.Book,
		a.Transition,
		a.GetSession,
		a.ListDay,
		a.FreeSlots,
	)
	activitiesHandler := handlers.NewActivitiesHandler(a.GetSession, a.AddNote, a.AuditLogger)
	rescheduleHandler := handlers.NewRescheduleHandler(a.RequestReschedule, a.ResolveReschedule)
	programHandler := handlers.NewProgramHandler(a.Enroll, a.ChangeStatus, a.GetProgress)
	registryHandler := handlers.NewRegistryHandler(a.Registry)
	workingHoursHandler := handlers.NewWorkingHoursHandler(a.Registry)

	// ======================================================
	// API (JSON)
	// ======================================================
	secured := r.Group("/api")
	secured.Use(middleware.AuthMiddleware(cfg))
	{
		// ------------------------------
		// SESSIONS
		// ------------------------------
		secured.POST("/sessions", sessionHandler.Book)
		secured.GET("/sessions", sessionHandler.ListDay)
		secured.GET("/sessions/:id", sessionHandler.Get)
		secured.PATCH("/sessions/:id/status", sessionHandler.Transition)
		secured.GET("/sessions/:id/activities", activitiesHandler.List)
		secured.POST("/sessions/:id/activities", middleware.RequireRole(domain.RolePractitioner), activitiesHandler.AddNote)

		secured.GET("/practitioners/:id/availability", sessionHandler.Availability)

		// ------------------------------
		// RESCHEDULES
		// ------------------------------
		secured.POST("/sessions/:id/reschedules", rescheduleHandler.Request)
		secured.POST("/reschedules/:id/resolve", rescheduleHandler.Resolve)

		// ------------------------------
		// PROGRAMS
		// ------------------------------
		secured.POST("/programs", programHandler.Enroll)
		secured.GET("/programs/:id/progress", programHandler.Progress)
		secured.PATCH("/programs/:id/status", programHandler.ChangeStatus)

		// ------------------------------
		// PRACTITIONER SELF-SERVICE
		// ------------------------------
		me := secured.Group("/me")
		me.Use(middleware.RequireRole(domain.RolePractitioner))
		{
			me.GET("/working-hours", workingHoursHandler.Get)
			me.PUT("/working-hours", workingHoursHandler.Update)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := secured.Group("")
		admin.Use(middleware.RequireRole(domain.RoleAdmin))
		{
			admin.POST("/patients", registryHandler.CreatePatient)
			admin.POST("/practitioners", registryHandler.CreatePractitioner)
			admin.PATCH("/practitioners/:id/availability", registryHandler.SetAvailability)
			admin.POST("/treatments", registryHandler.CreateTreatment)
			admin.POST("/treatment-programs", registryHandler.CreateTreatmentProgram)
			admin.PATCH("/treatment-programs/:id", registryHandler.UpdateTreatmentProgram)
		}
	}
}
