package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/doctor-scheduler/internal/audit"
	"github.com/BruksfildServices01/doctor-scheduler/internal/config"
	"github.com/BruksfildServices01/doctor-scheduler/internal/handlers"
	"github.com/BruksfildServices01/doctor-scheduler/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/doctor-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/doctor-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/doctor-scheduler/internal/infra/store"
	"github.com/BruksfildServices01/doctor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/doctor-scheduler/internal/middleware"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/doctor-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/doctor-scheduler/internal/validators"
)

// Deps são as dependências montadas no main.
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Redis   *redis.Client
	Metrics *metrics.SchedulerMetrics
	Audit   *audit.Dispatcher
	Photos  *storage.PhotoStore
}

func RegisterRoutes(r *gin.Engine, d Deps) error {
	cfg := d.Config

	if err := validators.Register(); err != nil {
		return err
	}

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.Recovery(),
		middleware.RequestLogger(d.Metrics),
		middleware.CORSMiddleware(cfg.CORSOrigins),
		middleware.RateLimitMiddleware(cfg.RateLimitPerMin),
	)

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	ratingRepo := infraRepo.NewRatingGormRepository(d.DB)

	users := store.New[models.User](d.DB, "user", nil)
	doctors := store.New[models.Doctor](d.DB, "doctor", handlers.DoctorSort)
	addresses := store.New[models.Address](d.DB, "address", handlers.AddressSort)

	specializations := cache.NewSpecializationCache(d.Redis)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(users, cfg, d.Audit)
	meHandler := handlers.NewMeHandler(users, d.Audit)
	addressHandler := handlers.NewAddressHandler(addresses, d.Audit)

	doctorHandler := handlers.NewDoctorHandler(
		doctors,
		specializations,
		ucAppointment.NewCheckAvailability(appointmentRepo),
		ucAppointment.NewGetAvailability(appointmentRepo),
	)
	adminDoctorHandler := handlers.NewAdminDoctorHandler(doctors, d.Photos, specializations, d.Audit)
	timeSlotHandler := handlers.NewTimeSlotHandler(d.DB, d.Audit)

	appointmentHandler := handlers.NewAppointmentHandler(appointmentRepo, d.Audit, d.Metrics)
	ratingHandler := handlers.NewRatingHandler(ratingRepo, d.Audit, d.Metrics)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	// ======================================================
	// ❤️ HEALTH / METRICS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := d.DB.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.AuthMiddleware(cfg)

	// ======================================================
	// 🛠️ ADMIN API
	// ======================================================
	admin := r.Group("/api/admin/v1")
	{
		admin.POST("/auth/login", authHandler.AdminLogin)

		secured := admin.Group("/")
		secured.Use(auth, middleware.RequireRole(models.RoleAdmin))
		{
			secured.POST("/doctors", adminDoctorHandler.Create)
			secured.POST("/doctors/bulk", adminDoctorHandler.BulkCreate)
			secured.GET("/doctors", adminDoctorHandler.List)
			secured.GET("/doctors/:id", adminDoctorHandler.Get)
			secured.PATCH("/doctors/:id", adminDoctorHandler.Update)
			secured.DELETE("/doctors/:id", adminDoctorHandler.SoftDelete)
			secured.DELETE("/doctors/:id/hard", adminDoctorHandler.Delete)
			secured.POST("/doctors/:id/photo", adminDoctorHandler.UploadPhoto)

			secured.GET("/doctors/:id/time-slots", timeSlotHandler.Get)
			secured.PUT("/doctors/:id/time-slots", timeSlotHandler.Replace)

			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}

	// ======================================================
	// 📱 USER APP API
	// ======================================================
	app := r.Group("/api/userapp/v1")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		app.POST("/auth/register", authHandler.Register)
		app.POST("/auth/login", authHandler.Login)

		secured := app.Group("/")
		secured.Use(auth)
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateMe)
			secured.DELETE("/me", meHandler.DeleteMe)

			// ------------------------------
			// DOCTORS
			// ------------------------------
			secured.GET("/doctors", doctorHandler.List)
			secured.GET("/doctors/specializations", doctorHandler.Specializations)
			secured.GET("/doctors/:id", doctorHandler.Get)
			secured.GET("/doctors/:id/availability", doctorHandler.Availability)
			secured.GET("/doctors/:id/slots", doctorHandler.FreeSlots)

			// ------------------------------
			// ADDRESSES
			// ------------------------------
			secured.POST("/addresses", addressHandler.Create)
			secured.GET("/addresses", addressHandler.List)
			secured.GET("/addresses/:id", addressHandler.Get)
			secured.PATCH("/addresses/:id", addressHandler.Update)
			secured.DELETE("/addresses/:id", addressHandler.Delete)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.List)
			secured.POST("/appointments/list", appointmentHandler.Search)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)
			secured.GET("/appointments/:id/rating", ratingHandler.GetByAppointment)

			// ------------------------------
			// RATINGS
			// ------------------------------
			secured.POST("/ratings", ratingHandler.Create)
		}
	}

	return nil
}
