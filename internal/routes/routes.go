package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chargeconnect/charge-api/internal/audit"
	"github.com/chargeconnect/charge-api/internal/cache"
	"github.com/chargeconnect/charge-api/internal/config"
	"github.com/chargeconnect/charge-api/internal/handlers"
	infraRepo "github.com/chargeconnect/charge-api/internal/infra/repository"
	"github.com/chargeconnect/charge-api/internal/middleware"
	"github.com/chargeconnect/charge-api/internal/models"
	"github.com/chargeconnect/charge-api/internal/storage"
	ucBooking "github.com/chargeconnect/charge-api/internal/usecase/booking"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	stationCache *cache.Cache,
	log *zap.Logger,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	uploader := storage.NewUploader(cfg)

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, auditDispatcher)
	updateBookingStatusUC := ucBooking.NewUpdateBookingStatus(bookingRepo, auditDispatcher)
	cancelBookingUC := ucBooking.NewCancelBooking(bookingRepo, auditDispatcher)
	listBookingsUC := ucBooking.NewListBookings(bookingRepo)
	getBookingUC := ucBooking.NewGetBooking(bookingRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	profileHandler := handlers.NewProfileHandler(db)
	vehicleHandler := handlers.NewVehicleHandler(db)
	stationHandler := handlers.NewStationHandler(db, stationCache)
	photoHandler := handlers.NewPhotoHandler(db, uploader)

	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		updateBookingStatusUC,
		cancelBookingUC,
		listBookingsUC,
		getBookingUC,
		stationCache,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC STATIONS
		// ------------------------------
		api.GET("/stations", stationHandler.List)
		api.GET("/stations/search", stationHandler.Search)
		api.GET("/stations/near", stationHandler.Near)
		api.GET("/stations/:id", stationHandler.GetByID)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", profileHandler.GetMe)
			secured.PATCH("/me", profileHandler.UpdateMe)

			secured.POST("/stations/:id/reviews",
				middleware.RequireRole(models.RoleCustomer), stationHandler.CreateReview)

			// ------------------------------
			// CUSTOMER — VEHICLES
			// ------------------------------
			vehicles := secured.Group("/me/vehicles")
			vehicles.Use(middleware.RequireRole(models.RoleCustomer))
			{
				vehicles.GET("", vehicleHandler.List)
				vehicles.POST("", vehicleHandler.Create)
				vehicles.PUT("/:id", vehicleHandler.Update)
				vehicles.DELETE("/:id", vehicleHandler.Delete)
			}

			// ------------------------------
			// PROVIDER — STATIONS
			// ------------------------------
			myStations := secured.Group("/me/stations")
			myStations.Use(middleware.RequireRole(models.RoleProvider))
			{
				myStations.GET("", stationHandler.ListMine)
				myStations.POST("", stationHandler.Create)
				myStations.PUT("/:id", stationHandler.Update)
				myStations.PATCH("/:id/status", stationHandler.UpdateStatus)
				myStations.POST("/:id/photo", photoHandler.Upload)
			}

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.POST("/bookings",
				middleware.RequireRole(models.RoleCustomer), bookingHandler.Create)
			secured.GET("/bookings/customer",
				middleware.RequireRole(models.RoleCustomer), bookingHandler.ListForCustomer)
			secured.GET("/bookings/provider",
				middleware.RequireRole(models.RoleProvider), bookingHandler.ListForProvider)
			secured.GET("/bookings/:id", bookingHandler.GetByID)
			secured.PATCH("/bookings/:id/status", bookingHandler.UpdateStatus)
			secured.PATCH("/bookings/:id/cancel",
				middleware.RequireRole(models.RoleCustomer), bookingHandler.Cancel)
		}
	}
}
