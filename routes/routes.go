package routes

import (
	"servicehub-backend/config"
	"servicehub-backend/controllers"
	"servicehub-backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	imageStore := services.NewImageStore()
	bookingService := services.NewBookingService(config.DB, imageStore)
	bookingController := controllers.NewBookingController(bookingService)

	// Uploaded booking attachments are served straight from disk
	r.Static("/uploads", imageStore.Root())

	api := r.Group("/api")
	{
		bookings := api.Group("/me/bookings")
		{
			bookings.POST("", bookingController.CreateBooking)
			bookings.GET("", bookingController.GetMyBookings)
			bookings.GET("/all", bookingController.GetAllBookings)
			bookings.PATCH("/:id/status", bookingController.UpdateBookingStatus)
		}

		users := api.Group("/users")
		{
			users.POST("", controllers.RegisterUser)
		}

		providers := api.Group("/providers")
		{
			providers.POST("", controllers.RegisterProvider)
			providers.GET("", controllers.GetProviders)
			providers.GET("/:id", controllers.GetProvider)
			providers.GET("/:id/dashboard", controllers.GetProviderDashboard)
		}
	}

	return r
}
