package main

import (
	"fmt"
	"log"
	"os"
	"servicehub-backend/config"
	"servicehub-backend/models"
	"servicehub-backend/routes"
	"servicehub-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	// Idempotent migration step; existing tables and data are kept
	if err := config.DB.AutoMigrate(
		&models.User{},
		&models.Provider{},
		&models.Booking{},
		&models.BookingImage{},
		&models.NotificationLog{},
	); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	reminders := services.NewReminderService(config.DB)
	reminders.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
