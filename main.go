package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tourism-backend/config"
	"tourism-backend/controllers"
	"tourism-backend/payments"
	"tourism-backend/routes"
	"tourism-backend/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	if stripeKey == "" {
		log.Fatal("STRIPE_SECRET_KEY environment variable is not set; cannot initialize payment gateway")
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("config.DB is nil after ConnectDatabase()")
	}
	log.Println("database connection established, migrations applied")

	gateway := payments.NewClient(stripeKey)

	// services
	roleService := services.NewRoleService(db)
	bookingService := services.NewBookingService(db, gateway)
	guideService := services.NewTourGuideService(db)
	adminService := services.NewAdminService(db, roleService)
	recommendationService := services.NewRecommendationService()

	// controllers
	authController := controllers.NewAuthController(db, roleService)
	bookingController := controllers.NewBookingController(bookingService)
	guideController := controllers.NewTourGuideController(guideService)
	adminController := controllers.NewAdminController(adminService)
	recommendationController := controllers.NewRecommendationController(recommendationService)

	router := routes.SetupRouter(
		authController,
		bookingController,
		guideController,
		adminController,
		recommendationController,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server stopped gracefully")
}
