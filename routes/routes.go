package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tourism-backend/controllers"
	"tourism-backend/middleware"
	"tourism-backend/models"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func SetupRouter(
	ac *controllers.AuthController,
	bc *controllers.BookingController,
	tc *controllers.TourGuideController,
	adc *controllers.AdminController,
	rc *controllers.RecommendationController,
) *gin.Engine {
	r := gin.Default()
	r.Static("/uploads", "./uploads")

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", ac.Register)
			auth.POST("/login", ac.Login)
		}

		bookings := api.Group("/bookings", middleware.Auth())
		{
			bookings.POST("", bc.CreateBooking)
			bookings.POST("/:id/confirm", bc.ConfirmBooking)
			bookings.POST("/:id/cancel", bc.CancelBooking)
			bookings.GET("/my-bookings", bc.GetMyBookings)
			bookings.GET("/tourguide-bookings",
				middleware.RequireRole(models.RoleTourGuide), bc.GetTourGuideBookings)
		}

		guides := api.Group("/tourguides")
		{
			guides.GET("", tc.ListGuides)
			guides.GET("/:id", tc.GetGuide)
			guides.POST("/apply", middleware.Auth(), tc.Apply)
			guides.GET("/my-application", middleware.Auth(), tc.MyApplication)
			guides.PATCH("/availability",
				middleware.Auth(), middleware.RequireRole(models.RoleTourGuide), tc.SetAvailability)
		}

		admin := api.Group("/admin", middleware.Auth(), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/tourguide-applications", adc.GetApplications)
			admin.POST("/tourguide-applications/:id/approve", adc.ApproveApplication)
			admin.POST("/tourguide-applications/:id/reject", adc.RejectApplication)
			admin.POST("/tourguides/:id/revoke", adc.RevokeTourGuide)
			admin.POST("/assign-admin", adc.AssignAdminRole)
		}

		recommendations := api.Group("/recommendations")
		{
			recommendations.GET("/health", rc.Health)
			recommendations.GET("/:category", rc.Recommend)
			recommendations.POST("/recommend", rc.RecommendGeneral)
		}
	}

	return r
}
