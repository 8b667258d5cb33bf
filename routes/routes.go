package routes

import (
	"conference-management-api/controllers"
	"conference-management-api/middleware"
	"conference-management-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/register", controllers.Register)
			public.POST("/password-reset/request", controllers.RequestPasswordReset)
			public.POST("/password-reset/confirm", controllers.ConfirmPasswordReset)

			// Themes are public so the registration form can show them
			public.GET("/themes", controllers.GetThemes)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Conference Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Auth management
			protected.POST("/logout", controllers.Logout)
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Notifications (all authenticated users)
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Abstract submission (authors)
			abstracts := protected.Group("/abstracts")
			{
				abstracts.POST("", controllers.SubmitAbstract)
				abstracts.GET("/mine", controllers.GetMyAbstracts)
				abstracts.POST("/:id/resubmit", controllers.ResubmitAbstract)
			}

			// Review workflow (theme admins and super admins)
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleThemeAdmin, models.RoleSuperAdmin))
			{
				admin.GET("/abstracts", controllers.GetAdminAbstracts)
				admin.GET("/abstracts/export", controllers.ExportAbstracts)
				admin.GET("/abstracts/:id", controllers.GetAdminAbstract)
				admin.PUT("/abstracts/:id/status", controllers.UpdateAbstractStatus)

				admin.POST("/abstracts/:id/reviewers", controllers.AssignReviewer)
				admin.POST("/abstracts/:id/review", controllers.SubmitReview)
				admin.GET("/reviews", controllers.GetMyReviews)

				admin.GET("/dashboard/stats", controllers.GetDashboardStats)
			}

			// Super admin only
			super := protected.Group("/admin")
			super.Use(middleware.RequireRole(models.RoleSuperAdmin))
			{
				super.GET("/theme-admins", controllers.GetThemeAdmins)
				super.POST("/theme-admins", controllers.CreateThemeAdmin)
				super.PUT("/theme-admins/:id/theme", controllers.ReassignTheme)
				super.PUT("/theme-admins/:id/active", controllers.ToggleThemeAdmin)
				super.DELETE("/theme-admins/:id", controllers.DeleteThemeAdmin)

				super.GET("/registrations", controllers.GetRegistrations)
				super.GET("/registrations/export", controllers.ExportRegistrations)

				super.GET("/logs", controllers.GetAdminLogs)
				super.GET("/logs/export", controllers.ExportAdminLogs)
			}
		}
	}
}
