package api

import (
	"net/http"

	"courtyard/internal/api/middleware"
	"courtyard/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	r.GET("/sitemap.xml", group.FeedHandler.Sitemap)
	r.GET("/rss.xml", group.FeedHandler.Rss)
	r.GET("/heartbeat", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.POST("/login", group.UserHandler.Login)
			userGroup.POST("/otp/request", group.UserHandler.RequestOtp)
			userGroup.POST("/otp/verify", group.UserHandler.VerifyOtp)
			userGroup.PUT("/password/reset", group.UserHandler.ResetPassword)
			userGroup.GET("/email/verify", group.UserHandler.VerifyEmail)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/info", group.UserHandler.GetProfile)
				authGroup.PUT("/info", group.UserHandler.UpdateProfile)
				authGroup.PUT("/password", group.UserHandler.ChangePassword)
				authGroup.POST("/email/resend", group.UserHandler.ResendVerification)
				authGroup.POST("/avatar", group.UserHandler.UploadProfileImage)
				authGroup.DELETE("", group.UserHandler.DeleteAccount)
			}
		}

		apartmentGroup := apiGroup.Group("/apartments")
		{
			apartmentGroup.GET("", group.ApartmentHandler.List)
			apartmentGroup.GET("/search", group.ApartmentHandler.Search)
			apartmentGroup.GET("/:apartment_id", group.ApartmentHandler.Get)
			apartmentGroup.GET("/:apartment_id/ads", group.AdHandler.ListByApartment)
			apartmentGroup.POST("", group.ApartmentHandler.Submit)
		}

		adGroup := apiGroup.Group("/ads")
		{
			adGroup.GET("/:ad_id", group.AdHandler.Get)

			authGroup := adGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.AdHandler.Create)
				authGroup.GET("/self", group.AdHandler.ListMine)
				authGroup.PUT("/:ad_id", group.AdHandler.Update)
				authGroup.DELETE("/:ad_id", group.AdHandler.Delete)
				authGroup.POST("/:ad_id/sold", group.AdHandler.MarkSold)
				authGroup.POST("/:ad_id/report", group.AdHandler.Report)
				authGroup.POST("/:ad_id/images", group.AdHandler.UploadImage)
			}
		}

		chatGroup := apiGroup.Group("/chats")
		{
			// The websocket join runs its own credential check after the
			// upgrade.
			chatGroup.GET("/:chat_id/ws", group.WsHandler.Connect)

			authGroup := chatGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.ChatHandler.Start)
				authGroup.GET("", group.ChatHandler.List)
				authGroup.GET("/lookup", group.ChatHandler.Lookup)
				authGroup.POST("/:chat_id/messages", group.ChatHandler.Send)
				authGroup.GET("/:chat_id/messages", group.ChatHandler.History)
				authGroup.POST("/:chat_id/ack", group.ChatHandler.Acknowledge)
				authGroup.DELETE("/:chat_id", group.ChatHandler.Hide)
				authGroup.PUT("/:chat_id/block", group.ChatHandler.SetBlocked)
			}
		}

		notifyGroup := apiGroup.Group("/notifications")
		notifyGroup.Use(middleware.AuthMiddleware())
		{
			notifyGroup.GET("/stream", group.NotifyHandler.Stream)
			notifyGroup.GET("/unread", group.NotifyHandler.Unread)
		}

		// Reporting and maintenance accept a session token or, when
		// enabled, the shared job secret.
		opsGroup := apiGroup.Group("")
		opsGroup.Use(middleware.AuthOptionalMiddleware(), middleware.JobSecretMiddleware())
		{
			opsGroup.GET("/metrics/today", group.MetricHandler.Today)
			opsGroup.GET("/metrics/range", group.MetricHandler.Range)
			opsGroup.POST("/jobs/ads/expire", group.JobHandler.SweepExpiredAds)
			opsGroup.POST("/jobs/apartments/:apartment_id/verify", group.ApartmentHandler.Verify)
		}
	}

	return r
}
