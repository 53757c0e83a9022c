// Package router wires repositories, services and handlers onto the gin engine.
package router

import (
	"net/http"
	"time"

	"imani/config"
	"imani/internal/handler"
	"imani/internal/middleware"
	"imani/internal/repository"
	"imani/internal/service"
	"imani/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, images cloudinary.Client) *gin.Engine {
	userRepo := repository.NewUserRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	eventRepo := repository.NewPaymentEventRepository(db)
	causeRepo := repository.NewCauseRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	visitRepo := repository.NewVisitationRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	settingsSvc := service.NewSettingsService(settingRepo, cfg)
	authSvc := service.NewAuthService(cfg, userRepo)
	donationSvc := service.NewDonationService(donationRepo, causeRepo, eventRepo, settingsSvc)
	emailSvc := service.NewEmailService(settingsSvc)

	authH := handler.NewAuthHandler(authSvc)
	donationH := handler.NewDonationHandler(donationSvc, donationRepo)
	webhookH := handler.NewMpesaWebhookHandler(donationSvc)
	causeH := handler.NewCauseHandler(causeRepo)
	newsH := handler.NewNewsHandler(newsRepo)
	visitH := handler.NewVisitationHandler(visitRepo, emailSvc, cfg.Email.ReportRecipient)
	galleryH := handler.NewGalleryHandler(galleryRepo, images, cfg.Cloudinary.CloudName)
	settingsH := handler.NewSettingsHandler(settingRepo, settingsSvc)
	reportH := handler.NewReportHandler(donationRepo, emailSvc, settingsSvc)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, time.Minute)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Gateway callback; unauthenticated by contract, and kept off /api/v1 so
	// the registered CallBackURL stays stable.
	r.POST("/mpesa/callback", webhookH.Handle)

	api := r.Group("/api/v1")

	// Public, read-only.
	api.GET("/causes", causeH.List)
	api.GET("/causes/:id", causeH.Get)
	api.GET("/news", newsH.List)
	api.GET("/news/:id", newsH.Get)
	api.GET("/gallery", galleryH.List)

	auth := api.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(&cfg.JWT))
	{
		authed.POST("/auth/change-password", authH.ChangePassword)

		authed.POST("/donations", donationH.Initiate)
		authed.GET("/donations/status/:checkout_id", donationH.Status)

		authed.POST("/causes", causeH.Create)
		authed.PUT("/causes/:id", causeH.Update)
		authed.DELETE("/causes/:id", causeH.Delete)
		authed.POST("/causes/:id/images", causeH.AddImages)

		authed.POST("/news", newsH.Create)
		authed.PUT("/news/:id", newsH.Update)
		authed.DELETE("/news/:id", newsH.Delete)

		authed.POST("/visitations", visitH.Create)
		authed.GET("/visitations", visitH.List)
		authed.GET("/visitations/:id", visitH.Get)
		authed.PUT("/visitations/:id", visitH.Update)
		authed.DELETE("/visitations/:id", visitH.Delete)
		authed.POST("/visitations/:id/images", visitH.AddImages)

		authed.POST("/gallery", galleryH.Upload)
		authed.DELETE("/gallery/:id", galleryH.Delete)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(&cfg.JWT), middleware.AdminRequired())
	{
		admin.POST("/auth/register", authH.Register)

		admin.GET("/donations", donationH.List)
		admin.PUT("/donations/:id/status", donationH.Override)
		admin.GET("/mpesa/test", donationH.TestConnection)

		admin.GET("/settings/:type", settingsH.Get)
		admin.PUT("/settings/:type", settingsH.Update)
		admin.POST("/settings/:type/reset", settingsH.Reset)

		admin.POST("/reports/monthly", reportH.Monthly)
	}

	return r
}
