package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sipwell/storefront-api/auth"
	"github.com/sipwell/storefront-api/cache"
	"github.com/sipwell/storefront-api/config"
	"github.com/sipwell/storefront-api/geo"
	"github.com/sipwell/storefront-api/jobs"
	"github.com/sipwell/storefront-api/mailer"
	"github.com/sipwell/storefront-api/middleware"
	"github.com/sipwell/storefront-api/models"
	"github.com/sipwell/storefront-api/pkg/log"
	"github.com/sipwell/storefront-api/pkg/orderref"
	"github.com/sipwell/storefront-api/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.L.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.L.Fatal("failed to connect to database", zap.Error(err))
	}
	log.L.Info("✅ connected to database")

	if err := db.AutoMigrate(
		&models.User{},
		&models.GuestUser{},
		&models.StaffAccount{},
		&models.Product{},
		&models.Category{},
		&models.Cart{},
		&models.CartItem{},
		&models.SubscriptionBox{},
		&models.BoxItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Address{},
		&models.AppSetting{},
	); err != nil {
		log.L.Fatal("database migration failed", zap.Error(err))
	}

	refs, err := orderref.New(cfg.SnowflakeNode)
	if err != nil {
		log.L.Fatal("failed to init order number generator", zap.Error(err))
	}

	cc := cache.New(cfg.RedisAddr, cfg.RedisPassword)
	if cc != nil {
		log.L.Info("✅ redis cache enabled")
	}

	var mail mailer.Mailer
	if m := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom); m != nil {
		mail = m
	}

	cronJobs := jobs.Start(db)
	defer cronJobs.Stop()

	r := gin.Default()
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://sipwell.example"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-API-KEY"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, routes.Deps{
		DB:       db,
		Cache:    cc,
		Refs:     refs,
		Mail:     mail,
		Verifier: auth.NewHTTPVerifier(cfg.AuthVerifyURL),
		Geocoder: geo.NewClient(cfg.GeocoderBaseURL),
	})

	log.L.Info("🚀 server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.L.Fatal("server exited", zap.Error(err))
	}
}
