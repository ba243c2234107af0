package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rakshamitra/relief-backend/api/routes"
	"github.com/rakshamitra/relief-backend/internal/alerts"
	"github.com/rakshamitra/relief-backend/internal/notify"
	"github.com/rakshamitra/relief-backend/internal/requests"
	"github.com/rakshamitra/relief-backend/internal/staff"
	"github.com/rakshamitra/relief-backend/internal/volunteers"
	"github.com/rakshamitra/relief-backend/pkg/config"
	"github.com/rakshamitra/relief-backend/pkg/db"
	"github.com/rakshamitra/relief-backend/pkg/logger"
	"github.com/rakshamitra/relief-backend/pkg/metrics"
	"github.com/rakshamitra/relief-backend/pkg/migrate"
	"github.com/rakshamitra/relief-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	// Rate limiting is the only Redis consumer; without an address the auth
	// endpoints simply run unthrottled.
	var redisClient *redis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, auth rate limiting disabled")
	}

	registry := prometheus.NewRegistry()
	notificationMetrics := metrics.NewNotificationMetrics(registry)

	var smsSender notify.SMSSender
	if twilio := notify.NewTwilioSender(cfg.SMS); twilio != nil {
		smsSender = twilio
	} else {
		logg.Warn(context.Background(), "twilio not configured, sms delivery disabled")
	}
	var emailSender notify.EmailSender
	if smtp := notify.NewSMTPSender(cfg.Email); smtp != nil {
		emailSender = smtp
	} else {
		logg.Warn(context.Background(), "smtp not configured, email delivery disabled")
	}

	gateway, err := notify.NewService(notify.FromConfig(cfg.SMS, smsSender, emailSender, notificationMetrics, logg))
	if err != nil {
		logg.Error(context.Background(), "failed to create notification gateway", err)
		os.Exit(1)
	}

	volunteersService, err := volunteers.NewService(volunteers.NewRepository(dbClient.DB()), cfg.SMS.CountryCode)
	if err != nil {
		logg.Error(context.Background(), "failed to create volunteers service", err)
		os.Exit(1)
	}

	alertsService, err := alerts.NewService(volunteersService, gateway, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create alerts service", err)
		os.Exit(1)
	}

	requestsService, err := requests.NewService(requests.Options{
		Repo:           requests.NewRepository(dbClient.DB()),
		Notifier:       gateway,
		Volunteers:     volunteersService,
		Alerts:         alertsService,
		OversightEmail: cfg.Email.OversightEmail,
		CountryCode:    cfg.SMS.CountryCode,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create requests service", err)
		os.Exit(1)
	}

	staffService, err := staff.NewService(staff.Options{
		Repo:        staff.NewRepository(dbClient.DB()),
		Tx:          dbClient,
		JWT:         cfg.JWT,
		Password:    cfg.Password,
		CountryCode: cfg.SMS.CountryCode,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create staff service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			DB:         dbClient,
			Redis:      redisClient,
			Registry:   registry,
			Requests:   requestsService,
			Alerts:     alertsService,
			Volunteers: volunteersService,
			Staff:      staffService,
			Gateway:    gateway,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
