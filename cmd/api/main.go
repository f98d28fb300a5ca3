// Package main is the entry point for the ClinicHub API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/clinichub/clinic-api/internal/api"
	"github.com/clinichub/clinic-api/internal/api/handler"
	"github.com/clinichub/clinic-api/internal/api/metrics"
	"github.com/clinichub/clinic-api/internal/core/authz"
	"github.com/clinichub/clinic-api/internal/core/domain"
	"github.com/clinichub/clinic-api/internal/core/relay"
	"github.com/clinichub/clinic-api/internal/core/service"
	mongodb "github.com/clinichub/clinic-api/internal/infrastructure/db/mongo"
	redisdb "github.com/clinichub/clinic-api/internal/infrastructure/db/redis"
	"github.com/clinichub/clinic-api/internal/pkg/config"
	"github.com/clinichub/clinic-api/pkg/logger"
)

// @title                       ClinicHub API
// @version                     1.0
// @description                 Clinic management backend: accounts, clinical records, dashboards and video-call signaling.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "clinic-api",
	})

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongo")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer func() { _ = rdb.Close() }()

	users := mongodb.NewUserRepository(db)
	appointments := mongodb.NewRecordRepository[domain.Appointment](db, mongodb.CollectionAppointments, "appointment")
	prescriptions := mongodb.NewRecordRepository[domain.Prescription](db, mongodb.CollectionPrescriptions, "prescription")
	medicalRecords := mongodb.NewRecordRepository[domain.MedicalRecord](db, mongodb.CollectionMedicalRecords, "medical record")
	stock := mongodb.NewRecordRepository[domain.StockItem](db, mongodb.CollectionStock, "stock item")
	billing := mongodb.NewRecordRepository[domain.Billing](db, mongodb.CollectionBilling, "billing")

	indexErrs := []error{
		users.EnsureIndexes(ctx),
		appointments.EnsureIndexes(ctx, "patient_id", "doctor_id", "date"),
		prescriptions.EnsureIndexes(ctx, "patient_id", "doctor_id", "status"),
		medicalRecords.EnsureIndexes(ctx, "patient_id", "doctor_id"),
		billing.EnsureIndexes(ctx, "patient_id", "appointment_id", "status"),
	}
	if err := errors.Join(indexErrs...); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}

	// --- Security core ---
	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTAlgorithm, cfg.Auth.AccessTokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token service")
	}
	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	denylist := redisdb.NewDenylist(rdb)
	gate := authz.NewGate(tokens, denylist, logger.Named("authz")).
		OnDenylistUnavailable(metrics.DenylistUnavailableTotal.Inc)

	// --- Services ---
	hub := relay.NewHub(metrics.RelayObserver{}, logger.Named("relay"))
	deps := api.Dependencies{
		Config:    cfg,
		Log:       log,
		Gate:      gate,
		Auth:      service.NewAuthService(users, hasher, tokens, denylist, cfg.Auth.AccessTokenTTL, logger.Named("auth")),
		Users:     service.NewUserService(users, hasher, logger.Named("users")),
		Dashboard: service.NewDashboardService(users, appointments, prescriptions, billing),
		Hub:       hub,

		Appointments:   service.NewRecordService[domain.Appointment](appointments, "appointment", log),
		Prescriptions:  service.NewRecordService[domain.Prescription](prescriptions, "prescription", log),
		MedicalRecords: service.NewRecordService[domain.MedicalRecord](medicalRecords, "medical record", log),
		Stock:          service.NewRecordService[domain.StockItem](stock, "stock item", log),
		Billing:        service.NewRecordService[domain.Billing](billing, "billing", log),

		Checks: map[string]handler.Check{
			"mongodb": mongodb.Ping(db),
			"redis":   redisdb.Ping(rdb),
		},
	}

	e := api.NewRouter(deps)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	// Hijacked WebSocket connections are not tracked by Shutdown.
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
}
