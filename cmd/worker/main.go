// Worker runs the background reconciliation sweeps: closing sessions left
// open past the cap and deactivating expired license windows. Set DATABASE_URL;
// KAFKA_BROKERS enables auto-close notices on org notify channels.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timeclock-control-plane/internal/audit"
	auditrepo "timeclock-control-plane/internal/audit/repository"
	"timeclock-control-plane/internal/channel"
	"timeclock-control-plane/internal/config"
	"timeclock-control-plane/internal/db"
	ledgerrepo "timeclock-control-plane/internal/ledger/repository"
	licenserepo "timeclock-control-plane/internal/license/repository"
	licensesvc "timeclock-control-plane/internal/license/service"
	orgrepo "timeclock-control-plane/internal/orgsettings/repository"
	"timeclock-control-plane/internal/sweeper"
	"timeclock-control-plane/internal/telemetry"
	otelsetup "timeclock-control-plane/internal/telemetry/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("worker: DATABASE_URL is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	providers, err := otelsetup.NewProviders(ctx, cfg.OTLPEndpoint, "timeclock-worker", false)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	metrics, err := telemetry.NewMetrics(providers.MeterProvider.Meter("timeclock.worker"))
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}

	sessions := ledgerrepo.NewPostgresRepository(conn)
	licenses := licenserepo.NewPostgresRepository(conn)
	settings := orgrepo.NewPostgresRepository(conn)

	auditLog := otelsetup.Fanout(
		audit.NewLogger(auditrepo.NewPostgresRepository(conn), nil),
		otelsetup.NewAuditEmitter(providers.LoggerProvider),
	)
	licenseService := licensesvc.NewService(licenses, auditLog)

	var notifier sweeper.Notifier
	if brokers := cfg.KafkaBrokersList(); len(brokers) > 0 {
		resolver := channel.NewKafkaResolver(brokers, cfg.ChannelTopicPrefix+".", settings)
		notifier = sweeper.NewChannelNotifier(resolver, licenseService)
	} else {
		log.Println("worker: KAFKA_BROKERS not set, auto-close notices disabled")
	}

	s := sweeper.New(sessions, licenses, notifier, metrics,
		cfg.SessionSweepInterval(), cfg.LicenseSweepInterval())

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("worker: shutting down...")
		cancel()
	}()

	log.Printf("worker: sweeping sessions every %s, licenses every %s",
		cfg.SessionSweepInterval(), cfg.LicenseSweepInterval())
	s.Run(ctx)
	log.Println("worker: stopped")
}
