// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev org already has settings.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"timeclock-control-plane/internal/config"
	"timeclock-control-plane/internal/db"
	"timeclock-control-plane/internal/duration"
	ledgerdomain "timeclock-control-plane/internal/ledger/domain"
	ledgerrepo "timeclock-control-plane/internal/ledger/repository"
	licensedomain "timeclock-control-plane/internal/license/domain"
	licenserepo "timeclock-control-plane/internal/license/repository"
	orgrepo "timeclock-control-plane/internal/orgsettings/repository"
)

const (
	devOrgID          = "dev-org-001"
	devUserID         = "dev-user-001"
	devUser2ID        = "dev-user-002"
	devPanelChannel   = "dev-panel-channel"
	devNotifyChannel  = "dev-notify-channel"
	devPaymentChannel = "dev-payment-channel"
	devAdminRole      = "dev-admin-role"
	devBeneficiary    = "dev-owner-001"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	settings := orgrepo.NewPostgresRepository(conn)

	existing, err := settings.Get(ctx, devOrgID)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Printf("Seed already applied (%s has settings). Skipping.", devOrgID)
		os.Exit(0)
	}

	if err := settings.SetPanelChannel(ctx, devOrgID, devPanelChannel); err != nil {
		log.Fatalf("set panel channel: %v", err)
	}
	if err := settings.SetNotifyChannel(ctx, devOrgID, devNotifyChannel); err != nil {
		log.Fatalf("set notify channel: %v", err)
	}
	if err := settings.SetPaymentChannel(ctx, devOrgID, devPaymentChannel); err != nil {
		log.Fatalf("set payment channel: %v", err)
	}
	if err := settings.SetAdminRole(ctx, devOrgID, devAdminRole); err != nil {
		log.Fatalf("set admin role: %v", err)
	}
	if err := settings.SetBeneficiary(ctx, devOrgID, devBeneficiary); err != nil {
		log.Fatalf("set beneficiary: %v", err)
	}

	now := time.Now().UTC()

	licenses := licenserepo.NewPostgresRepository(conn)
	if err := licenses.Upsert(ctx, &licensedomain.Window{
		OrgID:       devOrgID,
		Active:      true,
		WindowStart: now,
		Span:        licensedomain.Bounded(30 * duration.Day),
	}); err != nil {
		log.Fatalf("create license window: %v", err)
	}

	sessions := ledgerrepo.NewPostgresRepository(conn)
	// One closed session with a few hours banked, one freshly opened.
	if err := sessions.Upsert(ctx, &ledgerdomain.Session{
		OrgID:         devOrgID,
		UserID:        devUserID,
		AccumulatedMs: 3*duration.Hour + 30*duration.Minute,
	}); err != nil {
		log.Fatalf("create closed session: %v", err)
	}
	openSince := now.Add(-15 * time.Minute)
	if err := sessions.Upsert(ctx, &ledgerdomain.Session{
		OrgID:     devOrgID,
		UserID:    devUser2ID,
		OpenSince: &openSince,
	}); err != nil {
		log.Fatalf("create open session: %v", err)
	}

	log.Println("Seed completed successfully.")
	log.Printf("Dev org: %s (license active 30d, admin role %s)", devOrgID, devAdminRole)
}
