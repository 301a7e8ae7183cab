package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/phishsim/internal/config"
	"github.com/ignite/phishsim/internal/delivery"
	"github.com/ignite/phishsim/internal/pkg/distlock"
	"github.com/ignite/phishsim/internal/repository/postgres"
	"github.com/ignite/phishsim/internal/token"
	"github.com/ignite/phishsim/internal/whatsapp"
)

func main() {
	campaignID := flag.Int64("campaign", 0, "campaign id to deliver")
	flag.Parse()
	if *campaignID <= 0 {
		log.Fatal("usage: sender -campaign <id>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	codec, err := token.New(cfg.SecretKey)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis url: %v", err)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One sender per browser profile: a second run against the same profile
	// would corrupt the authenticated session.
	lock := distlock.NewLock(redisClient, db, "sender:"+cfg.ChromeProfileDir, 2*time.Hour)
	acquired, err := lock.Acquire(ctx)
	if err != nil {
		log.Fatalf("acquire run lock: %v", err)
	}
	if !acquired {
		log.Fatal("another sender run is active for this profile")
	}
	defer lock.Release(context.Background())

	dir := postgres.NewDirectoryRepo(db)
	campaign, err := dir.GetCampaign(ctx, *campaignID)
	if err != nil {
		log.Fatalf("load campaign %d: %v", *campaignID, err)
	}
	recipients, err := dir.ListActiveRecipients(ctx)
	if err != nil {
		log.Fatalf("load recipients: %v", err)
	}
	if len(recipients) == 0 {
		log.Fatal("no active recipients to deliver to")
	}

	session, err := whatsapp.New(ctx, cfg.ChromeProfileDir)
	if err != nil {
		log.Fatalf("open whatsapp session: %v", err)
	}
	defer session.Close()

	engine := delivery.NewEngine(session, codec, postgres.NewAuditRepo(db), delivery.Options{
		BaseURL:             cfg.BaseURL,
		CountryCode:         cfg.CountryCode,
		MaxRetries:          cfg.MaxRetries,
		Pacing:              cfg.Pacing,
		AuthPollInterval:    cfg.AuthPollInterval,
		ComposePollInterval: cfg.ComposePollInterval,
		ComposePollLimit:    cfg.ComposePollLimit,
	})

	log.Printf("delivering campaign %d to %d recipients (scan the QR code if prompted)",
		campaign.ID, len(recipients))

	report, runErr := engine.Run(ctx, campaign, recipients)
	log.Printf("run %s finished: attempted=%d sent=%d failed=%d",
		report.RunID, report.Attempted, report.Sent, report.Failed)
	for _, att := range report.Attempts {
		if !att.Sent {
			log.Printf("  failed: recipient=%d tries=%d err=%s", att.RecipientID, att.Tries, att.Error)
		}
	}
	if runErr != nil {
		log.Printf("run ended early: %v", runErr)
	}
}
