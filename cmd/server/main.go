package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	_ "modernc.org/sqlite"

	"academia/internal/adapters/billing"
	emailPkg "academia/internal/adapters/email"
	web "academia/internal/adapters/http"
	"academia/internal/adapters/http/perf"
	"academia/internal/adapters/storage"
	agendaStore "academia/internal/adapters/storage/agenda"
	attendanceStore "academia/internal/adapters/storage/attendance"
	instructorStore "academia/internal/adapters/storage/instructor"
	kioskStore "academia/internal/adapters/storage/kiosk"
	refdataStore "academia/internal/adapters/storage/refdata"
	studentStore "academia/internal/adapters/storage/student"
	subscriptionStore "academia/internal/adapters/storage/subscription"
	turmaStore "academia/internal/adapters/storage/turma"
	"academia/internal/application/orchestrators"
	"academia/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load(envOrDefault("ACADEMIA_CONFIG", "academia.toml"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dsn := cfg.Database.Path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.MigrateDB(db, cfg.Database.Path); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	log.Println("Database initialized successfully!")

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	stores := &web.Stores{
		AgendaStore:       agendaStore.NewSQLiteStore(timedDB),
		TurmaStore:        turmaStore.NewSQLiteStore(timedDB),
		StudentStore:      studentStore.NewSQLiteStore(timedDB),
		InstructorStore:   instructorStore.NewSQLiteStore(timedDB),
		RefDataStore:      refdataStore.NewSQLiteStore(timedDB),
		AttendanceStore:   attendanceStore.NewSQLiteStore(timedDB),
		SubscriptionStore: subscriptionStore.NewSQLiteStore(timedDB),
		KioskStore:        kioskStore.NewSQLiteStore(timedDB),
	}

	// Seed default unit, training areas, courses, and billing plans
	seedDeps := orchestrators.SeedReferenceDataDeps{RefDataStore: stores.RefDataStore}
	if err := orchestrators.ExecuteSeedReferenceData(context.Background(), seedDeps); err != nil {
		log.Fatalf("failed to seed reference data: %v", err)
	}

	// Configure email sender
	if cfg.Email.ResendAPIKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.From), cfg.Email.From, cfg.Email.ReplyTo)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), cfg.Email.From, cfg.Email.ReplyTo)
		if os.Getenv("ACADEMIA_ENV") == "production" {
			log.Println("WARNING: email.resend_api_key is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set ACADEMIA_EMAIL__RESEND_API_KEY for real delivery)")
		}
	}

	// Configure payment gateway
	if cfg.Billing.GatewayBaseURL != "" {
		web.SetPaymentGateway(billing.NewHTTPGateway(cfg.Billing.GatewayBaseURL, cfg.Billing.GatewayAPIKey))
		log.Println("Payment gateway configured (HTTP)")
	} else {
		web.SetPaymentGateway(billing.NewSimulatedGateway())
		log.Println("Payment gateway configured (simulated — set ACADEMIA_BILLING__GATEWAY_BASE_URL for real charges)")
	}

	// Nightly rollover: complete past turmas, mark stale payments overdue
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Jobs.NightlyRollover, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		result, err := orchestrators.ExecuteNightlyRollover(ctx, orchestrators.NightlyRolloverDeps{
			TurmaStore:   stores.TurmaStore,
			PaymentStore: stores.SubscriptionStore,
		})
		if err != nil {
			slog.Error("rollover_event", "event", "nightly_rollover_failed", "error", err)
			return
		}
		slog.Info("rollover_event", "event", "nightly_rollover_done",
			"turmas_completed", result.TurmasCompleted,
			"payments_overdue", result.PaymentsOverdue)
	})
	if err != nil {
		log.Fatalf("invalid nightly rollover schedule %q: %v", cfg.Jobs.NightlyRollover, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	mux := web.NewMux("static", stores, collector)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Academia %s starting on %s (env=%s, schema=%d)", version, cfg.Server.Addr, envOrDefault("ACADEMIA_ENV", "development"), storage.LatestSchemaVersion())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
