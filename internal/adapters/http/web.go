package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"academia/internal/adapters/billing"
	"academia/internal/adapters/email"
	"academia/internal/adapters/http/middleware"
	"academia/internal/adapters/http/perf"
	agendaStore "academia/internal/adapters/storage/agenda"
	attendanceStore "academia/internal/adapters/storage/attendance"
	instructorStore "academia/internal/adapters/storage/instructor"
	kioskStore "academia/internal/adapters/storage/kiosk"
	refdataStore "academia/internal/adapters/storage/refdata"
	studentStore "academia/internal/adapters/storage/student"
	subscriptionStore "academia/internal/adapters/storage/subscription"
	turmaStore "academia/internal/adapters/storage/turma"
	"academia/internal/application/orchestrators"
)

// Stores holds all storage dependencies.
type Stores struct {
	AgendaStore       agendaStore.Store
	TurmaStore        turmaStore.Store
	StudentStore      studentStore.Store
	InstructorStore   instructorStore.Store
	RefDataStore      refdataStore.Store
	AttendanceStore   attendanceStore.Store
	SubscriptionStore subscriptionStore.Store
	KioskStore        kioskStore.Store
}

// loadCSRFKey reads the CSRF secret from ACADEMIA_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("ACADEMIA_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("ACADEMIA_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("ACADEMIA_ENV") == "production" {
		log.Fatal("ACADEMIA_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set ACADEMIA_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string

// Global payment gateway (set by SetPaymentGateway)
var paymentGateway billing.Gateway

// Payment watcher shared across requests; at most one payment is
// watched at a time. watcherMu guards the pointer: concurrent
// reactivation requests race to create it.
var (
	watcherMu      sync.Mutex
	paymentWatcher *orchestrators.PaymentWatcher
)

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// SetPaymentGateway sets the global payment gateway for the application.
func SetPaymentGateway(g billing.Gateway) {
	paymentGateway = g
	watcherMu.Lock()
	paymentWatcher = nil
	watcherMu.Unlock()
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiters: configurable requests per second per IP, with a
	// larger budget for the kiosk tablet's search-as-you-type traffic.
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)
	kioskLimiter := middleware.NewRateLimiter(RateLimitPerSecond*5, time.Second)

	// Apply middleware: Timing -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.RateLimit(limiter, kioskLimiter),
		middleware.Timing(collector),
	)
}
