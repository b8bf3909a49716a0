package internal_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/frahmantamala/pos-management/internal"
	"github.com/frahmantamala/pos-management/internal/core/identity"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

func validConfig() *internal.Config {
	return &internal.Config{
		Server: internal.ServerConfig{Port: 5000, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second},
		Database: internal.DatabaseConfig{
			Source:       "postgres://localhost/pos",
			MaxOpenConns: 10,
			MaxIdleConns: 2,
		},
		Security: internal.SecurityConfig{
			SessionSecret: "0123456789abcdef0123456789abcdef",
			SessionTTL:    time.Hour,
			BCryptCost:    12,
		},
		Session: internal.SessionConfig{Store: internal.SessionStoreMemory},
		Observability: internal.ObservabilityConfig{
			Metrics: internal.MetricsConfig{Enabled: true, Path: "/metrics"},
			Logging: internal.LoggingConfig{Level: "info", Format: "text"},
		},
	}
}

var _ = Describe("Config", func() {
	It("accepts a complete config", func() {
		Expect(validConfig().Validate()).To(Succeed())
	})

	It("rejects a short session secret", func() {
		cfg := validConfig()
		cfg.Security.SessionSecret = "short"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("session secret must be at least 32 characters")))
	})

	It("requires a redis address for the redis session store", func() {
		cfg := validConfig()
		cfg.Session.Store = internal.SessionStoreRedis
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("redis.addr is required")))

		cfg.Redis.Addr = "localhost:6379"
		Expect(cfg.Validate()).To(Succeed())
	})

	It("collects every problem in one error", func() {
		cfg := validConfig()
		cfg.Server.Port = 0
		cfg.Database.Source = ""
		cfg.Observability.Logging.Level = "trace"

		err := cfg.Validate()
		Expect(err).To(MatchError(ContainSubstring("invalid port 0")))
		Expect(err).To(MatchError(ContainSubstring("source is required")))
		Expect(err).To(MatchError(ContainSubstring(`invalid log level "trace"`)))
	})

	It("reads container settings from the environment", func() {
		for k, v := range map[string]string{
			"DATABASE_URL":                   "postgres://db/pos",
			"TENANCY_ISOLATED":               "true",
			"INVENTORY_ALLOW_NEGATIVE_STOCK": "false",
			"SESSION_TTL":                    "90m",
		} {
			Expect(os.Setenv(k, v)).To(Succeed())
			DeferCleanup(os.Unsetenv, k)
		}

		cfg := internal.LoadConfigFromEnv()
		Expect(cfg.Database.Source).To(Equal("postgres://db/pos"))
		Expect(cfg.Tenancy.Isolated).To(BeTrue())
		Expect(cfg.Inventory.AllowNegativeStock).To(BeFalse())
		Expect(cfg.Security.SessionTTL).To(Equal(90 * time.Minute))
		Expect(cfg.Dashboard.ActiveUsers).To(Equal(4))
	})
})

var _ = Describe("AppError", func() {
	It("matches its sentinel after WithCause", func() {
		err := internal.ErrInsufficientStock.WithCause(errors.New("Pen"))
		Expect(errors.Is(err, internal.ErrInsufficientStock)).To(BeTrue())
		Expect(errors.Is(err, internal.ErrTransactionNotFound)).To(BeFalse())
		Expect(internal.ErrInsufficientStock.Cause).To(BeNil())
	})

	It("exposes only the message to clients", func() {
		err := internal.NewInternalError("Failed to create transaction", errors.New("pq: deadlock"))
		status, body := err.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(body).To(Equal(internal.Response{Error: "Failed to create transaction"}))
	})

	It("joins field messages", func() {
		err := internal.NewValidationFieldError("itemName", "itemName is required", internal.ErrCodeValidationFailed)
		Expect(err.GetDetailedMessage()).To(Equal("itemName is required"))
	})
})

var _ = Describe("Identity context", func() {
	It("round-trips the identity", func() {
		id := identity.New(1, "admin", 1, "Main Store", []string{"Admin"}, []string{"Read_Item"})
		got, ok := internal.IdentityFromContext(internal.ContextWithIdentity(context.Background(), id))
		Expect(ok).To(BeTrue())
		Expect(got.Username).To(Equal("admin"))
	})

	It("reports a missing identity", func() {
		_, ok := internal.IdentityFromContext(context.Background())
		Expect(ok).To(BeFalse())
	})
})
