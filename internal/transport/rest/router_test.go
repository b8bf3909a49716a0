package rest_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/frahmantamala/pos-management/internal/auth"
	"github.com/frahmantamala/pos-management/internal/core/identity"
	"github.com/frahmantamala/pos-management/internal/dashboard"
	"github.com/frahmantamala/pos-management/internal/document"
	"github.com/frahmantamala/pos-management/internal/item"
	"github.com/frahmantamala/pos-management/internal/session"
	"github.com/frahmantamala/pos-management/internal/transaction"
	"github.com/frahmantamala/pos-management/internal/transport"
	"github.com/frahmantamala/pos-management/internal/transport/middleware"
	"github.com/frahmantamala/pos-management/internal/transport/rest"
	"github.com/frahmantamala/pos-management/web"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "REST Suite")
}

type stubAuth struct{}

func (stubAuth) Authenticate(context.Context, auth.LoginDTO) (identity.Identity, error) {
	return identity.Identity{}, auth.ErrInvalidCredentials
}
func (stubAuth) HashPassword(string) (string, error)               { return "", nil }
func (stubAuth) MigratePasswords(context.Context) (int, error)     { return 0, nil }
func (stubAuth) SetPassword(context.Context, string, string) error { return nil }

type stubItems struct{ created int }

func (s *stubItems) ListItems(context.Context, identity.Identity) ([]item.Item, error) {
	return []item.Item{{ItemID: 1, ItemName: "Pen", Category: "Stationery", Quantity: 10, Price: 2}}, nil
}
func (s *stubItems) CreateItem(context.Context, identity.Identity, item.ItemDTO) error {
	s.created++
	return nil
}
func (s *stubItems) UpdateItem(context.Context, identity.Identity, int64, item.ItemDTO) error {
	return nil
}
func (s *stubItems) DeleteItem(context.Context, identity.Identity, int64) error { return nil }

type stubTransactions struct{}

func (stubTransactions) ListTransactions(context.Context, identity.Identity, transaction.Filter) ([]transaction.Transaction, error) {
	return []transaction.Transaction{}, nil
}
func (stubTransactions) CreateTransaction(context.Context, identity.Identity, transaction.CreateTransactionDTO) (int64, error) {
	return 1, nil
}
func (stubTransactions) GetTransaction(context.Context, identity.Identity, int64) (*transaction.Detailed, error) {
	return nil, errors.New("unused")
}

type stubStats struct{}

func (stubStats) Stats(context.Context, identity.Identity) (dashboard.Stats, error) {
	return dashboard.Stats{ActiveUsers: 4}, nil
}

type stubDocuments struct{}

func (stubDocuments) GenerateInvoice(context.Context, identity.Identity, int64) (document.File, error) {
	return document.File{Name: "invoice_000001.pdf", ContentType: document.ContentTypePDF, Data: []byte("%PDF-")}, nil
}
func (stubDocuments) GenerateReport(context.Context, identity.Identity, document.ReportRequest) (document.File, error) {
	return document.File{Name: "r.pdf", ContentType: document.ContentTypePDF, Data: []byte("%PDF-")}, nil
}

var _ = Describe("Router", func() {
	var (
		router   *chi.Mux
		handlers rest.Handlers
		sessions *session.Manager
		items    *stubItems
	)

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		base := transport.NewBaseHandler(lg)
		pages, err := web.Templates()
		Expect(err).NotTo(HaveOccurred())

		sessions = session.NewManager(session.NewMemoryStore(), session.Options{
			Secret: "0123456789abcdef0123456789abcdef",
			TTL:    time.Hour,
		})
		db, mock, err := sqlmock.New()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			mock.ExpectClose()
			Expect(db.Close()).To(Succeed())
		})

		items = &stubItems{}
		handlers = rest.Handlers{
			Auth:         auth.NewHandler(base, stubAuth{}, sessions, pages),
			Items:        item.NewHandler(base, items),
			Transactions: transaction.NewHandler(base, stubTransactions{}),
			Dashboard:    dashboard.NewHandler(base, stubStats{}),
			Documents:    document.NewHandler(base, stubDocuments{}),
			Health:       rest.NewHealthHandler(db, nil),
		}
		router = rest.NewRouter(handlers, rest.Options{
			RBAC:         auth.NewRBACAuthorization(sessions, lg),
			LoginLimiter: middleware.NewRateLimiter(60, 2),
			Metrics:      middleware.NewMetrics("pos", "/metrics"),
			MetricsPath:  "/metrics",
		})
	})

	// sessionFor logs the identity in and returns its cookie.
	sessionFor := func(permissions ...string) *http.Cookie {
		w := httptest.NewRecorder()
		id := identity.New(2, "cashier1", 1, "Main Store", []string{"Cashier"}, permissions)
		Expect(sessions.Create(context.Background(), w, id)).To(Succeed())
		cookies := w.Result().Cookies()
		Expect(cookies).To(HaveLen(1))
		return cookies[0]
	}

	do := func(method, target, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, target, reader)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("registers every API route", func() {
		registered := map[string]bool{}
		Expect(chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			registered[method+" "+route] = true
			return nil
		})).To(Succeed())

		for _, r := range rest.APIRoutes(handlers) {
			Expect(registered).To(HaveKey(r.Method + " /api" + r.Pattern))
		}
	})

	It("answers 401 on API routes without a session", func() {
		for _, target := range []string{"/api/items", "/api/transactions", "/api/dashboard-stats", "/api/user"} {
			w := do(http.MethodGet, target, "", nil)
			Expect(w.Code).To(Equal(http.StatusUnauthorized), target)
			Expect(w.Body.String()).To(MatchJSON(`{"error":"Not authenticated"}`))
		}
	})

	Context("with only Read_Item", func() {
		var cookie *http.Cookie

		BeforeEach(func() {
			cookie = sessionFor(auth.PermReadItem)
		})

		It("lists items", func() {
			w := do(http.MethodGet, "/api/items", "", cookie)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"ItemName":"Pen"`))
		})

		It("is denied every item mutation without touching the service", func() {
			body := `{"itemName":"Pen","category":"Stationery","quantity":1,"price":1}`
			for _, req := range []struct{ method, target string }{
				{http.MethodPost, "/api/items"},
				{http.MethodPut, "/api/items/1"},
				{http.MethodDelete, "/api/items/1"},
			} {
				w := do(req.method, req.target, body, cookie)
				Expect(w.Code).To(Equal(http.StatusForbidden), req.method)
				Expect(w.Body.String()).To(MatchJSON(`{"error":"Access denied"}`))
			}
			Expect(items.created).To(BeZero())
		})

		It("still reaches session-only routes", func() {
			Expect(do(http.MethodGet, "/api/transactions", "", cookie).Code).To(Equal(http.StatusOK))
			Expect(do(http.MethodGet, "/api/dashboard-stats", "", cookie).Code).To(Equal(http.StatusOK))
			Expect(do(http.MethodGet, "/api/generate-invoice/1", "", cookie).Code).To(Equal(http.StatusOK))
		})
	})

	It("lets Create_Item create", func() {
		w := do(http.MethodPost, "/api/items", `{"itemName":"Pen","category":"Stationery","quantity":1,"price":1}`, sessionFor(auth.PermCreateItem))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(items.created).To(Equal(1))
	})

	It("redirects anonymous dashboard visits to the login page", func() {
		w := do(http.MethodGet, "/dashboard", "", nil)
		Expect(w.Code).To(Equal(http.StatusSeeOther))
		Expect(w.Header().Get("Location")).To(Equal("/"))
	})

	It("throttles repeated logins", func() {
		codes := []int{}
		for i := 0; i < 3; i++ {
			codes = append(codes, do(http.MethodPost, "/login", "username=a&password=b", nil).Code)
		}
		Expect(codes).To(Equal([]int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}))
	})

	It("serves health probes and metrics without a session", func() {
		Expect(do(http.MethodGet, "/api/v1/ping", "", nil).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/api/v1/health", "", nil).Code).To(Equal(http.StatusOK))

		w := do(http.MethodGet, "/metrics", "", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("pos_http_requests_total"))
	})

	It("tags responses with a trace id", func() {
		w := do(http.MethodGet, "/api/v1/ping", "", nil)
		Expect(w.Header().Get(middleware.TraceHeader)).NotTo(BeEmpty())
	})
})
