package item_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/frahmantamala/pos-management/internal"
	itemDatamodel "github.com/frahmantamala/pos-management/internal/core/datamodel/item"
	"github.com/frahmantamala/pos-management/internal/core/events"
	"github.com/frahmantamala/pos-management/internal/core/identity"
	"github.com/frahmantamala/pos-management/internal/item"
	itemPostgres "github.com/frahmantamala/pos-management/internal/item/postgres"
	"github.com/frahmantamala/pos-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestItem(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Item Suite")
}

func openDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	Expect(err).NotTo(HaveOccurred())
	sqlDB, err := db.DB()
	Expect(err).NotTo(HaveOccurred())
	sqlDB.SetMaxOpenConns(1)
	Expect(db.AutoMigrate(&itemDatamodel.Item{})).To(Succeed())
	return db
}

var _ = Describe("Item Handler Integration", func() {
	var (
		db      *gorm.DB
		router  *chi.Mux
		slogger *slog.Logger
		caller  identity.Identity
	)

	setup := func(isolated bool) {
		db = openDB()
		repo := itemPostgres.NewItemRepository(db)
		service := item.NewService(repo, slogger, isolated)
		handler := item.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithIdentity(r.Context(), caller)))
			})
		})
		router.Get("/api/items", handler.ListItems)
		router.Post("/api/items", handler.CreateItem)
		router.Put("/api/items/{id}", handler.UpdateItem)
		router.Delete("/api/items/{id}", handler.DeleteItem)
	}

	do := func(method, target, body string) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, target, reader)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	listItems := func() []item.Item {
		w := do(http.MethodGet, "/api/items", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var items []item.Item
		Expect(json.Unmarshal(w.Body.Bytes(), &items)).To(Succeed())
		return items
	}

	BeforeEach(func() {
		slogger = slog.New(slog.NewTextHandler(io.Discard, nil))
		caller = identity.New(1, "admin", 1, "Main Store", []string{"Admin"}, []string{"Read_Item", "Create_Item"})
		setup(false)
	})

	It("returns an empty JSON array when there are no items", func() {
		w := do(http.MethodGet, "/api/items", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`[]`))
	})

	It("round-trips a created item through the list", func() {
		w := do(http.MethodPost, "/api/items", `{"itemName":"Pen","category":"Stationery","quantity":10,"price":1.5}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"message":"Item created successfully"}`))

		items := listItems()
		Expect(items).To(HaveLen(1))
		Expect(items[0].ItemName).To(Equal("Pen"))
		Expect(items[0].Category).To(Equal("Stationery"))
		Expect(items[0].Quantity).To(Equal(10))
		Expect(items[0].Price).To(BeNumerically("~", 1.5))
	})

	It("uses the PascalCase wire keys", func() {
		do(http.MethodPost, "/api/items", `{"itemName":"Pen","category":"Stationery","quantity":10,"price":1.5}`)

		w := do(http.MethodGet, "/api/items", "")
		Expect(w.Body.String()).To(ContainSubstring(`"ItemName":"Pen"`))
		Expect(w.Body.String()).To(ContainSubstring(`"Price":1.5`))
	})

	It("rejects malformed JSON with 400", func() {
		w := do(http.MethodPost, "/api/items", `{"itemName":`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(MatchJSON(`{"error":"Invalid request body"}`))
	})

	It("rejects missing fields with 400", func() {
		w := do(http.MethodPost, "/api/items", `{"itemName":"Pen"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var body map[string]string
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body["error"]).To(ContainSubstring("category is required"))
	})

	It("accepts negative quantities without range checks", func() {
		w := do(http.MethodPost, "/api/items", `{"itemName":"Pen","category":"x","quantity":-4,"price":-1}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(listItems()[0].Quantity).To(Equal(-4))
	})

	It("updates and deletes by id", func() {
		do(http.MethodPost, "/api/items", `{"itemName":"Pen","category":"Stationery","quantity":10,"price":1.5}`)
		id := listItems()[0].ItemID

		w := do(http.MethodPut, "/api/items/"+strconv.FormatInt(id, 10), `{"itemName":"Pen","category":"Stationery","quantity":25,"price":1.75}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"message":"Item updated successfully"}`))
		Expect(listItems()[0].Quantity).To(Equal(25))

		w = do(http.MethodDelete, "/api/items/"+strconv.FormatInt(id, 10), "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"message":"Item deleted successfully"}`))
		Expect(listItems()).To(BeEmpty())
	})

	It("reports success for update and delete of a missing id", func() {
		w := do(http.MethodPut, "/api/items/4242", `{"itemName":"Ghost","category":"x","quantity":1,"price":1}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodDelete, "/api/items/4242", "")
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("rejects a non-numeric id", func() {
		w := do(http.MethodDelete, "/api/items/abc", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	Context("with tenancy isolation", func() {
		BeforeEach(func() {
			setup(true)
		})

		It("stamps new items with the caller's tenant and hides other tenants", func() {
			do(http.MethodPost, "/api/items", `{"itemName":"Pen","category":"x","quantity":1,"price":1}`)

			var row itemDatamodel.Item
			Expect(db.First(&row).Error).To(Succeed())
			Expect(row.TenantID).NotTo(BeNil())
			Expect(*row.TenantID).To(Equal(int64(1)))

			caller = identity.New(5, "other", 2, "Branch", nil, []string{"Read_Item"})
			Expect(listItems()).To(BeEmpty())
		})
	})
})

var _ = Describe("Inventory EventHandler", func() {
	It("looks up the sold items against the low-stock threshold", func() {
		db := openDB()
		repo := itemPostgres.NewItemRepository(db)
		Expect(repo.Create(context.Background(), &itemDatamodel.Item{ItemName: "Pen", Quantity: 2})).To(Succeed())

		var logged strings.Builder
		handler := item.NewEventHandler(repo, 5, slog.New(slog.NewTextHandler(&logged, nil)))

		event := events.NewTransactionCreatedEvent(1, "cashier1", 1, 10, []events.SoldLine{{ItemName: "Pen", Quantity: 3}})
		Expect(handler.HandleTransactionCreated(context.Background(), event)).To(Succeed())
		Expect(logged.String()).To(ContainSubstring("item stock low"))
		Expect(logged.String()).To(ContainSubstring("item_name=Pen"))
	})

	It("rejects foreign event types", func() {
		handler := item.NewEventHandler(nil, 5, slog.New(slog.NewTextHandler(io.Discard, nil)))
		Expect(handler.HandleTransactionCreated(context.Background(), events.BaseEvent{Type: "other"})).To(HaveOccurred())
	})
})
