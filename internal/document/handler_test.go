package document_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/frahmantamala/pos-management/internal"
	"github.com/frahmantamala/pos-management/internal/core/identity"
	"github.com/frahmantamala/pos-management/internal/document"
	"github.com/frahmantamala/pos-management/internal/transaction"
	"github.com/frahmantamala/pos-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
)

func TestDocument(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Document Suite")
}

type fakeSource struct {
	detailed *transaction.Detailed
	list     []transaction.Transaction
	filter   transaction.Filter
	err      error
}

func (f *fakeSource) ListTransactions(_ context.Context, _ identity.Identity, filter transaction.Filter) ([]transaction.Transaction, error) {
	f.filter = filter
	return f.list, f.err
}

func (f *fakeSource) GetTransaction(_ context.Context, _ identity.Identity, id int64) (*transaction.Detailed, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.detailed == nil || f.detailed.TransactionID != id {
		return nil, internal.ErrTransactionNotFound
	}
	return f.detailed, nil
}

var _ = Describe("Document Handler", func() {
	var (
		source *fakeSource
		router chi.Router
		clock  time.Time
	)

	BeforeEach(func() {
		clock = time.Date(2024, 1, 20, 9, 5, 7, 0, time.UTC)
		date := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
		source = &fakeSource{
			detailed: &transaction.Detailed{
				Transaction: transaction.Transaction{
					TransactionID:   42,
					TransactionDate: &date,
					Username:        "cashier1",
					TotalAmount:     6,
					Discount:        1,
					NetAmount:       5,
				},
				Items: []transaction.LineItem{{ItemName: "Pen", Quantity: 3, Price: 2, Amount: 6}},
			},
		}

		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc := document.NewService(source, document.NewPDFRenderer(false), document.NewSpreadsheetRenderer(), lg).
			WithClock(func() time.Time { return clock })
		h := document.NewHandler(transport.NewBaseHandler(lg), svc)

		caller := identity.New(2, "cashier1", 1, "Main Store", []string{"Cashier"}, nil)
		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithIdentity(r.Context(), caller)))
			})
		})
		router.Get("/api/generate-invoice/{transactionId}", h.GenerateInvoice)
		router.Post("/api/generate-report", h.GenerateReport)
	})

	do := func(method, target, body string) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, target, reader))
		return w
	}

	Describe("GenerateInvoice", func() {
		It("returns the PDF as an attachment", func() {
			w := do(http.MethodGet, "/api/generate-invoice/42", "")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("application/pdf"))
			Expect(w.Header().Get("Content-Disposition")).To(Equal(`attachment; filename="invoice_000042.pdf"`))

			body := w.Body.String()
			Expect(body).To(HavePrefix("%PDF-"))
			Expect(body).To(ContainSubstring("RBAC POS SYSTEM"))
			Expect(body).To(ContainSubstring("Tenant: Main Store"))
			Expect(body).To(ContainSubstring("INVOICE #000042"))
			Expect(body).To(ContainSubstring("2024-01-15 10:30:00"))
			Expect(body).To(ContainSubstring("ITEMS PURCHASED"))
			Expect(body).To(ContainSubstring("$5.00"))
			Expect(body).To(ContainSubstring("Generated on: 2024-01-20 09:05:07"))
		})

		It("answers 404 without a PDF for an unknown transaction", func() {
			w := do(http.MethodGet, "/api/generate-invoice/7", "")

			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Header().Get("Content-Type")).To(Equal("application/json"))
			Expect(w.Body.String()).To(MatchJSON(`{"error":"Transaction not found"}`))
		})

		It("rejects a non-numeric id", func() {
			w := do(http.MethodGet, "/api/generate-invoice/abc", "")

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("hides load failures behind a generic message", func() {
			source.err = errors.New("pq: connection refused")
			w := do(http.MethodGet, "/api/generate-invoice/42", "")

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).To(MatchJSON(`{"error":"Failed to generate invoice"}`))
		})
	})

	Describe("GenerateReport", func() {
		BeforeEach(func() {
			source.list = []transaction.Transaction{source.detailed.Transaction, {TransactionID: 43, Username: "manager", TotalAmount: 10, NetAmount: 10}}
		})

		It("renders a summary report by default", func() {
			w := do(http.MethodPost, "/api/generate-report", `{"start_date":"2024-01-01","end_date":"2024-01-31"}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Disposition")).To(ContainSubstring("transaction_report_20240120_090507.pdf"))
			body := w.Body.String()
			Expect(body).To(ContainSubstring("Transaction Report"))
			Expect(body).To(ContainSubstring("2024-01-01 to 2024-01-31"))
			Expect(body).To(ContainSubstring("All Users"))
			Expect(body).To(ContainSubstring("$16.00"))
			Expect(body).To(ContainSubstring("$15.00"))
			Expect(body).NotTo(ContainSubstring("Detailed Transactions"))
			Expect(source.filter.EndBefore.Format("2006-01-02")).To(Equal("2024-02-01"))
		})

		It("adds the transaction table in detailed mode", func() {
			w := do(http.MethodPost, "/api/generate-report", `{"report_type":"detailed","username":"cash"}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			body := w.Body.String()
			Expect(body).To(ContainSubstring("Detailed Transactions"))
			Expect(body).To(ContainSubstring("2024-01-15 10:30"))
			Expect(body).To(ContainSubstring("All to All"))
			Expect(source.filter.Username).To(Equal("cash"))
		})

		It("says so when nothing matches", func() {
			source.list = nil
			w := do(http.MethodPost, "/api/generate-report", `{}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("No transactions found for the specified criteria."))
		})

		It("accepts an empty body", func() {
			w := do(http.MethodPost, "/api/generate-report", "")

			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("rejects an invalid date", func() {
			w := do(http.MethodPost, "/api/generate-report", `{"end_date":"31/01/2024"}`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(MatchJSON(`{"error":"Invalid end_date"}`))
		})

		It("rejects an unknown format", func() {
			w := do(http.MethodPost, "/api/generate-report", `{"format":"docx"}`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("exports a workbook when asked for xlsx", func() {
			w := do(http.MethodPost, "/api/generate-report", `{"format":"xlsx","report_type":"detailed"}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal(document.ContentTypeXLSX))
			Expect(w.Header().Get("Content-Disposition")).To(ContainSubstring("transaction_report_20240120_090507.xlsx"))

			f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()

			Expect(f.GetSheetList()).To(Equal([]string{"Report", "Transactions"}))
			title, err := f.GetCellValue("Report", "A1")
			Expect(err).NotTo(HaveOccurred())
			Expect(title).To(Equal("Transaction Report"))

			user, err := f.GetCellValue("Transactions", "C2")
			Expect(err).NotTo(HaveOccurred())
			Expect(user).To(Equal("cashier1"))

			net, err := f.GetCellValue("Transactions", "F3", excelize.Options{RawCellValue: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(net).To(Equal("10"))
		})
	})
})
