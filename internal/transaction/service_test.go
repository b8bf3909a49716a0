package transaction_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/frahmantamala/pos-management/internal"
	transactionDatamodel "github.com/frahmantamala/pos-management/internal/core/datamodel/transaction"
	"github.com/frahmantamala/pos-management/internal/core/events"
	"github.com/frahmantamala/pos-management/internal/core/identity"
	"github.com/frahmantamala/pos-management/internal/transaction"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Transaction Service", func() {
	var (
		repo      *mockRepository
		publisher *capturePublisher
		svc       *transaction.Service
	)

	BeforeEach(func() {
		repo = &mockRepository{}
		publisher = &capturePublisher{}
		svc = transaction.NewService(repo, publisher, slog.New(slog.NewTextHandler(io.Discard, nil)),
			transaction.Options{Isolated: true})
	})

	Describe("ReplayCreated", func() {
		It("publishes the stored lines again", func() {
			user, pen, qty, net := "cashier1", "Pen", 3, 6.0
			repo.rows = []transactionDatamodel.Master{{
				TransactionID: 7,
				Username:      &user,
				NetAmount:     &net,
				Details:       []transactionDatamodel.Detail{{ItemName: &pen, Quantity: &qty}},
			}}

			Expect(svc.ReplayCreated(context.Background(), 7)).To(Succeed())

			Expect(publisher.events).To(HaveLen(1))
			event := publisher.events[0].(*events.TransactionCreatedEvent)
			Expect(event.TransactionID).To(Equal(int64(7)))
			Expect(event.Username).To(Equal("cashier1"))
			Expect(event.Lines).To(Equal([]events.SoldLine{{ItemName: "Pen", Quantity: 3}}))
		})

		It("reports unknown transactions", func() {
			err := svc.ReplayCreated(context.Background(), 99)
			Expect(err).To(MatchError(internal.ErrTransactionNotFound))
			Expect(publisher.events).To(BeEmpty())
		})
	})

	Describe("GetTransaction", func() {
		It("scopes the lookup to the caller's tenant when isolated", func() {
			caller := identity.New(2, "cashier1", 3, "Branch", nil, nil)
			_, err := svc.GetTransaction(context.Background(), caller, 1)
			Expect(err).To(MatchError(internal.ErrTransactionNotFound))
			Expect(repo.scope).To(Equal(identity.TenantScope(3)))
		})
	})
})
