package rest_test

import (
	"context"
	"sort"

	"github.com/frahmantamala/pos-management/internal/auth"
	"github.com/frahmantamala/pos-management/internal/dashboard"
	"github.com/frahmantamala/pos-management/internal/document"
	"github.com/frahmantamala/pos-management/internal/item"
	"github.com/frahmantamala/pos-management/internal/transaction"
	"github.com/frahmantamala/pos-management/internal/transport/rest"
	"github.com/frahmantamala/pos-management/internal/transport/swagger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("OpenAPI contract", func() {
	It("is valid and documents every API route", func() {
		doc, err := swagger.LoadContract(context.Background(), "../../../api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())

		routes := map[string][]string{
			"/login":         {"POST"},
			"/logout":        {"GET"},
			"/api/v1/health": {"GET"},
			"/api/v1/ping":   {"GET"},
		}
		for _, r := range rest.APIRoutes(rest.Handlers{
			Auth:         &auth.Handler{},
			Items:        &item.Handler{},
			Transactions: &transaction.Handler{},
			Dashboard:    &dashboard.Handler{},
			Documents:    &document.Handler{},
		}) {
			routes["/api"+r.Pattern] = append(routes["/api"+r.Pattern], r.Method)
		}

		missing := swagger.Undocumented(doc, routes)
		sort.Strings(missing)
		Expect(missing).To(BeEmpty())
	})
})
