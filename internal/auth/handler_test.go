package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/pos-management/internal"
	"github.com/frahmantamala/pos-management/internal/core/identity"
	"github.com/frahmantamala/pos-management/internal/session"
	"github.com/frahmantamala/pos-management/internal/transport"
	"github.com/frahmantamala/pos-management/web"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		handler  *Handler
		rbac     *RBACAuthorization
		sessions *session.Manager
		mockRepo *mockUserRepository
	)

	ginkgo.BeforeEach(func() {
		pages, err := web.Templates()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		mockRepo = newMockUserRepository()
		sessions = session.NewManager(session.NewMemoryStore(), session.Options{
			Secret: "0123456789abcdef0123456789abcdef",
			TTL:    time.Hour,
		})
		svc := NewService(mockRepo, discardLogger(), bcrypt.MinCost)
		handler = NewHandler(transport.NewBaseHandler(discardLogger()), svc, sessions, pages)
		rbac = NewRBACAuthorization(sessions, discardLogger())
	})

	login := func(username, password string) *httptest.ResponseRecorder {
		form := url.Values{"username": {username}, "password": {password}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		handler.Login(w, req)
		return w
	}

	withCookies := func(method, target string, w *httptest.ResponseRecorder) *http.Request {
		req := httptest.NewRequest(method, target, nil)
		for _, c := range w.Result().Cookies() {
			req.AddCookie(c)
		}
		return req
	}

	ginkgo.Describe("Login", func() {
		ginkgo.It("redirects to the dashboard and sets a session cookie", func() {
			w := login("admin", "correct_password")

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusSeeOther))
			gomega.Expect(w.Header().Get("Location")).To(gomega.Equal("/dashboard"))
			gomega.Expect(w.Result().Cookies()).NotTo(gomega.BeEmpty())
		})

		ginkgo.It("re-renders the login page on bad credentials", func() {
			w := login("admin", "nope")

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("Invalid username or password"))
			gomega.Expect(w.Result().Cookies()).To(gomega.BeEmpty())
		})

		ginkgo.It("shows a database error when the lookup fails", func() {
			mockRepo.lookupErr = context.DeadlineExceeded
			w := login("admin", "correct_password")

			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("Database connection error"))
		})
	})

	ginkgo.Describe("Dashboard and logout", func() {
		ginkgo.It("redirects anonymous visitors to the login page", func() {
			w := httptest.NewRecorder()
			handler.Dashboard(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusSeeOther))
			gomega.Expect(w.Header().Get("Location")).To(gomega.Equal("/"))
		})

		ginkgo.It("renders the dashboard for a logged in user", func() {
			loggedIn := login("admin", "correct_password")
			w := httptest.NewRecorder()
			handler.Dashboard(w, withCookies(http.MethodGet, "/dashboard", loggedIn))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("admin"))
			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("Main Store"))
		})

		ginkgo.It("clears the session on logout", func() {
			loggedIn := login("admin", "correct_password")
			w := httptest.NewRecorder()
			handler.Logout(w, withCookies(http.MethodGet, "/logout", loggedIn))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusSeeOther))
			gomega.Expect(w.Header().Get("Location")).To(gomega.Equal("/"))

			_, err := sessions.Resolve(context.Background(), withCookies(http.MethodGet, "/api/user", loggedIn))
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("RBACAuthorization", func() {
		var reached bool
		downstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		})

		ginkgo.BeforeEach(func() {
			reached = false
		})

		ginkgo.It("returns 401 without a session", func() {
			w := httptest.NewRecorder()
			rbac.Authenticate(rbac.Require(PermReadItem)(downstream)).
				ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items", nil))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(w.Body.String()).To(gomega.MatchJSON(`{"error":"Not authenticated"}`))
			gomega.Expect(reached).To(gomega.BeFalse())
		})

		ginkgo.It("returns 403 and never reaches the handler without the permission", func() {
			loggedIn := login("cashier1", "correct_password")
			w := httptest.NewRecorder()
			rbac.Authenticate(rbac.Require(PermCreateItem)(downstream)).
				ServeHTTP(w, withCookies(http.MethodPost, "/api/items", loggedIn))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(w.Body.String()).To(gomega.MatchJSON(`{"error":"Access denied"}`))
			gomega.Expect(reached).To(gomega.BeFalse())
		})

		ginkgo.It("lets a permitted identity through", func() {
			loggedIn := login("cashier1", "correct_password")
			w := httptest.NewRecorder()
			rbac.Authenticate(rbac.Require(PermReadItem)(downstream)).
				ServeHTTP(w, withCookies(http.MethodGet, "/api/items", loggedIn))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(reached).To(gomega.BeTrue())
		})

		ginkgo.It("only requires a session when no permission is named", func() {
			loggedIn := login("cashier1", "correct_password")
			w := httptest.NewRecorder()
			rbac.Authenticate(rbac.Require("")(downstream)).
				ServeHTTP(w, withCookies(http.MethodGet, "/api/transactions", loggedIn))

			gomega.Expect(reached).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("CurrentUser", func() {
		ginkgo.It("returns the session snapshot", func() {
			id := identity.New(2, "cashier1", 1, "Main Store", []string{"Cashier"}, []string{"Read_Item"})
			req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
			req = req.WithContext(internal.ContextWithIdentity(req.Context(), id))
			w := httptest.NewRecorder()

			handler.CurrentUser(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			var body map[string]interface{}
			gomega.Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(gomega.Succeed())
			gomega.Expect(body).To(gomega.HaveKeyWithValue("username", "cashier1"))
			gomega.Expect(body).To(gomega.HaveKeyWithValue("tenantName", "Main Store"))
			gomega.Expect(body).To(gomega.HaveKey("permissions"))
		})
	})
})
