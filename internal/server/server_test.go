package server_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kubev2v/task-executor/internal/config"
	"github.com/kubev2v/task-executor/internal/server"
)

var _ = Describe("Server", func() {
	var cfg *config.Configuration

	register := func(router *gin.RouterGroup) {
		router.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"pong": true})
		})
	}

	do := func(h http.Handler, path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() {
		cfg = config.NewConfigurationWithOptionsAndDefaults()
	})

	It("should serve the api, health and metrics", func() {
		reg := prometheus.NewRegistry()
		reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"}))

		srv, err := server.NewServer(cfg, reg, register)
		Expect(err).NotTo(HaveOccurred())

		Expect(do(srv.Handler(), "/api/v1/ping", "").Code).To(Equal(http.StatusOK))
		Expect(do(srv.Handler(), "/health", "").Code).To(Equal(http.StatusOK))

		metrics := do(srv.Handler(), "/metrics", "")
		Expect(metrics.Code).To(Equal(http.StatusOK))
		Expect(metrics.Body.String()).To(ContainSubstring("test_total 0"))
	})

	It("should answer unknown routes with a JSON 404", func() {
		srv, err := server.NewServer(cfg, nil, register)
		Expect(err).NotTo(HaveOccurred())

		rec := do(srv.Handler(), "/api/v1/nope", "")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(rec.Body.String()).To(MatchJSON(`{"error":"not found"}`))
	})

	Context("with authentication", func() {
		var auth *server.Authenticator

		BeforeEach(func() {
			path := filepath.Join(GinkgoT().TempDir(), "secret")
			Expect(os.WriteFile(path, []byte("s3cr3t\n"), 0o600)).To(Succeed())

			cfg.Authentication.Enabled = true
			cfg.Authentication.SecretFilePath = path

			var err error
			auth, err = server.NewAuthenticator("s3cr3t")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject requests without a token", func() {
			srv, err := server.NewServer(cfg, nil, register)
			Expect(err).NotTo(HaveOccurred())

			Expect(do(srv.Handler(), "/api/v1/ping", "").Code).To(Equal(http.StatusUnauthorized))
			Expect(do(srv.Handler(), "/api/v1/ping", "garbage").Code).To(Equal(http.StatusUnauthorized))
		})

		It("should accept a valid token", func() {
			srv, err := server.NewServer(cfg, nil, register)
			Expect(err).NotTo(HaveOccurred())

			token, err := auth.GenerateToken("admin", time.Minute)
			Expect(err).NotTo(HaveOccurred())

			Expect(do(srv.Handler(), "/api/v1/ping", token).Code).To(Equal(http.StatusOK))
		})

		It("should reject a token signed with another secret", func() {
			srv, err := server.NewServer(cfg, nil, register)
			Expect(err).NotTo(HaveOccurred())

			other, err := server.NewAuthenticator("other")
			Expect(err).NotTo(HaveOccurred())
			token, err := other.GenerateToken("admin", time.Minute)
			Expect(err).NotTo(HaveOccurred())

			Expect(do(srv.Handler(), "/api/v1/ping", token).Code).To(Equal(http.StatusUnauthorized))
		})

		It("should leave health unauthenticated", func() {
			srv, err := server.NewServer(cfg, nil, register)
			Expect(err).NotTo(HaveOccurred())

			Expect(do(srv.Handler(), "/health", "").Code).To(Equal(http.StatusOK))
		})

		It("should fail when the secret file is missing", func() {
			cfg.Authentication.SecretFilePath = "/does/not/exist"

			_, err := server.NewServer(cfg, nil, register)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("Authenticator", func() {
		It("should return the subject of a valid token", func() {
			auth, err := server.NewAuthenticator("k")
			Expect(err).NotTo(HaveOccurred())

			token, err := auth.GenerateToken("ops", 0)
			Expect(err).NotTo(HaveOccurred())

			Expect(auth.Validate(token)).To(Equal("ops"))
		})

		It("should reject an expired token", func() {
			auth, err := server.NewAuthenticator("k")
			Expect(err).NotTo(HaveOccurred())

			token, err := auth.GenerateToken("ops", time.Nanosecond)
			Expect(err).NotTo(HaveOccurred())
			time.Sleep(2 * time.Second)

			_, err = auth.Validate(token)
			Expect(err).To(HaveOccurred())
		})

		It("should refuse an empty secret", func() {
			_, err := server.NewAuthenticator("")
			Expect(err).To(HaveOccurred())
		})
	})
})
