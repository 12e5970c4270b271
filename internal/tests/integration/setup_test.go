package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NDQnhat/realestatepro-api/internal/config"
	"github.com/NDQnhat/realestatepro-api/internal/database"
	"github.com/NDQnhat/realestatepro-api/internal/middleware"
	"github.com/NDQnhat/realestatepro-api/internal/revocation"
	"github.com/NDQnhat/realestatepro-api/internal/routes"
	"github.com/NDQnhat/realestatepro-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

var ctx = context.Background()

// setupRouter installs a private in-memory SQLite database as database.DB
// and returns the full API router with rate limits lifted.
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.JWTSecret = "test_secret_key_12345"
	cfg.BcryptCost = 4
	config.AppConfig = cfg

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(&config.Config{
		DBDriver:    "sqlite",
		DatabaseURL: fmt.Sprintf("file:integration_%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	prevDB, prevStore := database.DB, revocation.Default
	prevAuth, prevMsg, prevGeneral := middleware.AuthLimiter, middleware.MessageLimiter, middleware.GeneralLimiter
	database.DB = db
	revocation.Default = revocation.NewMemoryStore(0)
	middleware.AuthLimiter = middleware.NewIPRateLimiter(rate.Inf, 1)
	middleware.MessageLimiter = middleware.NewIPRateLimiter(rate.Inf, 1)
	middleware.GeneralLimiter = middleware.NewIPRateLimiter(rate.Inf, 1)
	t.Cleanup(func() {
		sqlDB.Close()
		database.DB, revocation.Default = prevDB, prevStore
		middleware.AuthLimiter, middleware.MessageLimiter, middleware.GeneralLimiter = prevAuth, prevMsg, prevGeneral
	})

	return routes.NewRouter(), db
}

type response struct {
	*httptest.ResponseRecorder
	t *testing.T
}

func (r response) JSON() map[string]interface{} {
	r.t.Helper()
	var out map[string]interface{}
	require.NoError(r.t, json.Unmarshal(r.Body.Bytes(), &out), r.Body.String())
	return out
}

func performRequest(t *testing.T, r http.Handler, method, path string, body interface{}, token string) response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return response{ResponseRecorder: w, t: t}
}

// registerAndLogin creates an account through the API and returns its id and
// session token.
func registerAndLogin(t *testing.T, r http.Handler, name, email string) (string, string) {
	t.Helper()
	w := performRequest(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name": name, "email": email, "password": "password123", "phone": "0900000000",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := w.JSON()["id"].(string)
	return id, login(t, r, email)
}

func login(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	w := performRequest(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": email, "password": "password123"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return w.JSON()["token"].(string)
}

// adminToken registers an account, promotes it and logs in again so the new
// role is in the token.
func adminToken(t *testing.T, r http.Handler, db *gorm.DB) string {
	t.Helper()
	registerAndLogin(t, r, "Admin", "admin@x.com")
	require.NoError(t, services.PromoteAdmin(ctx, db, "admin@x.com"))
	return login(t, r, "admin@x.com")
}

func createListing(t *testing.T, r http.Handler, token string, body gin.H) string {
	t.Helper()
	payload := gin.H{"title": "Căn hộ", "location": "Hà Nội", "price": 1000, "area": 50, "model": "flat", "transactionType": "sell"}
	for k, v := range body {
		payload[k] = v
	}
	w := performRequest(t, r, http.MethodPost, "/api/properties", payload, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return w.JSON()["id"].(string)
}

func approve(t *testing.T, r http.Handler, admin, id string) {
	t.Helper()
	w := performRequest(t, r, http.MethodPut, "/api/properties/"+id, gin.H{"waitingStatus": "reviewed"}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func total(t *testing.T, w response) float64 {
	t.Helper()
	return w.JSON()["pagination"].(map[string]interface{})["total"].(float64)
}
