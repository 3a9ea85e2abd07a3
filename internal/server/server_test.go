// internal/server/server_test.go
package server

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"opera-backend/internal/common/auth"
	"opera-backend/internal/common/config"
	"opera-backend/internal/common/logger"
	"opera-backend/internal/common/observability"
	"opera-backend/internal/store"
)

type testServer struct {
	server *Server
	router *gin.Engine
	mock   sqlmock.Sqlmock
}

func createTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.App.Name = "opera-backend"
	cfg.App.Version = "test"
	cfg.Server.AllowedOrigins = []string{"http://localhost:5173"}
	cfg.Companion.BaseURL = "http://127.0.0.1:0"
	cfg.Receipt.AssetsDir = t.TempDir()
	cfg.Receipt.StaticDir = t.TempDir()
	cfg.Receipt.UploadsDir = t.TempDir()
	cfg.Receipt.AssetTimeout = 300
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTLHours = 1

	log := logger.NewNoOpLogger()
	stores := Stores{
		Orders:     store.NewOrderStore(db, log),
		Products:   store.NewProductStore(db, log),
		Categories: store.NewCategoryStore(db),
		Cakes:      store.NewCakeStore(db),
		Users:      store.NewUserStore(db),
	}

	srv := New(cfg, log, stores, observability.New("opera-backend-test"))
	return &testServer{server: srv, router: srv.Router(), mock: mock}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func newRecorderFor(ts *testServer, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) token(t *testing.T, role string) string {
	t.Helper()
	token, _, err := ts.server.tokens.Issue(1, "tester", role)
	require.NoError(t, err)
	return token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleTest(t *testing.T) {
	ts := createTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/test", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Backend funcionando correctamente", body["message"])
}

func TestLogin(t *testing.T) {
	ts := createTestServer(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)

	userRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "created_at"}).
			AddRow(1, "admin", "admin@opera.cl", string(hash), "admin", time.Now())
	}

	t.Run("valid credentials issue a token", func(t *testing.T) {
		ts.mock.ExpectQuery("FROM users").WillReturnRows(userRows())

		rec := ts.do(t, http.MethodPost, "/api/auth/login",
			gin.H{"login": "admin", "password": "secreto123"}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.NotEmpty(t, body["token"])
		assert.Contains(t, rec.Header().Get("Set-Cookie"), "token=")
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		ts.mock.ExpectQuery("FROM users").WillReturnRows(userRows())

		rec := ts.do(t, http.MethodPost, "/api/auth/login",
			gin.H{"login": "admin", "password": "otra"}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "UNAUTHORIZED", body["error"])
	})

	t.Run("unknown user gets the same answer as a bad password", func(t *testing.T) {
		ts.mock.ExpectQuery("FROM users").WillReturnError(sql.ErrNoRows)

		rec := ts.do(t, http.MethodPost, "/api/auth/login",
			gin.H{"login": "nadie", "password": "x"}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestVerify(t *testing.T) {
	ts := createTestServer(t)

	t.Run("bearer token accepted", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/auth/verify", nil,
			map[string]string{"Authorization": "Bearer " + ts.token(t, "admin")})
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, true, body["valid"])
	})

	t.Run("missing token rejected", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/auth/verify", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		expired, _, err := auth.NewTokenManager("test-secret", -time.Hour).Issue(1, "tester", "admin")
		require.NoError(t, err)

		rec := ts.do(t, http.MethodPost, "/api/auth/verify", nil,
			map[string]string{"Authorization": "Bearer " + expired})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLogout(t *testing.T) {
	ts := createTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/auth/logout", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])

	// The session cookie is expired so browsers drop it.
	cookie := rec.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "token=")
	assert.Contains(t, cookie, "Max-Age=0")
}

func TestAdminGuard(t *testing.T) {
	ts := createTestServer(t)

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/products", gin.H{"name": "Torta", "price": 1000}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("staff is forbidden", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/products", gin.H{"name": "Torta", "price": 1000},
			map[string]string{"Authorization": "Bearer " + ts.token(t, "staff")})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes through", func(t *testing.T) {
		ts.mock.ExpectExec("INSERT INTO products").
			WillReturnResult(sqlmock.NewResult(1, 1))

		rec := ts.do(t, http.MethodPost, "/api/products", gin.H{"name": "Torta", "price": 1000},
			map[string]string{"Authorization": "Bearer " + ts.token(t, "admin")})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestCreateOrderValidation(t *testing.T) {
	ts := createTestServer(t)

	t.Run("rejects missing items", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/orders", gin.H{"customer_name": "Ana"}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "INVALID_REQUEST", body["error"])
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/orders", gin.H{
			"customer_name": "Ana",
			"items":         []gin.H{{"product_id": 1, "quantity": 0, "unit_price": 1000}},
		}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("accepts a valid order", func(t *testing.T) {
		ts.mock.ExpectBegin()
		ts.mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(10, 1))
		ts.mock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(1, 1))
		ts.mock.ExpectCommit()

		rec := ts.do(t, http.MethodPost, "/api/orders", gin.H{
			"customer_name": "Ana",
			"items":         []gin.H{{"product_id": 1, "quantity": 2, "unit_price": 1500}},
		}, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestUpdateOrderStatusValidation(t *testing.T) {
	ts := createTestServer(t)

	rec := ts.do(t, http.MethodPut, "/api/orders/3/status", gin.H{"status": "volando"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "INVALID_REQUEST", body["error"])
}

func TestOrderStatsRoute(t *testing.T) {
	ts := createTestServer(t)

	ts.mock.ExpectQuery("FROM orders").WillReturnRows(
		sqlmock.NewRows([]string{"total", "pending", "confirmed", "delivered", "total_revenue", "today_orders"}).
			AddRow(12, 3, 2, 7, 145000.0, 1))

	rec := ts.do(t, http.MethodGet, "/api/orders/stats/summary", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
}

func TestCategoryRoutes(t *testing.T) {
	ts := createTestServer(t)

	t.Run("list is public under products", func(t *testing.T) {
		ts.mock.ExpectQuery("FROM categories").WillReturnRows(
			sqlmock.NewRows([]string{"id", "name", "description", "product_count", "created_at"}).
				AddRow(1, "Tortas", "Tortas de vitrina", 4, time.Now()))

		rec := ts.do(t, http.MethodGet, "/api/products/categories/all", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
	})

	t.Run("create requires admin", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/products/categories", gin.H{"name": "Postres"}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestCORS(t *testing.T) {
	ts := createTestServer(t)

	t.Run("allowed origin echoed with credentials", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/test", nil,
			map[string]string{"Origin": "http://localhost:5173"})
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin gets no CORS headers", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/test", nil,
			map[string]string{"Origin": "http://evil.example"})
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		rec := ts.do(t, http.MethodOptions, "/api/orders/pdf", nil,
			map[string]string{"Origin": "http://localhost:5173"})
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestRequestIDPropagation(t *testing.T) {
	ts := createTestServer(t)

	t.Run("generated when absent", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/test", nil, nil)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("echoed when present", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/test", nil,
			map[string]string{"X-Request-ID": "fixed-id"})
		assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
	})
}
