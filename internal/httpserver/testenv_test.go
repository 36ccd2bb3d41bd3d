package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shop-backend/internal/config"
	"shop-backend/internal/events"
	"shop-backend/internal/models"
	"shop-backend/internal/repo"
	"shop-backend/internal/service"
	"shop-backend/internal/transport"
)

var (
	testJWTSecret     = []byte("test-jwt-secret")
	testRefreshSecret = []byte("test-refresh-secret")
)

type testEnv struct {
	T    *testing.T
	E    *echo.Echo
	Repo *repo.GormRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	r := &repo.GormRepo{DB: db}
	producer := events.NewProducer(nil)

	deps := Deps{
		AuthHandler: &AuthHandler{
			Svc:      &service.AuthService{Repo: r, JWTSecret: testJWTSecret, RefreshSecret: testRefreshSecret},
			Producer: producer,
		},
		ProductHandler: &ProductHandler{
			Svc:      &service.CatalogService{Repo: r},
			Producer: producer,
		},
		CartHandler: &CartHandler{
			Svc:      &service.CartService{Repo: r},
			Producer: producer,
		},
		OrderHandler: &OrderHandler{
			Svc:      &service.OrderService{Repo: r},
			Producer: producer,
		},
		JWTSecret: testJWTSecret,
	}

	e := echo.New()
	Register(e, &deps)

	return &testEnv{T: t, E: e, Repo: r}
}

// do runs a request through the full router so middleware is exercised too.
func (env *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) signup(email, password string) uint {
	env.T.Helper()

	rec := env.do(http.MethodPost, "/signup", map[string]string{"email": email, "password": password}, "")
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())

	var resp transport.SignupResponse
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.UserID
}

func (env *testEnv) signin(email, password string) transport.TokenPairResponse {
	env.T.Helper()

	rec := env.do(http.MethodPost, "/signin", map[string]string{"email": email, "password": password}, "")
	require.Equal(env.T, http.StatusOK, rec.Code, rec.Body.String())

	var resp transport.TokenPairResponse
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (env *testEnv) loginUser(email string) transport.TokenPairResponse {
	env.T.Helper()
	env.signup(email, "password")
	return env.signin(email, "password")
}

func (env *testEnv) loginAdmin(email string) transport.TokenPairResponse {
	env.T.Helper()
	id := env.signup(email, "password")
	require.NoError(env.T, env.Repo.DB.Model(&models.User{}).Where("id = ?", id).Update("role", "admin").Error)
	return env.signin(email, "password")
}

func (env *testEnv) createProduct(name string, price float64, stock uint) *models.Product {
	env.T.Helper()
	p := models.Product{Name: name, Price: price, Stock: stock}
	require.NoError(env.T, env.Repo.DB.Create(&p).Error)
	return &p
}

// missing bearer tokens yield 400 from the jwt middleware, malformed ones 401
func requireAuthFailure(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.True(t,
		rec.Code == http.StatusBadRequest || rec.Code == http.StatusUnauthorized,
		"expected auth failure, got %d: %s", rec.Code, rec.Body.String())
}
