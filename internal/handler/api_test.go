package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"jabatata-pos/internal/middleware"
	"jabatata-pos/internal/model"
	"jabatata-pos/internal/repository"
	"jabatata-pos/internal/service"
	"jabatata-pos/internal/store"
	"jabatata-pos/internal/ws"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPasscode = "1234"

var dbSeq atomic.Int64

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	// Unique name per call so two apps in one test never share a database.
	dsn := fmt.Sprintf("file:%s-%d?mode=memory&cache=shared", t.Name(), dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&repository.Snapshot{}))

	zlog := zaptest.NewLogger(t)

	hub := ws.NewHub(zlog)
	go hub.Run()

	appStore := store.New(repository.NewSnapshotRepo(db), zlog)
	appStore.Load()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPasscode), bcrypt.MinCost)
	require.NoError(t, err)

	saleHandler := NewSaleHandler(service.NewSaleService(appStore, hub, zlog))
	productHandler := NewProductHandler(service.NewMenuService(appStore, hub, zlog))
	dashHandler := NewDashboardHandler(service.NewDashboardService(appStore, hub, zlog))
	backupHandler := NewBackupHandler(service.NewBackupService(appStore, hub, zlog))
	authHandler := NewAuthHandler(service.NewAuthService(hash, zlog))

	app := fiber.New()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "online"})
	})

	api := app.Group("/api/v1")
	api.Post("/auth/unlock", authHandler.Unlock)
	api.Get("/sales", saleHandler.GetSales)
	api.Post("/sales", saleHandler.CreateSale)
	api.Put("/sales/:id", saleHandler.UpdateSale)
	api.Get("/products", productHandler.GetProducts)
	api.Post("/products", middleware.RequireAdmin(), productHandler.CreateProduct)
	api.Delete("/products/:id", middleware.RequireAdmin(), productHandler.DeleteProduct)
	api.Get("/dashboard/stats", dashHandler.GetStats)
	api.Get("/dashboard/ranking", dashHandler.GetRanking)
	api.Get("/goal", dashHandler.GetGoal)
	api.Put("/goal", dashHandler.SetGoal)
	api.Get("/backup/export", backupHandler.Export)
	api.Post("/backup/import", backupHandler.Import)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func unlock(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := doJSON(t, app, "POST", "/api/v1/auth/unlock", fiber.Map{"passcode": testPasscode}, "")
	require.Equal(t, 200, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

func TestHealthEndpoint(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "GET", "/health", nil, "")
	assert.Equal(t, 200, resp.StatusCode)
}

func TestUnlockRejectsWrongPasscode(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/auth/unlock", fiber.Map{"passcode": "0000"}, "")
	assert.Equal(t, 401, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/v1/auth/unlock", fiber.Map{"passcode": ""}, "")
	assert.Equal(t, 400, resp.StatusCode)
}

func TestCreateAndListSales(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/sales", fiber.Map{
		"customerName":    "Maria",
		"date":            "2026-08-31",
		"consumptionType": "ON_SITE",
		"paymentMethod":   "PIX",
		"items": []fiber.Map{
			{"productId": "1", "quantity": 2, "unitPrice": 17.00},
		},
	}, "")
	require.Equal(t, 201, resp.StatusCode)

	var created struct {
		Data model.Sale `json:"data"`
	}
	decodeBody(t, resp, &created)
	assert.Equal(t, "Maria", created.Data.CustomerName)
	assert.Equal(t, 34.00, created.Data.TotalValue)

	resp = doJSON(t, app, "GET", "/api/v1/sales", nil, "")
	require.Equal(t, 200, resp.StatusCode)

	var sales []model.Sale
	decodeBody(t, resp, &sales)
	require.Len(t, sales, 1)
	assert.Equal(t, created.Data.ID, sales[0].ID)
}

func TestCreateSaleEmptyCartReturnsNoContent(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/sales", fiber.Map{
		"date":            "2026-08-31",
		"consumptionType": "ON_SITE",
		"paymentMethod":   "CASH",
		"items":           []fiber.Map{},
	}, "")
	assert.Equal(t, 204, resp.StatusCode)
}

func TestCreateSaleRejectsBadDraft(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/sales", fiber.Map{
		"date":            "31/08/2026",
		"consumptionType": "ON_SITE",
		"paymentMethod":   "CASH",
		"items": []fiber.Map{
			{"productId": "1", "quantity": 1, "unitPrice": 17.00},
		},
	}, "")
	assert.Equal(t, 400, resp.StatusCode)
}

func TestUpdateSaleKeepsHistorySize(t *testing.T) {
	app := setupApp(t)

	draft := fiber.Map{
		"date":            "2026-08-31",
		"consumptionType": "ON_SITE",
		"paymentMethod":   "CASH",
		"items": []fiber.Map{
			{"productId": "1", "quantity": 1, "unitPrice": 17.00},
		},
	}
	resp := doJSON(t, app, "POST", "/api/v1/sales", draft, "")
	require.Equal(t, 201, resp.StatusCode)

	var created struct {
		Data model.Sale `json:"data"`
	}
	decodeBody(t, resp, &created)

	draft["items"] = []fiber.Map{{"productId": "2", "quantity": 2, "unitPrice": 15.00}}
	resp = doJSON(t, app, "PUT", "/api/v1/sales/"+created.Data.ID, draft, "")
	require.Equal(t, 200, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/v1/sales", nil, "")
	var sales []model.Sale
	decodeBody(t, resp, &sales)
	require.Len(t, sales, 1)
	assert.Equal(t, 30.00, sales[0].TotalValue)
}

func TestProductMutationsNeedToken(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/products", fiber.Map{"name": "Coxinha", "price": 8.00}, "")
	assert.Equal(t, 401, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/v1/products", fiber.Map{"name": "Coxinha", "price": 8.00}, "not-a-token")
	assert.Equal(t, 401, resp.StatusCode)

	resp = doJSON(t, app, "DELETE", "/api/v1/products/1", nil, "")
	assert.Equal(t, 401, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/v1/products", nil, "")
	require.Equal(t, 200, resp.StatusCode)
	var catalog []model.Product
	decodeBody(t, resp, &catalog)
	assert.Len(t, catalog, len(model.DefaultProducts))
}

func TestProductLifecycleWithToken(t *testing.T) {
	app := setupApp(t)
	token := unlock(t, app)

	resp := doJSON(t, app, "POST", "/api/v1/products", fiber.Map{"name": "coxinha", "price": 8.00}, token)
	require.Equal(t, 201, resp.StatusCode)

	var created struct {
		Data model.Product `json:"data"`
	}
	decodeBody(t, resp, &created)
	assert.Equal(t, "COXINHA", created.Data.Name)

	resp = doJSON(t, app, "GET", "/api/v1/products", nil, "")
	var catalog []model.Product
	decodeBody(t, resp, &catalog)
	assert.Len(t, catalog, len(model.DefaultProducts)+1)

	resp = doJSON(t, app, "DELETE", "/api/v1/products/"+created.Data.ID, nil, token)
	require.Equal(t, 200, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/v1/products", nil, "")
	catalog = nil
	decodeBody(t, resp, &catalog)
	assert.Len(t, catalog, len(model.DefaultProducts))
}

func TestGoalRoundTrip(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "GET", "/api/v1/goal", nil, "")
	require.Equal(t, 200, resp.StatusCode)
	var goal struct {
		Goal float64 `json:"goal"`
	}
	decodeBody(t, resp, &goal)
	assert.Equal(t, model.DefaultMonthlyGoal, goal.Goal)

	resp = doJSON(t, app, "PUT", "/api/v1/goal", fiber.Map{"goal": 45000.00}, "")
	require.Equal(t, 200, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/v1/goal", nil, "")
	decodeBody(t, resp, &goal)
	assert.Equal(t, 45000.00, goal.Goal)
}

func TestDashboardStats(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "GET", "/api/v1/dashboard/stats", nil, "")
	require.Equal(t, 200, resp.StatusCode)

	var stats service.DashboardStats
	decodeBody(t, resp, &stats)
	assert.Equal(t, model.DefaultMonthlyGoal, stats.Goal)
	assert.Equal(t, 0, stats.TodayCount)
}

func TestBackupExportImport(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/sales", fiber.Map{
		"date":            "2026-08-31",
		"consumptionType": "TAKEAWAY",
		"paymentMethod":   "DEBIT",
		"items": []fiber.Map{
			{"productId": "2", "quantity": 1, "unitPrice": 15.00},
		},
	}, "")
	require.Equal(t, 201, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "GET", "/api/v1/backup/export", nil, "")
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "jabatata_backup_")

	var doc model.BackupDocument
	decodeBody(t, resp, &doc)
	require.NotNil(t, doc.Sales)
	require.Len(t, *doc.Sales, 1)

	restored := setupApp(t)
	resp = doJSON(t, restored, "POST", "/api/v1/backup/import", doc, "")
	require.Equal(t, 200, resp.StatusCode)

	resp = doJSON(t, restored, "GET", "/api/v1/sales", nil, "")
	var sales []model.Sale
	decodeBody(t, resp, &sales)
	require.Len(t, sales, 1)
	assert.Equal(t, 15.00, sales[0].TotalValue)
}

func TestBackupImportRejectsMalformedDocument(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/backup/import", fiber.Map{
		"sales": []fiber.Map{
			{"id": "", "items": []fiber.Map{}},
		},
	}, "")
	assert.Equal(t, 400, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/v1/sales", nil, "")
	var sales []model.Sale
	decodeBody(t, resp, &sales)
	assert.Empty(t, sales)
}
