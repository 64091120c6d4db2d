package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"buynest/internal/handlers"
	"buynest/internal/models"
	"buynest/internal/repositories"
	"buynest/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// recordingMailer satisfies services.Mailer and captures outbound messages.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct {
	To      string
	Subject string
	HTML    string
}

func (m *recordingMailer) Send(to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, HTML: htmlBody})
	return nil
}

// setupApp builds a Fiber app over an in-memory SQLite database with all
// handlers and services wired, plus a recording mailer.
func setupApp(t *testing.T) (*fiber.App, *services.AuthService, *recordingMailer) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		// Unique-index violations must surface as gorm.ErrDuplicatedKey.
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Supplier{}, &models.User{}); err != nil {
		t.Fatalf("failed to auto-migrate database: %v", err)
	}

	productRepo := repositories.NewGORMProductRepository(db)
	supplierRepo := repositories.NewGORMSupplierRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	mail := &recordingMailer{}

	productService := services.NewProductService(productRepo)
	supplierService := services.NewSupplierService(supplierRepo, productRepo, nil) // nil MQ client
	notificationService := services.NewNotificationService(productRepo, supplierRepo, mail, nil)
	authService := services.NewAuthService(userRepo, "test_jwt_secret")

	// One admin, one customer.
	admin := &models.User{Username: "admin", Email: "admin@buynest.example", Password: "admin-secret", Role: models.RoleAdmin}
	if err := authService.RegisterUser(admin); err != nil {
		t.Fatalf("failed to seed admin user: %v", err)
	}
	customer := &models.User{Username: "customer", Email: "customer@buynest.example", Password: "customer-secret"}
	if err := authService.RegisterUser(customer); err != nil {
		t.Fatalf("failed to seed customer user: %v", err)
	}

	productHandler := handlers.NewProductHandler(productService, notificationService)
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	authHandler := handlers.NewAuthHandler(authService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1, authService)
	supplierHandler.RegisterRoutes(apiV1, authService)

	return app, authService, mail
}

// login returns a bearer token for the given credentials.
func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Token)
	return body.Token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) *http.Response {
	t.Helper()
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		t.Fatalf("failed to decode response %s: %v", raw, err)
	}
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestProductRegistrationFlow(t *testing.T) {
	app, _, _ := setupApp(t)
	adminToken := login(t, app, "admin", "admin-secret")
	customerToken := login(t, app, "customer", "customer-secret")

	product := map[string]interface{}{
		"productId":   "42",
		"name":        "Laptop",
		"price":       1200.0,
		"stock":       3,
		"isAvailable": true,
	}

	// Customers cannot register products.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", customerToken, product)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Anonymous callers cannot either.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", "", product)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Admin registration mints the canonical identifier.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", adminToken, product)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Product models.Product `json:"product"`
	}
	decodeBody(t, resp, &created)
	resp.Body.Close()
	assert.Equal(t, "BYNPD00042", created.Product.ProductID)

	// Re-using the fragment is a duplicate.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", adminToken, product)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Non-digit fragments are rejected.
	bad := map[string]interface{}{"productId": "42x", "name": "Bad"}
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", adminToken, bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// The product is publicly fetchable by its canonical identifier.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/BYNPD00042", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Product
	decodeBody(t, resp, &fetched)
	resp.Body.Close()
	assert.Equal(t, "Laptop", fetched.Name)
	assert.Equal(t, 3, fetched.Stock)
}

func TestProductVisibility(t *testing.T) {
	app, _, _ := setupApp(t)
	adminToken := login(t, app, "admin", "admin-secret")

	for _, p := range []map[string]interface{}{
		{"productId": "1", "name": "Visible", "isAvailable": true},
		{"productId": "2", "name": "Hidden", "isAvailable": false},
	} {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/products", adminToken, p)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// Anonymous list sees only available products.
	resp := doJSON(t, app, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var public []models.Product
	decodeBody(t, resp, &public)
	resp.Body.Close()
	assert.Len(t, public, 1)
	assert.Equal(t, "Visible", public[0].Name)

	// Admin list sees everything.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var all []models.Product
	decodeBody(t, resp, &all)
	resp.Body.Close()
	assert.Len(t, all, 2)
}

func TestSupplierRegistrationReconcilesStock(t *testing.T) {
	app, _, _ := setupApp(t)
	adminToken := login(t, app, "admin", "admin-secret")

	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", adminToken, map[string]interface{}{
		"productId": "42", "name": "Laptop", "stock": 3, "isAvailable": true,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	supplier := map[string]interface{}{
		"supplierId": "7",
		"productId":  "BYNPD00042",
		"email":      "contact@acme.example",
		"Name":       "Acme Supplies",
		"stock":      15,
		"cost":       3.5,
		"contactNo":  "1234567890",
	}
	resp = doJSON(t, app, http.MethodPost, "/api/v1/suppliers", adminToken, supplier)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Supplier       models.Supplier `json:"supplier"`
		UpdatedProduct models.Product  `json:"updatedProduct"`
	}
	decodeBody(t, resp, &created)
	resp.Body.Close()
	assert.Equal(t, "BYNSP00007", created.Supplier.SupplierID)
	assert.Equal(t, 18, created.UpdatedProduct.Stock, "product stock is 3 + 15 after reconciliation")

	// A second supplier with the same fragment loses.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/suppliers", adminToken, supplier)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// A supplier against an unknown product writes nothing.
	orphan := map[string]interface{}{
		"supplierId": "8",
		"productId":  "BYNPD09999",
		"email":      "contact@acme.example",
		"Name":       "Acme Supplies",
		"stock":      5,
	}
	resp = doJSON(t, app, http.MethodPost, "/api/v1/suppliers", adminToken, orphan)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Malformed phone numbers are rejected before any write.
	badPhone := map[string]interface{}{
		"supplierId": "9",
		"productId":  "BYNPD00042",
		"email":      "contact@acme.example",
		"Name":       "Acme Supplies",
		"stock":      5,
		"contactNo":  "12345",
	}
	resp = doJSON(t, app, http.MethodPost, "/api/v1/suppliers", adminToken, badPhone)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// The product's stock reflects only the successful registration.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/BYNPD00042", "", nil)
	var product models.Product
	decodeBody(t, resp, &product)
	resp.Body.Close()
	assert.Equal(t, 18, product.Stock)
}

func TestNotifySupplierFlow(t *testing.T) {
	app, _, mail := setupApp(t)
	adminToken := login(t, app, "admin", "admin-secret")

	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", adminToken, map[string]interface{}{
		"productId": "42", "name": "Laptop", "stock": 2, "isAvailable": true,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// No supplier linked yet: fails closed, nothing sent.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products/notify", adminToken, map[string]string{
		"productId": "BYNPD00042",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
	assert.Empty(t, mail.sent)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/suppliers", adminToken, map[string]interface{}{
		"supplierId": "7",
		"productId":  "BYNPD00042",
		"email":      "contact@acme.example",
		"Name":       "Acme Supplies",
		"stock":      1,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// With the linkage in place exactly one email goes out.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products/notify", adminToken, map[string]string{
		"productId": "BYNPD00042",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.Len(t, mail.sent, 1)
	msg := mail.sent[0]
	assert.Equal(t, "contact@acme.example", msg.To)
	assert.Equal(t, "Resupply Request: Laptop", msg.Subject)
	assert.Contains(t, msg.HTML, "BYNPD00042")
	assert.Contains(t, msg.HTML, "Laptop")
	assert.Contains(t, msg.HTML, "Current Stock:</b> 3") // 2 + 1 after the delivery

	// Unknown product reports not found.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products/notify", adminToken, map[string]string{
		"productId": "BYNPD09999",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// The trigger is admin-gated.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products/notify", "", map[string]string{
		"productId": "BYNPD00042",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestSupplierUpdateDoesNotReconcile(t *testing.T) {
	app, _, _ := setupApp(t)
	adminToken := login(t, app, "admin", "admin-secret")

	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", adminToken, map[string]interface{}{
		"productId": "42", "name": "Laptop", "stock": 0, "isAvailable": true,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/suppliers", adminToken, map[string]interface{}{
		"supplierId": "7",
		"productId":  "BYNPD00042",
		"email":      "contact@acme.example",
		"Name":       "Acme Supplies",
		"stock":      10,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Editing the linkage's stock leaves the product counter alone.
	resp = doJSON(t, app, http.MethodPut, "/api/v1/suppliers/BYNSP00007", adminToken, map[string]interface{}{
		"stock": 500,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/BYNPD00042", "", nil)
	var product models.Product
	decodeBody(t, resp, &product)
	resp.Body.Close()
	assert.Equal(t, 10, product.Stock)

	// Deleting the supplier does not claw the stock back either.
	resp = doJSON(t, app, http.MethodDelete, "/api/v1/suppliers/BYNSP00007", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/BYNPD00042", "", nil)
	decodeBody(t, resp, &product)
	resp.Body.Close()
	assert.Equal(t, 10, product.Stock)
}

func TestProductSearchAndCategory(t *testing.T) {
	app, _, _ := setupApp(t)
	adminToken := login(t, app, "admin", "admin-secret")

	for _, p := range []map[string]interface{}{
		{"productId": "1", "name": "Gaming Laptop", "categories": []string{"Electronics"}, "isAvailable": true},
		{"productId": "2", "name": "Office Chair", "categories": []string{"Furniture"}, "isAvailable": true},
	} {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/products", adminToken, p)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodGet, "/api/v1/products/search?query=laptop", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var found []models.Product
	decodeBody(t, resp, &found)
	resp.Body.Close()
	assert.Len(t, found, 1)
	assert.Equal(t, "Gaming Laptop", found[0].Name)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/products/category", "", map[string]string{
		"category": "furniture",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var inCategory []models.Product
	decodeBody(t, resp, &inCategory)
	resp.Body.Close()
	assert.Len(t, inCategory, 1)
	assert.Equal(t, "Office Chair", inCategory[0].Name)
}
