package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cement-works/internal/database"
	"cement-works/internal/handlers"
	"cement-works/internal/ledger"
	"cement-works/internal/models"
)

func setupDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db
}

func stackRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/stacks", handlers.CreateStack)
	r.GET("/stacks/:id", handlers.GetStack)
	r.PUT("/stacks/:id/price", handlers.UpdatePrice)
	r.POST("/stacks/:id/orders", handlers.AddOrder)
	r.POST("/stacks/:id/orders/:orderId/payments", handlers.AddOrderPayment)
	r.POST("/stacks/:id/orders/:orderId/deliveries", handlers.AddOrderDelivery)
	r.GET("/stacks/:id/invoices/:buyer", handlers.GetBuyerInvoice)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorKind(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Kind
}

func TestStackLifecycle(t *testing.T) {
	setupDB(t)
	r := stackRouter()

	w := doJSON(t, r, http.MethodPost, "/stacks", gin.H{
		"stack_id": "STK-001", "material": "M-Sand", "total_qty": "100", "unit": "unit",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create stack: %d %s", w.Code, w.Body)
	}
	var stack models.Stack
	if err := json.Unmarshal(w.Body.Bytes(), &stack); err != nil {
		t.Fatalf("decode stack: %v", err)
	}

	// Duplicate business id is rejected.
	w = doJSON(t, r, http.MethodPost, "/stacks", gin.H{
		"stack_id": "STK-001", "material": "M-Sand", "total_qty": "50", "unit": "unit",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate stack: %d, want 409", w.Code)
	}

	base := fmt.Sprintf("/stacks/%d", stack.ID)

	// Orders before any price snapshot a zero price; set one first.
	w = doJSON(t, r, http.MethodPut, base+"/price", gin.H{"price": "350", "gst_rate": "18"})
	if w.Code != http.StatusOK {
		t.Fatalf("set price: %d %s", w.Code, w.Body)
	}

	w = doJSON(t, r, http.MethodPost, base+"/orders", gin.H{"buyer": "Sri Traders", "qty": "60"})
	if w.Code != http.StatusOK {
		t.Fatalf("add order: %d %s", w.Code, w.Body)
	}

	var resp struct {
		Stack   models.Stack        `json:"stack"`
		Summary ledger.StackSummary `json:"summary"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Stack.Orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(resp.Stack.Orders))
	}
	order := resp.Stack.Orders[0]
	if !order.PricePerUnit.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("snapshotted price = %s, want 350", order.PricePerUnit)
	}
	if !resp.Summary.Available.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("available = %s, want 40", resp.Summary.Available)
	}

	// A later price change must not touch the snapshot.
	w = doJSON(t, r, http.MethodPut, base+"/price", gin.H{"price": "400", "gst_rate": "18"})
	if w.Code != http.StatusOK {
		t.Fatalf("second price: %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, base, nil)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode after reprice: %v", err)
	}
	if !resp.Stack.Orders[0].PricePerUnit.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("snapshot changed to %s after reprice", resp.Stack.Orders[0].PricePerUnit)
	}

	orderBase := fmt.Sprintf("%s/orders/%d", base, order.ID)

	// 60 * 350 * 1.18 = 24780 due; overpayment is rejected whole.
	w = doJSON(t, r, http.MethodPost, orderBase+"/payments", gin.H{"amount": "24780.01"})
	if w.Code != http.StatusBadRequest || errorKind(t, w) != string(ledger.KindOverPayment) {
		t.Fatalf("overpayment: %d %s", w.Code, w.Body)
	}
	w = doJSON(t, r, http.MethodPost, orderBase+"/payments", gin.H{"amount": "10000"})
	if w.Code != http.StatusOK {
		t.Fatalf("payment: %d %s", w.Code, w.Body)
	}

	// Delivery above the ordered quantity is rejected.
	w = doJSON(t, r, http.MethodPost, orderBase+"/deliveries", gin.H{"qty": "61"})
	if w.Code != http.StatusBadRequest || errorKind(t, w) != string(ledger.KindOverDelivery) {
		t.Fatalf("over delivery: %d %s", w.Code, w.Body)
	}
	w = doJSON(t, r, http.MethodPost, orderBase+"/deliveries", gin.H{"qty": "25"})
	if w.Code != http.StatusOK {
		t.Fatalf("delivery: %d %s", w.Code, w.Body)
	}

	// Only 40 units remain unsold.
	w = doJSON(t, r, http.MethodPost, base+"/orders", gin.H{"buyer": "Other", "qty": "40.5"})
	if w.Code != http.StatusBadRequest || errorKind(t, w) != string(ledger.KindInsufficientStock) {
		t.Fatalf("oversell: %d %s", w.Code, w.Body)
	}

	w = doJSON(t, r, http.MethodGet, base+"/invoices/sri%20traders", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("invoice: %d %s", w.Code, w.Body)
	}
	var inv struct {
		Invoice ledger.BuyerInvoice `json:"invoice"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &inv); err != nil {
		t.Fatalf("decode invoice: %v", err)
	}
	if !inv.Invoice.BalanceDue.Equal(decimal.NewFromInt(14780)) {
		t.Fatalf("invoice balance = %s, want 14780", inv.Invoice.BalanceDue)
	}
}

func TestAddOrder_UnknownStack(t *testing.T) {
	setupDB(t)
	r := stackRouter()

	w := doJSON(t, r, http.MethodPost, "/stacks/999/orders", gin.H{"buyer": "X", "qty": "1"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown stack: %d, want 404", w.Code)
	}
}
