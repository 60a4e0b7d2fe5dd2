package checkout

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"bookhub/internal/book"
	"bookhub/pkg/models"
)

func newCheckoutRouter(t *testing.T) (*gin.Engine, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)

	r := gin.New()
	r.POST("/api/checkout-new", func(c *gin.Context) { HandlePlaceOrder(c, db, nil) })
	r.POST("/api/checkout-quote", func(c *gin.Context) { HandleQuote(c, db) })
	return r, db
}

func seedBook(t *testing.T, db *sql.DB, format string, price float64, stock int) models.Book {
	t.Helper()
	b, err := book.Create(db, models.Book{
		Title: "Things Fall Apart", Price: price, Status: models.BookPublished,
		Format: format, StockQuantity: stock,
	})
	require.NoError(t, err)
	return b
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPlaceOrderEbookOnlyCard(t *testing.T) {
	r, db := newCheckoutRouter(t)
	b := seedBook(t, db, models.FormatEbook, 2000, 0)

	form := validForm()
	form.ShippingMethodID = "" // not needed for the two-step flow
	require.NoError(t, SaveSession(db, Session{Token: "tok-e", Form: form, CurrentStep: 2}))

	w := postJSON(t, r, "/api/checkout-new", gin.H{
		"cart":          []gin.H{{"book_id": b.ID, "quantity": 1}},
		"form":          form,
		"session_token": "tok-e",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool         `json:"success"`
		Order   models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, models.OrderConfirmed, resp.Order.Status)
	require.Equal(t, 2000.0, resp.Order.Subtotal)
	require.Equal(t, 0.0, resp.Order.Shipping)
	require.Equal(t, 150.0, resp.Order.Tax)
	require.Equal(t, 2150.0, resp.Order.Total)

	// confirmed success clears the saved session
	_, found, err := LoadSession(db, "tok-e")
	require.NoError(t, err)
	require.False(t, found)
}

func TestPlaceOrderBankTransfer(t *testing.T) {
	r, db := newCheckoutRouter(t)
	b := seedBook(t, db, models.FormatPhysical, 3000, 5)

	form := validForm()
	form.Payment.Method = "bank_transfer"

	w := postJSON(t, r, "/api/checkout-new", gin.H{
		"cart": []gin.H{{"book_id": b.ID, "quantity": 2}},
		"form": form,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Order        models.Order   `json:"order"`
		BankTransfer map[string]any `json:"bank_transfer"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, models.OrderPendingPayment, resp.Order.Status)
	require.Equal(t, "0123456789", resp.BankTransfer["account_number"])
	require.Equal(t, resp.Order.ID, resp.BankTransfer["reference"])

	// subtotal 6000, standard shipping 500 + 200×2 = 900, VAT 450
	require.Equal(t, 900.0, resp.Order.Shipping)
	require.Equal(t, 7350.0, resp.Order.Total)

	// stock went down
	got, err := book.GetByID(db, b.ID)
	require.NoError(t, err)
	require.Equal(t, 3, got.StockQuantity)
}

func TestPlaceOrderIncompleteStepKeepsSession(t *testing.T) {
	r, db := newCheckoutRouter(t)
	b := seedBook(t, db, models.FormatEbook, 2000, 0)

	form := validForm()
	form.Shipping.Email = ""
	require.NoError(t, SaveSession(db, Session{Token: "tok-k", Form: form, CurrentStep: 1}))

	w := postJSON(t, r, "/api/checkout-new", gin.H{
		"cart":          []gin.H{{"book_id": b.ID, "quantity": 1}},
		"form":          form,
		"session_token": "tok-k",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// the session survives failed attempts so the buyer can resume
	_, found, err := LoadSession(db, "tok-k")
	require.NoError(t, err)
	require.True(t, found)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	r, db := newCheckoutRouter(t)
	b := seedBook(t, db, models.FormatPhysical, 3000, 1)

	w := postJSON(t, r, "/api/checkout-new", gin.H{
		"cart": []gin.H{{"book_id": b.ID, "quantity": 2}},
		"form": validForm(),
	})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "insufficient stock")
}

func TestPlaceOrderUnknownPaymentMethod(t *testing.T) {
	r, db := newCheckoutRouter(t)
	b := seedBook(t, db, models.FormatEbook, 2000, 0)

	// an account matching the buyer email: a wrongly confirmed order
	// would hand this user a free ebook
	_, err := db.Exec(`INSERT INTO users (id, email, username, password_hash) VALUES ('u1', 'ada@example.com', 'ada', 'x')`)
	require.NoError(t, err)

	form := validForm()
	form.Payment.Method = "goodwill"

	w := postJSON(t, r, "/api/checkout-new", gin.H{
		"cart": []gin.H{{"book_id": b.ID, "quantity": 1}},
		"form": form,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "not available")

	// no order row and no entitlement came out of the rejected attempt
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&n))
	require.Zero(t, n)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM user_libraries`).Scan(&n))
	require.Zero(t, n)
}

func TestPlaceOrderDisabledGatewayRejected(t *testing.T) {
	r, db := newCheckoutRouter(t)
	b := seedBook(t, db, models.FormatEbook, 2000, 0)

	_, err := db.Exec(`UPDATE payment_gateways SET enabled = 0 WHERE name = 'flutterwave'`)
	require.NoError(t, err)

	form := validForm()
	form.Payment.Method = "flutterwave"

	w := postJSON(t, r, "/api/checkout-new", gin.H{
		"cart": []gin.H{{"book_id": b.ID, "quantity": 1}},
		"form": form,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&n))
	require.Zero(t, n)
}

func TestQuoteUsesEstimateWithoutMethod(t *testing.T) {
	r, db := newCheckoutRouter(t)
	_ = db

	w := postJSON(t, r, "/api/checkout-quote", gin.H{
		"cart": []gin.H{
			{"book_id": "x", "format": "physical", "price": 1000, "quantity": 3},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Steps    []Step  `json:"steps"`
		Shipping float64 `json:"shipping"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Steps, 4)
	require.Equal(t, 900.0, resp.Shipping) // 500 + 200×2 estimate
}
