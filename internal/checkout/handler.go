package checkout

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bookhub/internal/book"
	"bookhub/internal/library"
	"bookhub/internal/shipping"
	"bookhub/pkg/models"
)

type Notifier interface {
	Publish(models.ActivityEvent)
}

// placeOrderReq is the POST /api/checkout-new body.
type placeOrderReq struct {
	Cart         []models.CartItem   `json:"cart"`
	Form         models.CheckoutForm `json:"form"`
	SessionToken string              `json:"session_token"`
}

// HandlePlaceOrder validates the full flow, prices the order
// server-side and branches the response on the payment method. The
// checkout session is cleared only after the order is committed; any
// failure leaves it intact so the client can correct and resubmit.
func HandlePlaceOrder(c *gin.Context, db *sql.DB, feed Notifier) {
	var req placeOrderReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Cart) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "cart is empty"})
		return
	}

	// authoritative price and format come from the catalog, not the client
	items := make([]models.OrderItem, 0, len(req.Cart))
	for _, it := range req.Cart {
		if it.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "quantity must be positive"})
			return
		}
		b, err := book.GetByID(db, it.BookID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("book %s not found", it.BookID)})
			return
		}
		if b.Status != models.BookPublished {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": fmt.Sprintf("%q is not available", b.Title)})
			return
		}
		items = append(items, models.OrderItem{
			BookID: b.ID, Title: b.Title, Format: b.Format, Price: b.Price, Quantity: it.Quantity,
		})
	}
	cart := make([]models.CartItem, len(items))
	for i, it := range items {
		cart[i] = models.CartItem{BookID: it.BookID, Title: it.Title, Format: it.Format, Price: it.Price, Quantity: it.Quantity}
	}

	form := req.Form
	if form.Billing.SameAsShipping {
		// billing mirrors shipping whenever the flag is set
		form.Billing.Address = form.Shipping
	}

	steps := Steps(cart)
	if bad := FirstInvalidStep(steps, form); bad != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   fmt.Sprintf("step %d (%s) is incomplete", bad.Number, bad.Title),
		})
		return
	}

	subtotal := shipping.Subtotal(cart)
	var shipCost float64
	if !shipping.EbookOnly(cart) {
		m, err := shipping.GetByID(db, form.ShippingMethodID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "shipping method not found"})
			return
		}
		if m.Kind != shipping.KindPhysical {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "cart has physical items; pick a physical shipping method"})
			return
		}
		shipCost = shipping.Cost(m, cart, subtotal)
	}
	tax := VAT(subtotal)
	total := subtotal + shipCost + tax

	// the chosen method must be a seeded, enabled gateway; anything
	// else is refused before any order row exists
	method := strings.ToLower(form.Payment.Method)
	var gw models.PaymentGateway
	err := db.QueryRow(`SELECT id, name, display_name, enabled, account_name, account_number, bank_name
		FROM payment_gateways WHERE name = ? AND enabled = 1`, method).
		Scan(&gw.ID, &gw.Name, &gw.DisplayName, &gw.Enabled, &gw.AccountName, &gw.AccountNumber, &gw.BankName)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("gateway lookup %q: %v", method, err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": fmt.Sprintf("payment method %q is not available", method)})
		return
	}

	status := models.OrderPendingPayment
	if method == "card" {
		status = models.OrderPaid
	}

	o, err := CreateOrder(db, models.Order{
		Email:         form.Shipping.Email,
		CustomerName:  strings.TrimSpace(form.Shipping.FirstName + " " + form.Shipping.LastName),
		Subtotal:      subtotal,
		Shipping:      shipCost,
		Tax:           tax,
		Total:         total,
		PaymentMethod: method,
		Status:        status,
		Items:         items,
	}, form)
	if err != nil {
		log.Printf("create order: %v", err)
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
		return
	}

	resp := gin.H{"success": true, "order": o, "payment_method": method}
	switch method {
	case "bank_transfer":
		resp["bank_transfer"] = gin.H{
			"account_name":   gw.AccountName,
			"account_number": gw.AccountNumber,
			"bank_name":      gw.BankName,
			"reference":      o.ID,
			"amount":         o.Total,
			"instructions":   "Transfer the exact amount and upload your proof of payment.",
		}
	case "flutterwave":
		resp["flutterwave"] = gin.H{
			"tx_ref":   o.ID,
			"amount":   o.Total,
			"currency": "NGN",
			"customer": gin.H{"email": o.Email, "name": o.CustomerName},
		}
	default:
		// direct card charge: confirm immediately and grant ebook
		// entitlements to a matching account
		if err := SetOrderStatus(db, o.ID, models.OrderConfirmed); err == nil {
			o.Status = models.OrderConfirmed
		}
		grantEbooks(db, o)
		resp["order"] = o
	}

	if req.SessionToken != "" {
		if err := ClearSession(db, req.SessionToken); err != nil {
			log.Printf("clear session %s: %v", req.SessionToken, err)
		}
	}
	if feed != nil {
		feed.Publish(models.ActivityEvent{
			Type:      "order_placed",
			Message:   fmt.Sprintf("order %s placed (%s, ₦%.2f)", o.ID, method, o.Total),
			RefID:     o.ID,
			Timestamp: time.Now().Unix(),
		})
	}

	c.JSON(http.StatusCreated, resp)
}

// grantEbooks puts every ebook line into the buyer's library when an
// account with the order email exists. Best effort: a miss here never
// fails the order.
func grantEbooks(db *sql.DB, o models.Order) {
	var userID string
	err := db.QueryRow(`SELECT id FROM users WHERE email = ?`, o.Email).Scan(&userID)
	if err != nil {
		return
	}
	for _, it := range o.Items {
		if it.Format != models.FormatEbook {
			continue
		}
		if _, err := library.Assign(db, userID, it.BookID, "purchase "+o.ID); err != nil &&
			!errors.Is(err, library.ErrExists) {
			log.Printf("grant ebook %s to %s: %v", it.BookID, userID, err)
		}
	}
}

// HandleGetSession restores a saved checkout; unusable rows were
// already cleared by LoadSession, so the client simply starts over.
func HandleGetSession(c *gin.Context, db *sql.DB) {
	s, found, err := LoadSession(db, c.Param("token"))
	if err != nil {
		log.Printf("load session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{"success": true, "found": false, "current_step": MinStep})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true, "found": true,
		"form": s.Form, "current_step": s.CurrentStep, "schema_version": SchemaVersion,
	})
}

func HandleSaveSession(c *gin.Context, db *sql.DB) {
	var req struct {
		Form        models.CheckoutForm `json:"form"`
		CurrentStep int                 `json:"current_step"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid json"})
		return
	}
	s := Session{Token: c.Param("token"), Form: req.Form, CurrentStep: req.CurrentStep}
	if err := SaveSession(db, s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func HandleClearSession(c *gin.Context, db *sql.DB) {
	if err := ClearSession(db, c.Param("token")); err != nil {
		log.Printf("clear session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// HandleQuote prices a cart before order placement: steps, subtotal,
// shipping (method cost or the pre-selection estimate), VAT and total.
func HandleQuote(c *gin.Context, db *sql.DB) {
	var req struct {
		Cart             []models.CartItem `json:"cart"`
		ShippingMethodID string            `json:"shipping_method_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Cart) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "cart is empty"})
		return
	}

	subtotal := shipping.Subtotal(req.Cart)
	var shipCost float64
	switch {
	case shipping.EbookOnly(req.Cart):
		shipCost = 0
	case req.ShippingMethodID == "":
		shipCost = shipping.Estimate(req.Cart)
	default:
		m, err := shipping.GetByID(db, req.ShippingMethodID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "shipping method not found"})
			return
		}
		shipCost = shipping.Cost(m, req.Cart, subtotal)
	}
	tax := VAT(subtotal)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"steps":    Steps(req.Cart),
		"subtotal": subtotal,
		"shipping": shipCost,
		"tax":      tax,
		"total":    subtotal + shipCost + tax,
	})
}
