package payment

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bookhub/internal/book"
	"bookhub/internal/checkout"
	"bookhub/pkg/models"
)

const maxProofSize = 5 * 1024 * 1024

var proofExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".pdf": true}

func ListGateways(db *sql.DB) ([]models.PaymentGateway, error) {
	rows, err := db.Query(`SELECT id, name, display_name, enabled, account_name, account_number, bank_name
		FROM payment_gateways WHERE enabled = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list gateways: %w", err)
	}
	defer rows.Close()

	res := []models.PaymentGateway{}
	for rows.Next() {
		var g models.PaymentGateway
		if err := rows.Scan(&g.ID, &g.Name, &g.DisplayName, &g.Enabled,
			&g.AccountName, &g.AccountNumber, &g.BankName); err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

func HandleListGateways(c *gin.Context, db *sql.DB) {
	gws, err := ListGateways(db)
	if err != nil {
		log.Printf("payment gateways: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "payment_gateways": gws})
}

// ValidateProof accepts receipt screenshots and PDF statements up to 5MB.
func ValidateProof(filename string, size int64) error {
	if size > maxProofSize {
		return fmt.Errorf("proof of payment exceeds the 5MB limit")
	}
	if !proofExts[strings.ToLower(filepath.Ext(filename))] {
		return fmt.Errorf("proof of payment must be jpg, jpeg, png, webp or pdf")
	}
	return nil
}

// HandleUploadProof attaches a bank-transfer receipt to a pending
// order and moves it to pending_verification for staff review.
func HandleUploadProof(c *gin.Context, db *sql.DB, uploadDir string, feed checkout.Notifier) {
	orderID := c.PostForm("order_id")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "order_id required"})
		return
	}

	fh, err := c.FormFile("proof")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "proof file required"})
		return
	}
	if err := ValidateProof(fh.Filename, fh.Size); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	url, err := book.SaveUpload(fh, uploadDir, "proof")
	if err != nil {
		log.Printf("save proof: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to store proof"})
		return
	}

	if err := checkout.AttachProof(db, orderID, url); err != nil {
		if errors.Is(err, checkout.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "no pending bank-transfer order with that id"})
			return
		}
		log.Printf("attach proof: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}

	if feed != nil {
		feed.Publish(models.ActivityEvent{
			Type:      "proof_uploaded",
			Message:   fmt.Sprintf("payment proof uploaded for order %s", orderID),
			RefID:     orderID,
			Timestamp: time.Now().Unix(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "proof_url": url, "status": models.OrderPendingVerification})
}
