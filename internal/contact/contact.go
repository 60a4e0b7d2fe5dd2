package contact

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Page is the single contact-page document (row id=1).
type Page struct {
	Heading   string    `json:"heading"`
	Body      string    `json:"body"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	UpdatedAt time.Time `json:"updated_at"`
}

func Get(db *sql.DB) (Page, error) {
	var p Page
	err := db.QueryRow(`SELECT heading, body, email, phone, address, updated_at FROM contact_page WHERE id = 1`).
		Scan(&p.Heading, &p.Body, &p.Email, &p.Phone, &p.Address, &p.UpdatedAt)
	if err != nil {
		return Page{}, fmt.Errorf("load contact page: %w", err)
	}
	return p, nil
}

func Save(db *sql.DB, p Page) error {
	_, err := db.Exec(`
		INSERT INTO contact_page (id, heading, body, email, phone, address, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			heading=excluded.heading, body=excluded.body, email=excluded.email,
			phone=excluded.phone, address=excluded.address, updated_at=CURRENT_TIMESTAMP`,
		p.Heading, p.Body, p.Email, p.Phone, p.Address)
	if err != nil {
		return fmt.Errorf("save contact page: %w", err)
	}
	return nil
}

func HandleGet(c *gin.Context, db *sql.DB) {
	p, err := Get(db)
	if err != nil {
		log.Printf("contact page: %v", err)
		c.JSON(http.StatusOK, gin.H{"success": true, "contact": Page{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "contact": p})
}

func HandleSave(c *gin.Context, db *sql.DB) {
	var p Page
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid json"})
		return
	}
	if err := Save(db, p); err != nil {
		log.Printf("save contact page: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	saved, _ := Get(db)
	c.JSON(http.StatusOK, gin.H{"success": true, "contact": saved})
}
