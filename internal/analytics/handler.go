package analytics

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleBooks never 500s the dashboard: a failed query logs and falls
// back to the zero-value stats block.
func HandleBooks(c *gin.Context, db *sql.DB) {
	s, err := Books(db)
	if err != nil {
		log.Printf("book analytics: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "analytics": s})
}

func HandleReading(c *gin.Context, db *sql.DB) {
	s, err := Reading(db, c.Param("id"))
	if err != nil {
		log.Printf("reading analytics: %v", err)
		s = ReadingStats{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "analytics": s})
}
