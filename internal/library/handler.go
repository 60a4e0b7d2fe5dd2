package library

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bookhub/pkg/models"
)

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func HandleListForUser(c *gin.Context, db *sql.DB) {
	entries, err := ListForUser(db, c.Param("id"))
	if err != nil {
		log.Printf("list library: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "library": entries})
}

func HandleListAll(c *gin.Context, db *sql.DB) {
	limit := parseInt(c.Query("limit"), 50)
	page := parseInt(c.Query("page"), 1)
	entries, err := ListAll(db, c.Query("user_id"), c.Query("book_id"), limit, (page-1)*limit)
	if err != nil {
		log.Printf("list libraries: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "libraries": entries})
}

func HandleAssign(c *gin.Context, db *sql.DB) {
	var req struct {
		UserID string `json:"user_id"`
		BookID string `json:"book_id"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.BookID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "user_id and book_id required"})
		return
	}

	e, err := Assign(db, req.UserID, req.BookID, req.Reason)
	if err != nil {
		if errors.Is(err, ErrExists) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "book already in library"})
			return
		}
		log.Printf("assign library: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "entry": e})
}

func HandleRemove(c *gin.Context, db *sql.DB) {
	if err := Remove(db, c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "library entry not found"})
			return
		}
		log.Printf("remove library entry: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// HandleUpdateProgress persists the new position and pushes a
// ReadingEvent onto the sync feed without blocking the response.
func HandleUpdateProgress(c *gin.Context, db *sql.DB, events chan<- models.ReadingEvent) {
	var req struct {
		Progress int    `json:"progress"`
		Status   string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Progress < 0 || req.Progress > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "progress must be 0-100"})
		return
	}

	e, err := UpdateProgress(db, c.Param("id"), req.Progress, req.Status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "library entry not found"})
			return
		}
		log.Printf("update progress: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}

	evt := models.ReadingEvent{
		UserID: e.UserID, BookID: e.BookID,
		Progress: e.Progress, Status: e.Status,
		Timestamp: time.Now().Unix(),
	}
	select {
	case events <- evt:
	default:
		log.Println("warn: reading event channel full, drop event")
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "entry": e})
}

type Notifier interface {
	Publish(models.ActivityEvent)
}

func HandleBulkAssign(c *gin.Context, db *sql.DB, feed Notifier) {
	var req struct {
		UserIDs []string `json:"user_ids"`
		BookIDs []string `json:"book_ids"`
		Reason  string   `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.UserIDs) == 0 || len(req.BookIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "user_ids and book_ids required"})
		return
	}

	summary := BulkAssign(db, req.UserIDs, req.BookIDs, req.Reason)

	if feed != nil {
		feed.Publish(models.ActivityEvent{
			Type: "bulk_assign",
			Message: fmt.Sprintf("bulk assignment: %d assigned, %d skipped, %d failed",
				summary.Successful, summary.Skipped, summary.Failed),
			Timestamp: time.Now().Unix(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}
