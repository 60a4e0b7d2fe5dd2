package author

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bookhub/pkg/models"
)

func HandleList(c *gin.Context, db *sql.DB) {
	authors, err := List(db, c.Query("search"))
	if err != nil {
		log.Printf("list authors: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "authors": authors})
}

func HandleGet(c *gin.Context, db *sql.DB) {
	a, err := GetByID(db, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "author not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "author": a})
}

type authorReq struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
	Status    string `json:"status"`
}

func HandleCreate(c *gin.Context, db *sql.DB) {
	var req authorReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "name required"})
		return
	}
	a, err := Create(db, models.Author{
		Name: req.Name, Email: req.Email, Bio: req.Bio, AvatarURL: req.AvatarURL, Status: req.Status,
	})
	if err != nil {
		log.Printf("create author: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "author": a})
}

func HandleUpdate(c *gin.Context, db *sql.DB) {
	var req authorReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "name required"})
		return
	}
	if req.Status == "" {
		req.Status = "active"
	}
	a, err := Update(db, models.Author{
		ID: c.Param("id"), Name: req.Name, Email: req.Email, Bio: req.Bio,
		AvatarURL: req.AvatarURL, Status: req.Status,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "author not found"})
			return
		}
		log.Printf("update author: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "author": a})
}

func HandleDelete(c *gin.Context, db *sql.DB) {
	if err := Delete(db, c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "author not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
