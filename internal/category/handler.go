package category

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
	cats, err := List(db)
	if err != nil {
		log.Printf("list categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": cats})
}

type categoryReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

func HandleCreate(c *gin.Context, db *sql.DB) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "name required"})
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	ct, err := Create(db, models.Category{Name: req.Name, Description: req.Description, IsActive: active})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "category name already exists"})
			return
		}
		log.Printf("create category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "category": ct})
}

func HandleUpdate(c *gin.Context, db *sql.DB) {
	existing, err := GetByID(db, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "category not found"})
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "name required"})
		return
	}
	active := existing.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}
	ct, err := Update(db, models.Category{
		ID: existing.ID, Name: req.Name, Description: req.Description, IsActive: active,
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "category name already exists"})
			return
		}
		log.Printf("update category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "category": ct})
}

func HandleDelete(c *gin.Context, db *sql.DB) {
	if err := Delete(db, c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "category not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
