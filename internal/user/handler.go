package user

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

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

func HandleList(c *gin.Context, db *sql.DB) {
	f := Filters{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Page:   parseInt(c.Query("page"), 1),
		Limit:  parseInt(c.Query("limit"), 20),
	}
	users, total, err := List(db, f)
	if err != nil {
		log.Printf("list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}

	// roles ride along so the grid can show them without N round-trips
	for i := range users {
		roles, err := RolesForUser(db, users[i].ID)
		if err != nil {
			log.Printf("roles for %s: %v", users[i].ID, err)
			roles = []models.Role{}
		}
		users[i].Roles = roles
	}

	totalPages := (total + f.Limit - 1) / f.Limit
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
		"pagination": gin.H{
			"page": f.Page, "limit": f.Limit, "total": total, "total_pages": totalPages,
		},
	})
}

func HandleGet(c *gin.Context, db *sql.DB) {
	u, err := GetByID(db, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
		return
	}
	roles, err := RolesForUser(db, u.ID)
	if err != nil {
		roles = []models.Role{}
	}
	u.Roles = roles
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}

type userReq struct {
	Email         string `json:"email"`
	Username      string `json:"username"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Status        string `json:"status"`
	EmailVerified bool   `json:"email_verified"`
	Password      string `json:"password"`
}

func validStatus(s string) bool {
	switch s {
	case "", models.UserActive, models.UserSuspended, models.UserBanned:
		return true
	}
	return false
}

func HandleCreate(c *gin.Context, db *sql.DB) {
	var req userReq
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email and password required"})
		return
	}
	if !validStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown status"})
		return
	}
	if req.Username == "" {
		req.Username = req.Email
	}

	u, err := Create(db, models.User{
		Email: req.Email, Username: req.Username,
		FirstName: req.FirstName, LastName: req.LastName,
		Status: req.Status, EmailVerified: req.EmailVerified,
	}, req.Password)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "email or username already exists"})
			return
		}
		log.Printf("create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	u.Roles = []models.Role{}
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": u})
}

func HandleUpdate(c *gin.Context, db *sql.DB) {
	existing, err := GetByID(db, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
		return
	}

	var req userReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email required"})
		return
	}
	if !validStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown status"})
		return
	}
	if req.Status == "" {
		req.Status = existing.Status
	}
	if req.Username == "" {
		req.Username = existing.Username
	}

	u, err := Update(db, models.User{
		ID: existing.ID, Email: req.Email, Username: req.Username,
		FirstName: req.FirstName, LastName: req.LastName,
		Status: req.Status, EmailVerified: req.EmailVerified,
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "email or username already exists"})
			return
		}
		log.Printf("update user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}

func HandleDelete(c *gin.Context, db *sql.DB) {
	if err := Delete(db, c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
			return
		}
		log.Printf("delete user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// HandleReplaceRoles always replaces the full role set. An empty
// role_ids array is accepted and strips every role from the user.
func HandleReplaceRoles(c *gin.Context, db *sql.DB) {
	if _, err := GetByID(db, c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
		return
	}

	var req struct {
		RoleIDs *[]string `json:"role_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RoleIDs == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "role_ids required"})
		return
	}

	if err := ReplaceRoles(db, c.Param("id"), *req.RoleIDs); err != nil {
		log.Printf("replace roles: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update roles"})
		return
	}

	roles, err := RolesForUser(db, c.Param("id"))
	if err != nil {
		roles = []models.Role{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "roles": roles})
}

func HandleSetPassword(c *gin.Context, db *sql.DB) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "password of at least 8 characters required"})
		return
	}
	if err := SetPassword(db, c.Param("id"), req.Password); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
			return
		}
		log.Printf("set password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func HandleListRoles(c *gin.Context, db *sql.DB) {
	roles, err := AllRoles(db)
	if err != nil {
		log.Printf("list roles: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "roles": roles})
}
