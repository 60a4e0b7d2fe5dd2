package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"bookhub/internal/analytics"
	"bookhub/internal/auth"
	"bookhub/internal/author"
	"bookhub/internal/book"
	"bookhub/internal/category"
	"bookhub/internal/checkout"
	"bookhub/internal/contact"
	"bookhub/internal/events"
	"bookhub/internal/geo"
	"bookhub/internal/library"
	"bookhub/internal/opsnotify"
	"bookhub/internal/payment"
	"bookhub/internal/readsync"
	"bookhub/internal/shipping"
	"bookhub/internal/user"
	"bookhub/pkg/database"
	"bookhub/pkg/models"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded (%v)", err)
	}

	addr := envOr("BOOKHUB_ADDR", ":8080")
	dbPath := envOr("BOOKHUB_DB", "./data/bookhub.db")
	uploadDir := envOr("BOOKHUB_UPLOAD_DIR", "./data/uploads")
	readsyncAddr := envOr("BOOKHUB_READSYNC_ADDR", ":9090")
	opsAddr := envOr("BOOKHUB_OPSNOTIFY_ADDR", ":7070")
	jwtSecret := []byte(envOr("BOOKHUB_JWT_SECRET", "dev-secret-change-me"))

	if err := os.MkdirAll("./data", 0755); err != nil {
		log.Fatal(err)
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}
	if err := database.SeedDefaults(db); err != nil {
		log.Fatal(err)
	}

	// seed the catalog when the JSON file is around
	catalogPath := envOr("BOOKHUB_CATALOG", "./data/catalog.json")
	if _, err := os.Stat(catalogPath); err == nil {
		books, err := database.LoadBooksFromJSON(catalogPath)
		if err != nil {
			log.Fatal(err)
		}
		n, err := database.SeedBooks(db, books)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("seeded %d books into %s", n, dbPath)
	} else {
		log.Printf("warn: %s not found; skip catalog seeding", catalogPath)
	}

	// reading-progress TCP feed
	readingCh := make(chan models.ReadingEvent, 100)
	readServer := readsync.New(readsyncAddr, readingCh)
	go func() {
		if err := readServer.Start(); err != nil {
			log.Fatal(err)
		}
	}()

	// UDP ops notices
	opsServer := opsnotify.New(opsAddr)
	go func() {
		if err := opsServer.Start(); err != nil {
			log.Fatal(err)
		}
	}()

	// websocket activity feed for the back office
	feed := events.NewHub()
	go feed.Run()
	log.Println("activity hub started")

	r := gin.Default()
	r.Static("/uploads", uploadDir)

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// AUTH
	r.POST("/api/auth/login", func(c *gin.Context) { handleLogin(c, db, jwtSecret) })

	// PUBLIC STOREFRONT
	r.GET("/api/shipping-methods", func(c *gin.Context) { shipping.HandleList(c, db) })
	r.GET("/api/payment-gateways", func(c *gin.Context) { payment.HandleListGateways(c, db) })
	r.GET("/api/contact", func(c *gin.Context) { contact.HandleGet(c, db) })
	r.GET("/api/geo/states", geo.HandleListStates)
	r.GET("/api/geo/states/:name/lgas", geo.HandleStateLGAs)

	// CHECKOUT
	r.POST("/api/checkout-quote", func(c *gin.Context) { checkout.HandleQuote(c, db) })
	r.POST("/api/checkout-new", func(c *gin.Context) { checkout.HandlePlaceOrder(c, db, feed) })
	r.GET("/api/checkout-session/:token", func(c *gin.Context) { checkout.HandleGetSession(c, db) })
	r.PUT("/api/checkout-session/:token", func(c *gin.Context) { checkout.HandleSaveSession(c, db) })
	r.DELETE("/api/checkout-session/:token", func(c *gin.Context) { checkout.HandleClearSession(c, db) })
	r.POST("/api/payment/bank-transfer/upload-proof", func(c *gin.Context) {
		payment.HandleUploadProof(c, db, uploadDir, feed)
	})

	// ACTIVITY FEED
	r.GET("/ws/activity", events.HandleWebSocket(feed))

	// ADMIN
	admin := r.Group("/api/admin")
	admin.Use(auth.RequireJWT(jwtSecret), auth.RequireRole("admin"))

	admin.GET("/books", func(c *gin.Context) { book.HandleList(c, db) })
	admin.POST("/books", func(c *gin.Context) { book.HandleCreate(c, db, uploadDir) })
	admin.GET("/books/:id", func(c *gin.Context) { book.HandleGet(c, db) })
	admin.PUT("/books/:id", func(c *gin.Context) { book.HandleUpdate(c, db, uploadDir) })
	admin.DELETE("/books/:id", func(c *gin.Context) { book.HandleDelete(c, db) })
	admin.DELETE("/books", func(c *gin.Context) { book.HandleDelete(c, db) })
	admin.POST("/books/batch-update", func(c *gin.Context) { book.HandleBatchUpdate(c, db) })

	admin.GET("/authors", func(c *gin.Context) { author.HandleList(c, db) })
	admin.POST("/authors", func(c *gin.Context) { author.HandleCreate(c, db) })
	admin.GET("/authors/:id", func(c *gin.Context) { author.HandleGet(c, db) })
	admin.PUT("/authors/:id", func(c *gin.Context) { author.HandleUpdate(c, db) })
	admin.DELETE("/authors/:id", func(c *gin.Context) { author.HandleDelete(c, db) })

	admin.GET("/categories", func(c *gin.Context) { category.HandleList(c, db) })
	admin.POST("/categories", func(c *gin.Context) { category.HandleCreate(c, db) })
	admin.PUT("/categories/:id", func(c *gin.Context) { category.HandleUpdate(c, db) })
	admin.DELETE("/categories/:id", func(c *gin.Context) { category.HandleDelete(c, db) })

	admin.GET("/users", func(c *gin.Context) { user.HandleList(c, db) })
	admin.POST("/users", func(c *gin.Context) { user.HandleCreate(c, db) })
	admin.GET("/users/:id", func(c *gin.Context) { user.HandleGet(c, db) })
	admin.PUT("/users/:id", func(c *gin.Context) { user.HandleUpdate(c, db) })
	admin.DELETE("/users/:id", func(c *gin.Context) { user.HandleDelete(c, db) })
	admin.PUT("/users/:id/roles", func(c *gin.Context) { user.HandleReplaceRoles(c, db) })
	admin.PUT("/users/:id/password", func(c *gin.Context) { user.HandleSetPassword(c, db) })
	admin.GET("/users/:id/library", func(c *gin.Context) { library.HandleListForUser(c, db) })
	admin.GET("/users/:id/reading-analytics", func(c *gin.Context) { analytics.HandleReading(c, db) })
	admin.GET("/roles", func(c *gin.Context) { user.HandleListRoles(c, db) })

	admin.GET("/user-libraries", func(c *gin.Context) { library.HandleListAll(c, db) })
	admin.POST("/user-libraries", func(c *gin.Context) { library.HandleAssign(c, db) })
	admin.PUT("/user-libraries/:id", func(c *gin.Context) { library.HandleUpdateProgress(c, db, readingCh) })
	admin.DELETE("/user-libraries/:id", func(c *gin.Context) { library.HandleRemove(c, db) })
	admin.POST("/users/library/bulk-assign", func(c *gin.Context) { library.HandleBulkAssign(c, db, feed) })

	admin.GET("/analytics/books", func(c *gin.Context) { analytics.HandleBooks(c, db) })
	admin.POST("/contact", func(c *gin.Context) { contact.HandleSave(c, db) })

	admin.POST("/notify", func(c *gin.Context) {
		var req struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
			c.JSON(400, gin.H{"success": false, "error": "message required"})
			return
		}
		if req.Type == "" {
			req.Type = "notice"
		}
		opsServer.Broadcast(req.Type, req.Message)
		c.JSON(200, gin.H{"success": true})
	})

	log.Printf("HTTP API listening on %s", addr)
	log.Fatal(r.Run(addr))
}

func handleLogin(c *gin.Context, db *sql.DB, jwtSecret []byte) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid json"})
		return
	}

	u, err := user.VerifyLogin(db, req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid credentials"})
		return
	}

	roles, err := user.RolesForUser(db, u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.Name
	}

	token, err := auth.SignJWT(jwtSecret, u.ID, u.Username, names, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "sign token failed"})
		return
	}
	u.Roles = roles
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": u})
}
