package book

import (
	"database/sql"
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
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		CategoryID: c.Query("category_id"),
		Page:       parseInt(c.Query("page"), 1),
		Limit:      parseInt(c.Query("limit"), 20),
	}

	books, total, err := List(db, f)
	if err != nil {
		log.Printf("list books: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}

	totalPages := (total + f.Limit - 1) / f.Limit
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"books":   books,
		"pagination": gin.H{
			"page": f.Page, "limit": f.Limit, "total": total, "total_pages": totalPages,
		},
	})
}

func HandleGet(c *gin.Context, db *sql.DB) {
	b, err := GetByID(db, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "book not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "book": b})
}

// bookForm covers both the JSON and the multipart create/update paths.
type bookForm struct {
	Title         string  `json:"title" form:"title"`
	AuthorID      string  `json:"author_id" form:"author_id"`
	CategoryID    string  `json:"category_id" form:"category_id"`
	Description   string  `json:"description" form:"description"`
	Price         float64 `json:"price" form:"price"`
	Status        string  `json:"status" form:"status"`
	Format        string  `json:"format" form:"format"`
	StockQuantity int     `json:"stock_quantity" form:"stock_quantity"`
	IsFeatured    bool    `json:"is_featured" form:"is_featured"`
	CoverImageURL string  `json:"cover_image_url" form:"-"`
	EbookFileURL  string  `json:"ebook_file_url" form:"-"`
}

func (f *bookForm) validate() string {
	if strings.TrimSpace(f.Title) == "" {
		return "title is required"
	}
	if f.Price < 0 {
		return "price cannot be negative"
	}
	switch f.Format {
	case models.FormatEbook, models.FormatPhysical:
	default:
		return "format must be ebook or physical"
	}
	switch f.Status {
	case "", models.BookPublished, models.BookDraft, models.BookPending, models.BookArchived:
	default:
		return "unknown status"
	}
	return ""
}

// bindBookForm reads the request body and, for multipart requests,
// validates and stores any attached cover/ebook files.
func bindBookForm(c *gin.Context, uploadDir string) (*bookForm, string) {
	var f bookForm
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBindJSON(&f); err != nil {
			return nil, "invalid json"
		}
		return &f, f.validate()
	}

	if err := c.ShouldBind(&f); err != nil {
		return nil, "invalid form"
	}
	if msg := f.validate(); msg != "" {
		return nil, msg
	}

	if fh, err := c.FormFile("cover_image"); err == nil {
		if err := ValidateCoverImage(fh.Filename, fh.Size); err != nil {
			return nil, err.Error()
		}
		url, err := SaveUpload(fh, uploadDir, "cover")
		if err != nil {
			log.Printf("save cover: %v", err)
			return nil, "failed to store cover image"
		}
		f.CoverImageURL = url
	}
	if fh, err := c.FormFile("ebook_file"); err == nil {
		if err := ValidateEbookFile(fh.Filename, fh.Size, fh.Header.Get("Content-Type")); err != nil {
			return nil, err.Error()
		}
		url, err := SaveUpload(fh, uploadDir, "ebook")
		if err != nil {
			log.Printf("save ebook: %v", err)
			return nil, "failed to store ebook file"
		}
		f.EbookFileURL = url
	}
	return &f, ""
}

func HandleCreate(c *gin.Context, db *sql.DB, uploadDir string) {
	f, msg := bindBookForm(c, uploadDir)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
		return
	}

	if f.Status == "" {
		f.Status = models.BookDraft
	}
	b, err := Create(db, models.Book{
		Title: f.Title, AuthorID: f.AuthorID, CategoryID: f.CategoryID,
		Description: f.Description, Price: f.Price, Status: f.Status, Format: f.Format,
		StockQuantity: f.StockQuantity, IsFeatured: f.IsFeatured,
		CoverImageURL: f.CoverImageURL, EbookFileURL: f.EbookFileURL,
	})
	if err != nil {
		log.Printf("create book: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "book": b})
}

func HandleUpdate(c *gin.Context, db *sql.DB, uploadDir string) {
	existing, err := GetByID(db, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "book not found"})
		return
	}

	f, msg := bindBookForm(c, uploadDir)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
		return
	}

	// keep stored file URLs unless the request replaced them
	if f.CoverImageURL == "" {
		f.CoverImageURL = existing.CoverImageURL
	}
	if f.EbookFileURL == "" {
		f.EbookFileURL = existing.EbookFileURL
	}
	if f.Status == "" {
		f.Status = existing.Status
	}

	b, err := Update(db, models.Book{
		ID: existing.ID, Title: f.Title, AuthorID: f.AuthorID, CategoryID: f.CategoryID,
		Description: f.Description, Price: f.Price, Status: f.Status, Format: f.Format,
		StockQuantity: f.StockQuantity, IsFeatured: f.IsFeatured,
		CoverImageURL: f.CoverImageURL, EbookFileURL: f.EbookFileURL,
	})
	if err != nil {
		log.Printf("update book: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "book": b})
}

// HandleDelete accepts either a path id or ?ids=a,b,c for bulk delete.
func HandleDelete(c *gin.Context, db *sql.DB) {
	var ids []string
	if id := c.Param("id"); id != "" {
		ids = []string{id}
	} else if raw := c.Query("ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "id or ids required"})
		return
	}

	deleted, err := Delete(db, ids)
	if err != nil {
		log.Printf("delete books: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "book not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted})
}

func HandleBatchUpdate(c *gin.Context, db *sql.DB) {
	var req struct {
		IDs    []string `json:"ids"`
		Status string   `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ids and status required"})
		return
	}
	switch req.Status {
	case models.BookPublished, models.BookDraft, models.BookPending, models.BookArchived:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown status"})
		return
	}

	updated, err := BatchUpdateStatus(db, req.IDs, req.Status)
	if err != nil {
		log.Printf("batch update books: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": updated})
}
