package shipping

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookhub/pkg/models"
)

var ErrNotFound = errors.New("shipping method not found")

const selectCols = `id, name, description, kind, base_cost, cost_per_item,
	free_shipping_threshold, estimated_days_min, estimated_days_max, is_active`

func scanMethod(row interface{ Scan(...any) error }) (models.ShippingMethod, error) {
	var m models.ShippingMethod
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Kind, &m.BaseCost, &m.CostPerItem,
		&m.FreeShippingThreshold, &m.EstimatedDaysMin, &m.EstimatedDaysMax, &m.IsActive)
	return m, err
}

// List returns active methods, optionally narrowed to one kind.
func List(db *sql.DB, kind string) ([]models.ShippingMethod, error) {
	q := `SELECT ` + selectCols + ` FROM shipping_methods WHERE is_active = 1`
	args := []any{}
	if kind != "" {
		q += ` AND kind = ?`
		args = append(args, kind)
	}
	q += ` ORDER BY base_cost`

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list shipping methods: %w", err)
	}
	defer rows.Close()

	res := []models.ShippingMethod{}
	for rows.Next() {
		m, err := scanMethod(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func GetByID(db *sql.DB, id string) (models.ShippingMethod, error) {
	m, err := scanMethod(db.QueryRow(`SELECT `+selectCols+` FROM shipping_methods WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.ShippingMethod{}, ErrNotFound
	}
	return m, err
}

func HandleList(c *gin.Context, db *sql.DB) {
	methods, err := List(db, c.Query("kind"))
	if err != nil {
		log.Printf("shipping methods: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "shipping_methods": methods})
}
