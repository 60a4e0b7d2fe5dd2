package models

import "time"

// Book formats. Stock only means anything for physical copies.
const (
	FormatEbook    = "ebook"
	FormatPhysical = "physical"
)

// Book statuses.
const (
	BookPublished = "published"
	BookDraft     = "draft"
	BookPending   = "pending"
	BookArchived  = "archived"
)

// User account statuses.
const (
	UserActive    = "active"
	UserSuspended = "suspended"
	UserBanned    = "banned"
)

// Library entry statuses.
const (
	LibraryActive    = "active"
	LibraryCompleted = "completed"
	LibraryPaused    = "paused"
)

// Order statuses.
const (
	OrderPendingPayment      = "pending_payment"
	OrderPendingVerification = "pending_verification"
	OrderPaid                = "paid"
	OrderConfirmed           = "confirmed"
)

// books table
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	AuthorID      string    `json:"author_id"`
	AuthorName    string    `json:"author_name"`
	CategoryID    string    `json:"category_id"`
	CategoryName  string    `json:"category_name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Status        string    `json:"status"`
	Format        string    `json:"format"`
	StockQuantity int       `json:"stock_quantity"`
	IsFeatured    bool      `json:"is_featured"`
	CoverImageURL string    `json:"cover_image_url"`
	EbookFileURL  string    `json:"ebook_file_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// authors table; sales figures are aggregates computed in SQL
type Author struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Bio        string  `json:"bio"`
	AvatarURL  string  `json:"avatar_url"`
	Status     string  `json:"status"`
	BooksCount int     `json:"books_count"`
	TotalSales int     `json:"total_sales"`
	Revenue    float64 `json:"revenue"`
}

// categories table
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
	BookCount   int    `json:"book_count"`
}

// users table
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Status        string    `json:"status"`
	EmailVerified bool      `json:"email_verified"`
	PasswordHash  string    `json:"-"`
	Roles         []Role    `json:"roles"`
	CreatedAt     time.Time `json:"created_at"`
}

// roles table; assignment always replaces the full set for a user
type Role struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayName  string `json:"display_name"`
	Description  string `json:"description"`
	Priority     int    `json:"priority"`
	IsSystemRole bool   `json:"is_system_role"`
}

// user_libraries table: one ebook entitlement per (user, book)
type LibraryEntry struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	BookID     string     `json:"book_id"`
	BookTitle  string     `json:"book_title,omitempty"`
	BookFormat string     `json:"book_format,omitempty"`
	Progress   int        `json:"progress"`
	Status     string     `json:"status"`
	LastRead   *time.Time `json:"last_read,omitempty"`
	AssignedAt time.Time  `json:"assigned_at"`
}

// shipping_methods table. Kind is explicit ("digital"|"physical"),
// never inferred from the name.
type ShippingMethod struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	Description           string  `json:"description"`
	Kind                  string  `json:"kind"`
	BaseCost              float64 `json:"base_cost"`
	CostPerItem           float64 `json:"cost_per_item"`
	FreeShippingThreshold float64 `json:"free_shipping_threshold"`
	EstimatedDaysMin      int     `json:"estimated_days_min"`
	EstimatedDaysMax      int     `json:"estimated_days_max"`
	IsActive              bool    `json:"is_active"`
}

// payment_gateways table
type PaymentGateway struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DisplayName   string `json:"display_name"`
	Enabled       bool   `json:"enabled"`
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
}

// CartItem is one checkout line item as the storefront sends it.
type CartItem struct {
	BookID   string  `json:"book_id"`
	Title    string  `json:"title"`
	Format   string  `json:"format"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Address as collected by the checkout address step.
type Address struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	LGA        string `json:"lga"`
	PostalCode string `json:"postal_code"`
}

// BillingInfo mirrors the shipping address when SameAsShipping is set.
type BillingInfo struct {
	Address        `json:"address"`
	SameAsShipping bool `json:"same_as_shipping"`
}

// PaymentInfo carries the chosen method and gateway.
type PaymentInfo struct {
	Method  string `json:"method"`
	Gateway string `json:"gateway"`
}

// CheckoutForm is the full multi-step form.
type CheckoutForm struct {
	Shipping         Address     `json:"shipping"`
	Billing          BillingInfo `json:"billing"`
	Payment          PaymentInfo `json:"payment"`
	ShippingMethodID string      `json:"shipping_method_id"`
}

// orders table
type Order struct {
	ID            string      `json:"id"`
	Email         string      `json:"email"`
	CustomerName  string      `json:"customer_name"`
	Subtotal      float64     `json:"subtotal"`
	Shipping      float64     `json:"shipping"`
	Tax           float64     `json:"tax"`
	Total         float64     `json:"total"`
	PaymentMethod string      `json:"payment_method"`
	Status        string      `json:"status"`
	ProofURL      string      `json:"proof_url,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	Items         []OrderItem `json:"items,omitempty"`
}

// order_items table
type OrderItem struct {
	BookID   string  `json:"book_id"`
	Title    string  `json:"title"`
	Format   string  `json:"format"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// ActivityEvent goes out over the back-office websocket feed.
type ActivityEvent struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	RefID     string `json:"ref_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// ReadingEvent is broadcast on the TCP sync feed whenever a library
// entry's progress changes.
type ReadingEvent struct {
	UserID    string `json:"user_id"`
	BookID    string `json:"book_id"`
	Progress  int    `json:"progress"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// OpsNotice is pushed to UDP subscribers (staff dashboards).
type OpsNotice struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}
