// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/tduong196/bookstore/internal/domain/book"
	"github.com/tduong196/bookstore/internal/domain/comment"
	"github.com/tduong196/bookstore/internal/domain/order"
	"github.com/tduong196/bookstore/internal/domain/review"
	"github.com/tduong196/bookstore/internal/domain/upload"
	"github.com/tduong196/bookstore/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{db: db}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		&user.User{},
		&book.Book{},
		&order.Order{},
		&order.OrderItem{},
		&order.OrderStatusHistory{},
		&review.Review{},
		&comment.Comment{},
		&upload.UploadedFile{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		// Book indexes
		"CREATE INDEX IF NOT EXISTS idx_books_active_created ON books(is_active, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_books_category_active ON books(category, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_books_price ON books(price_cents)",
		"CREATE INDEX IF NOT EXISTS idx_books_rating ON books(rating DESC)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",

		// Order items: book_id is the lookup key for catalog removals,
		// which must not fall back to scanning whole orders.
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_book ON order_items(book_id)",

		// Order status history indexes
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at DESC)",

		// Review indexes
		"CREATE INDEX IF NOT EXISTS idx_reviews_book_approved ON reviews(book_id, is_approved)",
		"CREATE INDEX IF NOT EXISTS idx_reviews_user ON reviews(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_reviews_order ON reviews(order_id)",

		// Comment indexes
		"CREATE INDEX IF NOT EXISTS idx_comments_book_created ON comments(book_id, created_at DESC)",

		// Upload indexes
		"CREATE INDEX IF NOT EXISTS idx_uploaded_files_uploaded_by ON uploaded_files(uploaded_by)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := m.seedTestUser(); err != nil {
		return fmt.Errorf("failed to seed test user: %w", err)
	}

	if err := m.seedBooks(); err != nil {
		return fmt.Errorf("failed to seed books: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedAdminUser() error {
	log.Println("👤 Seeding admin user...")

	var existing user.User
	result := m.db.Where("email = ?", "admin@bookstore.local").First(&existing)
	if result.Error != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Admin2024!"), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		adminUser := user.User{
			Email:         "admin@bookstore.local",
			Password:      string(hashedPassword),
			FirstName:     "Store",
			LastName:      "Admin",
			IsActive:      true,
			IsAdmin:       true,
			EmailVerified: true,
		}

		if err := m.db.Create(&adminUser).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("✅ Created admin user: admin@bookstore.local")
	} else {
		log.Printf("⏭️ Admin user already exists with ID: %d", existing.ID)
	}

	return nil
}

func (m *Migration) seedTestUser() error {
	log.Println("👤 Seeding test user...")

	var existing user.User
	result := m.db.Where("email = ?", "reader@bookstore.local").First(&existing)
	if result.Error != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Reader2024!"), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		testUser := user.User{
			Email:         "reader@bookstore.local",
			Password:      string(hashedPassword),
			FirstName:     "Test",
			LastName:      "Reader",
			IsActive:      true,
			IsAdmin:       false,
			EmailVerified: true,
		}

		if err := m.db.Create(&testUser).Error; err != nil {
			return err
		}

		log.Println("✅ Created test user: reader@bookstore.local")
	} else {
		log.Println("⏭️ Test user already exists")
	}

	return nil
}

// seedBooks creates a starter catalog for development
func (m *Migration) seedBooks() error {
	log.Println("📚 Seeding books...")

	books := []book.Book{
		{
			Title:         "The Go Programming Language",
			Author:        "Alan A. A. Donovan",
			Description:   "The authoritative resource for any programmer who wants to learn Go.",
			Category:      "Programming",
			PriceCents:    3999,
			StockQuantity: 25,
			IsActive:      true,
		},
		{
			Title:         "Designing Data-Intensive Applications",
			Author:        "Martin Kleppmann",
			Description:   "The big ideas behind reliable, scalable, and maintainable systems.",
			Category:      "Programming",
			PriceCents:    4599,
			StockQuantity: 18,
			IsActive:      true,
		},
		{
			Title:         "The Pragmatic Programmer",
			Author:        "David Thomas",
			Description:   "Your journey to mastery, 20th anniversary edition.",
			Category:      "Programming",
			PriceCents:    3499,
			StockQuantity: 30,
			IsActive:      true,
		},
		{
			Title:         "Thinking, Fast and Slow",
			Author:        "Daniel Kahneman",
			Description:   "A tour of the mind explaining the two systems that drive the way we think.",
			Category:      "Psychology",
			PriceCents:    1899,
			StockQuantity: 40,
			IsActive:      true,
		},
	}

	for _, b := range books {
		var existing book.Book
		result := m.db.Where("title = ? AND author = ?", b.Title, b.Author).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&b).Error; err != nil {
				return err
			}
			log.Printf("✅ Created book: %s", b.Title)
		} else {
			log.Printf("⏭️ Book already exists: %s", b.Title)
		}
	}

	return nil
}
