package database

import (
	"log"
	"time"

	"cement-works/internal/config"
	"cement-works/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	dsn := config.AppConfig.Database.DSN
	if dsn == "" {
		log.Fatal("Error: DB_DSN is not configured. Please set it in .env.")
	}

	var err error

	// Wait for the DB to be ready
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatal("Failed to connect to database after 5 attempts:", err)
	}

	log.Println("Successfully connected to MySQL")

	if err := Migrate(DB); err != nil {
		log.Fatal("Migration failed:", err)
	}
	log.Println("Database schema synced")
}

// Migrate runs AutoMigrate for every model. Kept separate so tests can
// run it against their own sqlite connection.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Stack{},
		&models.PricePoint{},
		&models.StackOrder{},
		&models.Payment{},
		&models.Delivery{},
		&models.Purchase{},
		&models.PurchaseOrder{},
		&models.PurchasePayment{},
		&models.PurchaseDelivery{},
		&models.UsageLog{},
		&models.Employee{},
		&models.Manager{},
		&models.Attendance{},
		&models.OfficialLeave{},
	)
}
