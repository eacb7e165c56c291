package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS shirts (
		  id INT UNSIGNED NOT NULL AUTO_INCREMENT,
		  name VARCHAR(255) NOT NULL,
		  description TEXT,
		  price DECIMAL(10,2) NOT NULL,
		  active TINYINT(1) NOT NULL DEFAULT 1,
		  images_json JSON,
		  sizes_json JSON,
		  created_at DATETIME(3),
		  updated_at DATETIME(3),
		  PRIMARY KEY (id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,

		`CREATE TABLE IF NOT EXISTS photo_packages (
		  id INT UNSIGNED NOT NULL AUTO_INCREMENT,
		  name VARCHAR(255) NOT NULL,
		  description TEXT,
		  price DECIMAL(10,2) NOT NULL,
		  active TINYINT(1) NOT NULL DEFAULT 1,
		  created_at DATETIME(3),
		  updated_at DATETIME(3),
		  PRIMARY KEY (id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,

		`CREATE TABLE IF NOT EXISTS orders (
		  id INT UNSIGNED NOT NULL AUTO_INCREMENT,
		  customer_email VARCHAR(255) NOT NULL,
		  customer_name VARCHAR(255) NOT NULL,
		  customer_phone VARCHAR(32),
		  order_type VARCHAR(16) NOT NULL,
		  product_id INT UNSIGNED NOT NULL,
		  shirt_id INT UNSIGNED,
		  size VARCHAR(8),
		  options_json JSON,
		  quantity INT NOT NULL,
		  total_amount DECIMAL(10,2) NOT NULL,
		  stripe_session_id VARCHAR(128) NOT NULL,
		  stripe_payment_intent_id VARCHAR(128),
		  is_test TINYINT(1) NOT NULL DEFAULT 0,
		  shipping_json JSON,
		  status VARCHAR(16) NOT NULL DEFAULT 'pending',
		  created_at DATETIME(3),
		  updated_at DATETIME(3),
		  PRIMARY KEY (id),
		  KEY ix_orders_email (customer_email),
		  KEY ix_orders_session (stripe_session_id),
		  KEY ix_orders_status (status)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,

		`CREATE TABLE IF NOT EXISTS provider_events (
		  id CHAR(36) NOT NULL,
		  provider VARCHAR(64) NOT NULL,
		  event_id VARCHAR(128) NOT NULL,
		  event_type VARCHAR(64) NOT NULL,
		  session_id VARCHAR(128),
		  payload_json JSON NOT NULL,
		  received_at DATETIME(3) NOT NULL,
		  processed_at DATETIME(3),
		  PRIMARY KEY (id),
		  UNIQUE KEY ux_provider_events_provider_event (provider, event_id),
		  KEY ix_provider_events_session (session_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,
	}

	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			log.Fatalf("Failed to execute statement: %v", err)
		}
	}

	log.Println("Tables created: shirts, photo_packages, orders, provider_events")
}
