package database

import (
	"context"
	"database/sql"

	"golang.org/x/crypto/bcrypt"
)

// schema holds the DDL for all five entities.  Statements are
// idempotent so the server can run them on every start.  Both foreign
// keys on bookings use RESTRICT: deleting a table or customer that
// still has bookings is an error, never a cascade.  The composite
// index on (table_id, start_time) serves the conflict scans.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username      VARCHAR(50)     NOT NULL,
		password_hash VARCHAR(255)    NOT NULL,
		created_at    TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_admins_username (username)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS dining_tables (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		table_number INT             NOT NULL,
		capacity     INT             NOT NULL,
		created_at   TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_dining_tables_number (table_number)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS customers (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name         VARCHAR(100)    NOT NULL,
		phone_number VARCHAR(20)     NOT NULL,
		created_at   TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_customers_phone (phone_number)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		start_time       DATETIME        NOT NULL,
		number_of_guests INT             NOT NULL,
		table_id         BIGINT UNSIGNED NOT NULL,
		customer_id      BIGINT UNSIGNED NOT NULL,
		created_at       TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at       TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_bookings_table_start (table_id, start_time),
		CONSTRAINT fk_bookings_table FOREIGN KEY (table_id) REFERENCES dining_tables (id) ON DELETE RESTRICT,
		CONSTRAINT fk_bookings_customer FOREIGN KEY (customer_id) REFERENCES customers (id) ON DELETE RESTRICT
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS menu_items (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name        VARCHAR(255)    NOT NULL,
		price       DECIMAL(10,2)   NOT NULL,
		description TEXT            NOT NULL,
		is_popular  BOOLEAN         NOT NULL DEFAULT FALSE,
		image_url   VARCHAR(512)    NULL,
		created_at  TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_menu_items_name (name)
	) ENGINE=InnoDB`,
}

// EnsureSchema creates any missing tables.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Seed inserts the default admin account, the dining tables and the
// menu when the respective tables are empty.  Subsequent starts leave
// existing data alone.
func Seed(ctx context.Context, db *sql.DB, bcryptCost int) error {
	var admins int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&admins); err != nil {
		return err
	}
	if admins == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcryptCost)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO admins (username, password_hash) VALUES (?, ?)`, "admin", string(hash)); err != nil {
			return err
		}
	}

	var tables int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dining_tables`).Scan(&tables); err != nil {
		return err
	}
	if tables == 0 {
		seatings := []struct {
			number   int
			capacity int
		}{
			{1, 2}, {2, 4}, {3, 6}, {4, 4}, {5, 8}, {6, 2}, {7, 10}, {8, 12},
		}
		for _, s := range seatings {
			if _, err := db.ExecContext(ctx,
				`INSERT INTO dining_tables (table_number, capacity) VALUES (?, ?)`, s.number, s.capacity); err != nil {
				return err
			}
		}
	}

	var items int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&items); err != nil {
		return err
	}
	if items == 0 {
		menu := []struct {
			name    string
			price   float64
			desc    string
			popular bool
		}{
			{"Espresso", 30, "Strong and bold espresso shot", true},
			{"Cappuccino", 40, "Espresso with steamed milk and foam", true},
			{"Latte", 45, "Smooth espresso with lots of steamed milk", false},
			{"Mocha", 50, "Chocolate flavored coffee with whipped cream", true},
			{"Americano", 35, "Espresso diluted with hot water", false},
			{"Flat White", 42, "Espresso with velvety steamed milk", false},
			{"Iced Coffee", 38, "Cold brewed coffee over ice", true},
			{"Macchiato", 36, "Espresso with a small amount of foam", false},
			{"Chai Latte", 44, "Spiced tea with steamed milk", true},
			{"Hot Chocolate", 40, "Rich chocolate drink with whipped cream", true},
		}
		for _, m := range menu {
			if _, err := db.ExecContext(ctx,
				`INSERT INTO menu_items (name, price, description, is_popular) VALUES (?, ?, ?, ?)`,
				m.name, m.price, m.desc, m.popular); err != nil {
				return err
			}
		}
	}
	return nil
}
