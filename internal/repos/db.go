package repos

import (
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// TimeLayout is how timestamps are written to both databases.
const TimeLayout = "2006-01-02 15:04:05"

func now() string { return time.Now().UTC().Format(TimeLayout) }

// OpenDB opens a SQLite database, as used in development and tests.
func OpenDB(dsn string) (*sqlx.DB, error) {
	return Open("sqlite", dsn)
}

// Open connects with driver ("sqlite" or "mysql"), creates missing tables and
// seeds demo data into an empty catalog.
func Open(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// one connection keeps ":memory:" a single database and serializes writers
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(time.Hour)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db, driver); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	if err := seedCatalog(db); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	if err := seedUsers(db); err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB, driver string) error {
	stmts := sqliteSchema
	if driver == "mysql" {
		stmts = mysqlSchema
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

var sqliteSchema = []string{
	`PRAGMA foreign_keys = ON`,
	`CREATE TABLE IF NOT EXISTS categories(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  code TEXT NOT NULL DEFAULT '',
  parent_id INTEGER NULL REFERENCES categories(id) ON DELETE SET NULL,
  depth INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name ON categories(name)`,
	`CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  product_no TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price INTEGER NOT NULL CHECK (price >= 0),
  rating REAL NOT NULL DEFAULT 0,
  review_count INTEGER NOT NULL DEFAULT 0,
  image_url TEXT NOT NULL DEFAULT '',
  category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  brand TEXT NOT NULL DEFAULT '',
  tags_json TEXT NOT NULL DEFAULT '[]',
  active INTEGER NOT NULL DEFAULT 1,
  view_count INTEGER NOT NULL DEFAULT 0,
  sales_count INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand)`,
	`CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at)`,
	`CREATE TABLE IF NOT EXISTS members(
  member_id TEXT PRIMARY KEY,
  member_name TEXT NOT NULL,
  member_email TEXT NOT NULL DEFAULT ''
)`,
	`CREATE TABLE IF NOT EXISTS reviews(
  id TEXT PRIMARY KEY,
  product_no TEXT NOT NULL REFERENCES products(product_no) ON DELETE CASCADE,
  member_id TEXT NULL REFERENCES members(member_id) ON DELETE SET NULL,
  content TEXT NOT NULL,
  rating REAL NOT NULL CHECK (rating >= 1 AND rating <= 5),
  helpful_count INTEGER NOT NULL DEFAULT 0,
  sentiment_score REAL NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_no, created_at)`,
	`CREATE TABLE IF NOT EXISTS product_statistics(
  product_no TEXT PRIMARY KEY REFERENCES products(product_no) ON DELETE CASCADE,
  total_reviews INTEGER NOT NULL,
  average_rating REAL NOT NULL,
  rating_distribution TEXT NOT NULL,
  last_review_date TEXT NOT NULL DEFAULT '',
  review_velocity REAL NOT NULL DEFAULT 0,
  updated_at TEXT
)`,
	`CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  active INTEGER NOT NULL DEFAULT 1,
  last_login TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email))`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories(
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  name VARCHAR(100) NOT NULL UNIQUE,
  code VARCHAR(50) NOT NULL DEFAULT '',
  parent_id BIGINT NULL,
  depth INT NOT NULL DEFAULT 0,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NULL,
  FOREIGN KEY (parent_id) REFERENCES categories(id) ON DELETE SET NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS products(
  id VARCHAR(36) PRIMARY KEY,
  product_no VARCHAR(50) NOT NULL UNIQUE,
  name VARCHAR(255) NOT NULL,
  description TEXT,
  price BIGINT NOT NULL,
  rating DOUBLE NOT NULL DEFAULT 0,
  review_count INT NOT NULL DEFAULT 0,
  image_url VARCHAR(500) NOT NULL DEFAULT '',
  category_id BIGINT NOT NULL,
  brand VARCHAR(100) NOT NULL DEFAULT '',
  tags_json TEXT,
  active TINYINT(1) NOT NULL DEFAULT 1,
  view_count INT NOT NULL DEFAULT 0,
  sales_count INT NOT NULL DEFAULT 0,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NULL,
  INDEX idx_products_category (category_id),
  INDEX idx_products_brand (brand),
  INDEX idx_products_created_at (created_at),
  FOREIGN KEY (category_id) REFERENCES categories(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS members(
  member_id VARCHAR(50) PRIMARY KEY,
  member_name VARCHAR(100) NOT NULL,
  member_email VARCHAR(255) NOT NULL DEFAULT ''
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS reviews(
  id VARCHAR(36) PRIMARY KEY,
  product_no VARCHAR(50) NOT NULL,
  member_id VARCHAR(50) NULL,
  content TEXT NOT NULL,
  rating DOUBLE NOT NULL,
  helpful_count INT NOT NULL DEFAULT 0,
  sentiment_score DOUBLE NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NULL,
  INDEX idx_reviews_product (product_no, created_at),
  FOREIGN KEY (product_no) REFERENCES products(product_no) ON DELETE CASCADE,
  FOREIGN KEY (member_id) REFERENCES members(member_id) ON DELETE SET NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS product_statistics(
  product_no VARCHAR(50) PRIMARY KEY,
  total_reviews INT NOT NULL,
  average_rating DOUBLE NOT NULL,
  rating_distribution VARCHAR(255) NOT NULL,
  last_review_date VARCHAR(10) NOT NULL DEFAULT '',
  review_velocity DOUBLE NOT NULL DEFAULT 0,
  updated_at DATETIME NULL,
  FOREIGN KEY (product_no) REFERENCES products(product_no) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS users(
  id VARCHAR(36) PRIMARY KEY,
  email VARCHAR(255) NOT NULL UNIQUE,
  name VARCHAR(100) NOT NULL DEFAULT '',
  password_hash VARCHAR(255) NOT NULL,
  role VARCHAR(10) NOT NULL,
  active TINYINT(1) NOT NULL DEFAULT 1,
  last_login DATETIME NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// wrapErr adds the statement name to driver errors.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

func logSeed(what string, n int) {
	if n > 0 {
		log.Printf("[seed] inserted %d %s", n, what)
	}
}
