// internal/common/database/mysql.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"opera-backend/internal/common/config"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLClient wraps the SQL database connection
type MySQLClient struct {
	DB *sql.DB
}

// NewMySQL creates a new MySQL client
func NewMySQL(cfg config.MySQLConfig) (*MySQLClient, error) {
	dsn := cfg.GetDSN()

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &MySQLClient{DB: db}, nil
}

// Ping tests the database connection
func (c *MySQLClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *MySQLClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// GetDB returns the underlying *sql.DB
func (c *MySQLClient) GetDB() *sql.DB {
	return c.DB
}

// EnsureCakesTable creates the cakes table on first start; the rest of the
// schema is provisioned by the init scripts, but cakes was added later and
// older installs bootstrap it here.
func (c *MySQLClient) EnsureCakesTable(ctx context.Context) error {
	createSQL := `
		CREATE TABLE IF NOT EXISTS cakes (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			image_url VARCHAR(1024) NOT NULL,
			price DECIMAL(10,2) NOT NULL DEFAULT 0,
			is_active TINYINT(1) NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)
	`
	_, err := c.DB.ExecContext(ctx, createSQL)
	return err
}
