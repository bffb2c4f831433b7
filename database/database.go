package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"visibility-scan-pipeline/config"
	"visibility-scan-pipeline/models"
)

// Database wraps the MySQL connection used to persist scan results.
type Database struct {
	db *sql.DB
}

// NewDatabase creates a new database connection
func NewDatabase(cfg *config.Config) (*Database, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{db: db}, nil
}

// NewWithDB wraps an existing connection. Used by tests.
func NewWithDB(db *sql.DB) *Database {
	return &Database{db: db}
}

// GetDB returns the underlying database connection
func (d *Database) GetDB() *sql.DB {
	return d.db
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// CreateScanResultsTable creates the scan_results table if it doesn't exist
func (d *Database) CreateScanResultsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS scan_results (
		scan_id VARCHAR(36) PRIMARY KEY,
		brand_name VARCHAR(255) NOT NULL,
		status VARCHAR(32) NOT NULL,
		overall_score INT NOT NULL,
		runs INT NOT NULL DEFAULT 1,
		result JSON NOT NULL,
		created_at TIMESTAMP NOT NULL,
		INDEX idx_brand_name (brand_name),
		INDEX idx_status (status),
		INDEX idx_created_at (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	if _, err := d.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create scan_results table: %w", err)
	}

	log.Println("scan_results table ready")
	return nil
}

// SaveScanResult persists a completed scan.
func (d *Database) SaveScanResult(ctx context.Context, result *models.ScanResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal scan result: %w", err)
	}

	query := `
	INSERT INTO scan_results (scan_id, brand_name, status, overall_score, runs, result, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		status = VALUES(status),
		overall_score = VALUES(overall_score),
		runs = VALUES(runs),
		result = VALUES(result)`

	_, err = d.db.ExecContext(ctx, query,
		result.ScanID,
		result.BrandName,
		string(result.Status),
		result.Score.Overall,
		result.Runs,
		payload,
		result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save scan result: %w", err)
	}
	return nil
}

// GetScanResult loads one scan by id. Returns sql.ErrNoRows when absent.
func (d *Database) GetScanResult(ctx context.Context, scanID string) (*models.ScanResult, error) {
	var payload []byte
	err := d.db.QueryRowContext(ctx,
		"SELECT result FROM scan_results WHERE scan_id = ?", scanID).Scan(&payload)
	if err != nil {
		return nil, err
	}

	var result models.ScanResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scan result: %w", err)
	}
	return &result, nil
}

// ScanStats summarizes the persisted scan history.
type ScanStats struct {
	TotalScans   int            `json:"total_scans"`
	AverageScore float64        `json:"average_score"`
	ByStatus     map[string]int `json:"by_status"`
}

// GetScanStats aggregates counts and the average score across all scans.
func (d *Database) GetScanStats(ctx context.Context) (*ScanStats, error) {
	stats := &ScanStats{ByStatus: make(map[string]int)}

	err := d.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(AVG(overall_score), 0) FROM scan_results").
		Scan(&stats.TotalScans, &stats.AverageScore)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan stats: %w", err)
	}

	rows, err := d.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM scan_results GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to query status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.ByStatus[status] = count
	}
	return stats, rows.Err()
}

// GetRecentScans returns the latest scans for a brand, newest first.
func (d *Database) GetRecentScans(ctx context.Context, brandName string, limit int) ([]*models.ScanResult, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := d.db.QueryContext(ctx,
		"SELECT result FROM scan_results WHERE brand_name = ? ORDER BY created_at DESC LIMIT ?",
		brandName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent scans: %w", err)
	}
	defer rows.Close()

	var out []*models.ScanResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		var result models.ScanResult
		if err := json.Unmarshal(payload, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scan result: %w", err)
		}
		out = append(out, &result)
	}
	return out, rows.Err()
}
