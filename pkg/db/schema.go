// Package db provides SQLite storage for conversion history and metadata.
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Conversion history table
-- Tracks which marketplace orders have been converted to Yayoi batches
CREATE TABLE IF NOT EXISTS conversion_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL,              -- 'regular' or 'shop'
    order_id TEXT NOT NULL,            -- product/order ID from the export
    completed_at TEXT NOT NULL,        -- completion timestamp as exported
    amount INTEGER NOT NULL,           -- product price in JPY (integer)
    output_base TEXT NOT NULL,         -- base name of the batch files written
    converted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(source, order_id)
);

CREATE INDEX IF NOT EXISTS idx_conversion_history_source_id
    ON conversion_history(source, order_id);

CREATE INDEX IF NOT EXISTS idx_conversion_history_date
    ON conversion_history(completed_at);

-- Run metadata table
-- Stores key-value metadata about conversion runs
CREATE TABLE IF NOT EXISTS run_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
