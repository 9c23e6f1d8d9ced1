package db

import (
	"database/sql"
	"fmt"
	"time"
)

// ConversionRecord represents one converted marketplace order.
type ConversionRecord struct {
	ID          int64
	Source      string // 'regular' or 'shop'
	OrderID     string
	CompletedAt string
	Amount      int64
	OutputBase  string
	ConvertedAt time.Time
}

// History manages conversion-history operations.
type History struct {
	conn *Connection
}

// NewHistory creates a new History instance.
func NewHistory(conn *Connection) *History {
	return &History{conn: conn}
}

// RecordConversion records a converted order. If the record already exists
// (same source + order_id), it updates it.
func (h *History) RecordConversion(record ConversionRecord) error {
	query := `
		INSERT INTO conversion_history (source, order_id, completed_at, amount, output_base)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(source, order_id) DO UPDATE SET
			completed_at = excluded.completed_at,
			amount = excluded.amount,
			output_base = excluded.output_base,
			converted_at = CURRENT_TIMESTAMP
	`

	_, err := h.conn.Exec(query,
		record.Source,
		record.OrderID,
		record.CompletedAt,
		record.Amount,
		record.OutputBase,
	)

	if err != nil {
		return fmt.Errorf("failed to record conversion: %w", err)
	}

	return nil
}

// IsConverted checks if an order has already been converted.
func (h *History) IsConverted(source, orderID string) (bool, error) {
	query := `
		SELECT COUNT(*) FROM conversion_history
		WHERE source = ? AND order_id = ?
	`

	var count int
	err := h.conn.QueryRow(query, source, orderID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check if converted: %w", err)
	}

	return count > 0, nil
}

// GetConvertedIDs retrieves all converted order IDs for a source.
// Useful for bulk filtering before a conversion run.
func (h *History) GetConvertedIDs(source string) (map[string]bool, error) {
	query := `SELECT order_id FROM conversion_history WHERE source = ?`

	rows, err := h.conn.Query(query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to get converted IDs: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan order ID: %w", err)
		}
		ids[id] = true
	}

	return ids, rows.Err()
}

// GetRecordsBySource retrieves all conversion records for a source, most
// recent completion first.
func (h *History) GetRecordsBySource(source string) ([]ConversionRecord, error) {
	query := `
		SELECT id, source, order_id, completed_at, amount, output_base, converted_at
		FROM conversion_history
		WHERE source = ?
		ORDER BY completed_at DESC
	`

	rows, err := h.conn.Query(query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversion records: %w", err)
	}
	defer rows.Close()

	var records []ConversionRecord
	for rows.Next() {
		var record ConversionRecord
		if err := rows.Scan(
			&record.ID,
			&record.Source,
			&record.OrderID,
			&record.CompletedAt,
			&record.Amount,
			&record.OutputBase,
			&record.ConvertedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversion record: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// DeleteRecord deletes a conversion record.
// Use case: force re-conversion of a specific order.
func (h *History) DeleteRecord(source, orderID string) (bool, error) {
	query := `DELETE FROM conversion_history WHERE source = ? AND order_id = ?`

	result, err := h.conn.Exec(query, source, orderID)
	if err != nil {
		return false, fmt.Errorf("failed to delete conversion record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// Stats represents conversion statistics.
type Stats struct {
	TotalRegular   int
	TotalShop      int
	TotalAmount    int64
	LastConversion sql.NullString
}

// GetStats retrieves conversion statistics.
func (h *History) GetStats() (*Stats, error) {
	var stats Stats

	err := h.conn.QueryRow(`SELECT COUNT(*) FROM conversion_history WHERE source = 'regular'`).Scan(&stats.TotalRegular)
	if err != nil {
		return nil, fmt.Errorf("failed to get regular count: %w", err)
	}

	err = h.conn.QueryRow(`SELECT COUNT(*) FROM conversion_history WHERE source = 'shop'`).Scan(&stats.TotalShop)
	if err != nil {
		return nil, fmt.Errorf("failed to get shop count: %w", err)
	}

	err = h.conn.QueryRow(`SELECT COALESCE(SUM(amount), 0) FROM conversion_history`).Scan(&stats.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to get total amount: %w", err)
	}

	err = h.conn.QueryRow(`SELECT MAX(converted_at) FROM conversion_history`).Scan(&stats.LastConversion)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get last conversion time: %w", err)
	}

	return &stats, nil
}

// GetMetadata retrieves a metadata value.
func (h *History) GetMetadata(key string) (string, error) {
	query := `SELECT value FROM run_metadata WHERE key = ?`

	var value string
	err := h.conn.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata: %w", err)
	}

	return value, nil
}

// SetMetadata sets a metadata value.
func (h *History) SetMetadata(key, value string) error {
	query := `
		INSERT INTO run_metadata (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := h.conn.Exec(query, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}

	return nil
}
