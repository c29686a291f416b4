package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dlr1251/chimeneasluque/internal/models"
)

// ListReservations returns reservations in insertion order, optionally
// filtered to a single date (YYYY-MM-DD). An empty date returns everything.
func (db *DB) ListReservations(ctx context.Context, date string) ([]models.Reservation, error) {
	query := `SELECT id, date, time, contact_name, phone, email, address,
	                 product_type, notes, created_at
	          FROM reservations`
	args := []any{}
	if date != "" {
		query += ` WHERE date = ?`
		args = append(args, date)
	}
	query += ` ORDER BY rowid ASC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	reservations := []models.Reservation{}
	for rows.Next() {
		var r models.Reservation
		err := rows.Scan(
			&r.ID, &r.Date, &r.Time, &r.ContactName, &r.Phone,
			&r.Email, &r.Address, &r.ProductType, &r.Notes, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reservations: %w", err)
	}
	return reservations, nil
}

// HasReservation reports whether a reservation already occupies (date, time).
func (db *DB) HasReservation(ctx context.Context, date, slot string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM reservations WHERE date = ? AND time = ?`
	if err := db.QueryRowContext(ctx, query, date, slot).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return count > 0, nil
}

// CreateReservationTx persists a reservation after re-checking the slot
// inside a transaction. The UNIQUE(date, time) constraint backs the check,
// so concurrent creates for the same slot cannot both commit.
func (db *DB) CreateReservationTx(ctx context.Context, r *models.Reservation) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var count int
	queryCount := `SELECT COUNT(*) FROM reservations WHERE date = ? AND time = ?`
	if err := tx.QueryRowContext(ctx, queryCount, r.Date, r.Time).Scan(&count); err != nil {
		return fmt.Errorf("failed to check slot in tx: %w", err)
	}
	if count > 0 {
		return ErrSlotTaken
	}

	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	queryInsert := `INSERT INTO reservations (
				id, date, time, contact_name, phone, email, address,
				product_type, notes, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, queryInsert,
		r.ID,
		r.Date,
		r.Time,
		r.ContactName,
		r.Phone,
		r.Email,
		r.Address,
		r.ProductType,
		r.Notes,
		r.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to insert reservation in tx: %w", err)
	}

	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
