package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ecoRouteClient/models"
)

// WishlistRepository stores wishlist products as JSON documents in wishlist_items.
type WishlistRepository struct {
	db *sql.DB
}

func NewWishlistRepository(db *sql.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// LoadWishlist returns the saved wishlist of customerID in insertion order.
func (r *WishlistRepository) LoadWishlist(ctx context.Context, customerID string) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT product_json FROM wishlist_items WHERE customer_id = ? ORDER BY position ASC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Product{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var p models.Product
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode wishlist item: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SaveWishlist replaces the saved wishlist of customerID with products.
func (r *WishlistRepository) SaveWishlist(ctx context.Context, customerID string, products []models.Product) error {
	if customerID == "" {
		return errors.New("customer id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM wishlist_items WHERE customer_id = ?`, customerID); err != nil {
		_ = tx.Rollback()
		return err
	}
	for i, p := range products {
		raw, err := json.Marshal(p)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO wishlist_items (customer_id, product_id, position, product_json) VALUES (?,?,?,?)`,
			customerID, p.ID, i, string(raw)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("save wishlist item %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// SQLiteSessionRepository combines the sqlite cart and wishlist repositories.
type SQLiteSessionRepository struct {
	*CartRepository
	*WishlistRepository
}

// NewSQLiteSessionRepository returns a session repository backed by db.
func NewSQLiteSessionRepository(db *sql.DB) *SQLiteSessionRepository {
	return &SQLiteSessionRepository{
		CartRepository:     NewCartRepository(db),
		WishlistRepository: NewWishlistRepository(db),
	}
}
