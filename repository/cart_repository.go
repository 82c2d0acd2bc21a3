package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ecoRouteClient/models"
)

// CartRepository stores cart lines in the cart_lines table, one row per product.
type CartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new CartRepository.
func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

// LoadCart returns the saved lines of customerID in insertion order. A customer without a
// saved cart gets an empty slice.
func (r *CartRepository) LoadCart(ctx context.Context, customerID string) ([]models.CartLine, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `
SELECT product_id, name, price, eco_price, category, eco_friendly, rating, description, image, quantity
FROM cart_lines
WHERE customer_id = ?
ORDER BY position ASC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []models.CartLine{}
	for rows.Next() {
		var ln models.CartLine
		var price, rating string
		if err := rows.Scan(&ln.Product.ID, &ln.Product.Name, &price, &ln.Product.EcoPrice, &ln.Product.Category,
			&ln.Product.EcoFriendly, &rating, &ln.Product.Description, &ln.Product.Image, &ln.Quantity); err != nil {
			return nil, err
		}
		if ln.Product.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("cart line %d: price: %w", ln.Product.ID, err)
		}
		if ln.Product.Rating, err = decimal.NewFromString(rating); err != nil {
			return nil, fmt.Errorf("cart line %d: rating: %w", ln.Product.ID, err)
		}
		lines = append(lines, ln)
	}
	return lines, rows.Err()
}

// SaveCart replaces the saved cart of customerID with lines.
func (r *CartRepository) SaveCart(ctx context.Context, customerID string, lines []models.CartLine) error {
	if customerID == "" {
		return errors.New("customer id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE customer_id = ?`, customerID); err != nil {
		_ = tx.Rollback()
		return err
	}
	for i, ln := range lines {
		p := ln.Product
		if _, err := tx.ExecContext(ctx, `
INSERT INTO cart_lines (customer_id, product_id, position, name, price, eco_price, category, eco_friendly, rating, description, image, quantity)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
			customerID, p.ID, i, p.Name, p.Price.String(), p.EcoPrice, p.Category, p.EcoFriendly, p.Rating.String(),
			p.Description, p.Image, ln.Quantity); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("save cart line %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}
