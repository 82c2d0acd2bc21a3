package repository

import (
	"context"

	"ecoRouteClient/models"
)

// CartRepositoryI persists a customer's cart lines in insertion order.
type CartRepositoryI interface {
	LoadCart(ctx context.Context, customerID string) ([]models.CartLine, error)
	SaveCart(ctx context.Context, customerID string, lines []models.CartLine) error
}

// WishlistRepositoryI persists a customer's wishlist in insertion order.
type WishlistRepositoryI interface {
	LoadWishlist(ctx context.Context, customerID string) ([]models.Product, error)
	SaveWishlist(ctx context.Context, customerID string, products []models.Product) error
}

// SessionRepositoryI is the storefront's view of session persistence.
type SessionRepositoryI interface {
	CartRepositoryI
	WishlistRepositoryI
}
