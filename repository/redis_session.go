package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ecoRouteClient/models"
)

// RedisSessionRepository keeps the cart and wishlist as JSON values under
// "<namespace>:<customer>:cart" and "<namespace>:<customer>:wishlist". Every save refreshes
// the TTL; an expired session reads back as empty.
type RedisSessionRepository struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewRedisSessionRepository creates a session repository. ttl <= 0 keeps keys forever.
func NewRedisSessionRepository(client *redis.Client, namespace string, ttl time.Duration) *RedisSessionRepository {
	if namespace == "" {
		namespace = "ecoroute:session"
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisSessionRepository{client: client, namespace: namespace, ttl: ttl}
}

func (r *RedisSessionRepository) key(customerID, kind string) string {
	return fmt.Sprintf("%s:%s:%s", r.namespace, customerID, kind)
}

// load decodes the value at key into out. A missing key leaves out untouched.
func (r *RedisSessionRepository) load(ctx context.Context, key string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (r *RedisSessionRepository) save(ctx context.Context, key string, v any, empty bool) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if empty {
		return r.client.Del(ctx, key).Err()
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, raw, r.ttl).Err()
}

// LoadCart returns the saved cart lines in insertion order.
func (r *RedisSessionRepository) LoadCart(ctx context.Context, customerID string) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	if err := r.load(ctx, r.key(customerID, "cart"), &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// SaveCart replaces the saved cart. An empty cart deletes the key.
func (r *RedisSessionRepository) SaveCart(ctx context.Context, customerID string, lines []models.CartLine) error {
	if customerID == "" {
		return errors.New("customer id is required")
	}
	return r.save(ctx, r.key(customerID, "cart"), lines, len(lines) == 0)
}

// LoadWishlist returns the saved wishlist in insertion order.
func (r *RedisSessionRepository) LoadWishlist(ctx context.Context, customerID string) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.load(ctx, r.key(customerID, "wishlist"), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SaveWishlist replaces the saved wishlist. An empty wishlist deletes the key.
func (r *RedisSessionRepository) SaveWishlist(ctx context.Context, customerID string, products []models.Product) error {
	if customerID == "" {
		return errors.New("customer id is required")
	}
	return r.save(ctx, r.key(customerID, "wishlist"), products, len(products) == 0)
}
