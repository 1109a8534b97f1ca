package utils

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/maplemart/storefront/models"
)

// Carts live in Redis under an opaque token with a sliding TTL. The web layer
// loads and saves them explicitly; checkout only ever sees cart items passed in
// as request input.

// ErrCartNotFound is returned for unknown or expired cart tokens.
var ErrCartNotFound = errors.New("cart not found")

const cartKeyPrefix = "cart:"

// NewCartToken mints an opaque cart token.
func NewCartToken() string {
	return uuid.NewString()
}

// LoadCart fetches a cart by token.
func LoadCart(token string) (*models.Cart, error) {
	rc := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	b, err := rc.Get(ctx, cartKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal(b, &cart); err != nil {
		return nil, err
	}
	cart.Token = token
	return &cart, nil
}

// SaveCart persists a cart and refreshes its TTL.
func SaveCart(cart *models.Cart, ttl time.Duration) error {
	b, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	rc := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return rc.Set(ctx, cartKeyPrefix+cart.Token, b, ttl).Err()
}

// DeleteCart drops a cart, typically after a successful checkout.
func DeleteCart(token string) error {
	rc := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return rc.Del(ctx, cartKeyPrefix+token).Err()
}
