// Package rediscache decorates the product repo with a read-through
// cache. Products only change through the admin create endpoint, so a
// short TTL is enough to keep reads cheap during checkout bursts.
package rediscache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dwikikusuma/minikart/internal/catalog/app"
	"github.com/dwikikusuma/minikart/internal/catalog/domain"
	"github.com/redis/go-redis/v9"
)

const productTTL = 5 * time.Minute

type ProductCache struct {
	next app.ProductRepo
	rdb  *redis.Client
}

func NewProductCache(next app.ProductRepo, rdb *redis.Client) *ProductCache {
	return &ProductCache{next: next, rdb: rdb}
}

func (c *ProductCache) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	created, err := c.next.Create(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}
	c.store(ctx, created)
	return created, nil
}

func (c *ProductCache) Get(ctx context.Context, id string) (domain.Product, error) {
	raw, err := c.rdb.Get(ctx, key(id)).Bytes()
	if err == nil {
		var p domain.Product
		if err := json.Unmarshal(raw, &p); err == nil {
			return p, nil
		}
	} else if err != redis.Nil {
		slog.Warn("product cache read failed", "product_id", id, "err", err)
	}

	p, err := c.next.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	c.store(ctx, p)
	return p, nil
}

// List is not cached; it is a browse path, not a checkout path.
func (c *ProductCache) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	return c.next.List(ctx, query, limit, cursor)
}

func (c *ProductCache) store(ctx context.Context, p domain.Product) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key(p.ID), raw, productTTL).Err(); err != nil {
		slog.Warn("product cache write failed", "product_id", p.ID, "err", err)
	}
}

func key(id string) string { return "product:" + id }
