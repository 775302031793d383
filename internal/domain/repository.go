package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching serialized values
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// FoodCatalogSource supplies the food catalog. Implementations never fail:
// a missing or unreadable source yields an empty catalog.
type FoodCatalogSource interface {
	LoadFoods() []FoodRecord
}

// ProductSearcher defines the interface for querying a public food database
type ProductSearcher interface {
	SearchProducts(ctx context.Context, params OFFSearchParams) (*OFFSearchResponse, error)
}

// PlanWriter persists a computed plan and returns where it was written
type PlanWriter interface {
	Write(plan *DietPlan) (string, error)
}
