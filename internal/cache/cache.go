package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Cache stores catalog snapshots and simulation results
type Cache interface {
	// Get returns the value and whether the key was found
	Get(ctx context.Context, key string) (interface{}, bool)
	// Set stores a value. An expiration of 0 uses the cache default.
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)
	Delete(ctx context.Context, key string)
	// DeleteByPrefix drops every key of a family, e.g. all simulations after a catalog reload
	DeleteByPrefix(ctx context.Context, prefix string)
	Flush(ctx context.Context)
}

// Key families. The version segment is bumped when the cached type changes shape.
const (
	PrefixCatalog    = "catalog:v1:"
	PrefixSimulation = "simulation:v1:"
)

// GenerateKey appends colon separated params to a key family prefix
func GenerateKey(prefix string, params ...interface{}) string {
	parts := lo.Map(params, func(p interface{}, _ int) string {
		return fmt.Sprintf("%v", p)
	})
	return prefix + strings.Join(parts, ":")
}

// familyOf returns the family name of a key ("catalog", "simulation"), used to name spans
func familyOf(key string) string {
	family, _, found := strings.Cut(key, ":")
	if !found {
		return "other"
	}
	return family
}
