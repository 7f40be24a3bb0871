package flights

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"skybook/internal/models"

	"github.com/go-redis/redis/v8"
)

// SearchCache keeps recent search results in Redis keyed by the filter
// set. Entries are short-lived; bookings mutate seat counts underneath.
type SearchCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSearchCache(client *redis.Client, ttl time.Duration) *SearchCache {
	return &SearchCache{Client: client, TTL: ttl}
}

func searchKey(params models.FlightSearchParams) string {
	raw, _ := json.Marshal(params)
	sum := sha256.Sum256(raw)
	return "flights:search:" + hex.EncodeToString(sum[:16])
}

// Get returns cached results for the filter set, or nil on a miss.
func (c *SearchCache) Get(ctx context.Context, params models.FlightSearchParams) ([]models.Flight, error) {
	if c == nil || c.Client == nil {
		return nil, nil
	}

	raw, err := c.Client.Get(ctx, searchKey(params)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var flights []models.Flight
	if err := json.Unmarshal([]byte(raw), &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *SearchCache) Set(ctx context.Context, params models.FlightSearchParams, flights []models.Flight) error {
	if c == nil || c.Client == nil {
		return nil
	}

	raw, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, searchKey(params), raw, c.TTL).Err()
}
