package redis

import (
	"context"
	"errors"

	redisclient "github.com/redis/go-redis/v9"

	"github.com/mimoza-store/storefront-api/pkg/cart"
)

// BlobStore is the Redis-backed key-value store for the cart container's
// persisted blobs. Blobs have no TTL: they survive until overwritten.
type BlobStore struct{}

func NewBlobStore() *BlobStore {
	return &BlobStore{}
}

func (BlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	client := RedisClient()
	defer client.Close()

	raw, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redisclient.Nil) {
		return nil, cart.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (BlobStore) Save(ctx context.Context, key string, value []byte) error {
	client := RedisClient()
	defer client.Close()

	return client.Set(ctx, key, value, 0).Err()
}
