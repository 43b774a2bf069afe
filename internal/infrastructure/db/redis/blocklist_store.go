package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const disposableSetKey = "blocklist:disposable"

// BlocklistStore reads the dynamically maintained disposable-domain set from
// the configuration store. A separate out-of-process writer refreshes the
// set daily; this core only reads it.
type BlocklistStore struct {
	client *redis.Client
}

func NewBlocklistStore(client *redis.Client) *BlocklistStore {
	return &BlocklistStore{client: client}
}

// FetchDisposableDomains returns the current dynamic disposable-domain list.
func (s *BlocklistStore) FetchDisposableDomains(ctx context.Context) ([]string, error) {
	domains, err := s.client.SMembers(ctx, disposableSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("blocklist fetch: %w", err)
	}
	return domains, nil
}
