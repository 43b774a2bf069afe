package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkmatch/trust-core/internal/core/domain"
)

// counterTTL keeps a change record alive a little past the sliding window so
// a rolled-over record is still readable when the next change arrives.
const counterTTL = domain.EmailChangeWindow + time.Hour

// ChangeCounterStore persists email-change counters as Redis hashes.
// Key format: emailchg:<identity_id>  fields: count, last_change (unix).
type ChangeCounterStore struct {
	client *redis.Client
}

// NewChangeCounterStore creates a ChangeCounterStore wrapping the given client.
func NewChangeCounterStore(client *redis.Client) *ChangeCounterStore {
	return &ChangeCounterStore{client: client}
}

// Get returns the identity's change record, or (nil, nil) when none exists.
func (s *ChangeCounterStore) Get(ctx context.Context, identityID string) (*domain.EmailChangeRecord, error) {
	fields, err := s.client.HGetAll(ctx, s.key(identityID)).Result()
	if err != nil {
		return nil, fmt.Errorf("change counter get: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	count, err := strconv.Atoi(fields["count"])
	if err != nil {
		return nil, fmt.Errorf("change counter get: bad count %q", fields["count"])
	}
	lastUnix, err := strconv.ParseInt(fields["last_change"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("change counter get: bad last_change %q", fields["last_change"])
	}

	return &domain.EmailChangeRecord{
		IdentityID:  identityID,
		ChangeCount: count,
		LastChange:  time.Unix(lastUnix, 0).UTC(),
	}, nil
}

// Put overwrites the record and refreshes its TTL.
func (s *ChangeCounterStore) Put(ctx context.Context, record *domain.EmailChangeRecord) error {
	key := s.key(record.IdentityID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key,
		"count", record.ChangeCount,
		"last_change", record.LastChange.Unix(),
	)
	pipe.Expire(ctx, key, counterTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("change counter put: %w", err)
	}
	return nil
}

func (s *ChangeCounterStore) key(identityID string) string {
	return "emailchg:" + identityID
}
