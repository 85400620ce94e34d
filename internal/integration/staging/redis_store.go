// Package staging keeps staged import batches in Redis until they are confirmed.
package staging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

const keyPrefix = "ledger:import:"

// ttlKeyMissing is the TTL Redis reports for a key that does not exist.
const ttlKeyMissing = time.Duration(-2)

// rowState is the per-row value kept in the status hash.
type rowState struct {
	Status entity.StagedRowStatus `json:"status"`
	Error  string                 `json:"error,omitempty"`
}

// redisStore implements the adapter.ImportBatchStore interface.
type redisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a new Redis-backed import batch store.
func NewRedisStore(client redis.UniversalClient) adapter.ImportBatchStore {
	return &redisStore{
		client: client,
	}
}

func batchKey(id uuid.UUID) string { return keyPrefix + id.String() }
func rowsKey(id uuid.UUID) string  { return keyPrefix + id.String() + ":rows" }
func lockKey(id uuid.UUID) string  { return keyPrefix + id.String() + ":lock" }

// Save stores a staged batch that expires after ttl.
func (s *redisStore) Save(ctx context.Context, batch *entity.ImportBatch, ttl time.Duration) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to encode import batch: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, batchKey(batch.ID), payload, ttl)
		pipe.Del(ctx, rowsKey(batch.ID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save import batch: %w", err)
	}
	return nil
}

// Get returns the batch with per-row statuses applied.
func (s *redisStore) Get(ctx context.Context, batchID uuid.UUID) (*entity.ImportBatch, error) {
	payload, err := s.client.Get(ctx, batchKey(batchID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domainerror.ErrImportBatchNotFound
		}
		return nil, fmt.Errorf("failed to load import batch: %w", err)
	}

	var batch entity.ImportBatch
	if err := json.Unmarshal(payload, &batch); err != nil {
		return nil, fmt.Errorf("failed to decode import batch: %w", err)
	}

	states, err := s.client.HGetAll(ctx, rowsKey(batchID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load row statuses: %w", err)
	}
	for _, row := range batch.Rows {
		raw, ok := states[strconv.Itoa(row.RowNumber)]
		if !ok {
			continue
		}
		var state rowState
		if err := json.Unmarshal([]byte(raw), &state); err != nil {
			return nil, fmt.Errorf("failed to decode status of row %d: %w", row.RowNumber, err)
		}
		row.Status = state.Status
		row.Error = state.Error
	}

	return &batch, nil
}

// SetRowStatus records the confirmation status of one row.
// The status hash expires together with the batch.
func (s *redisStore) SetRowStatus(ctx context.Context, batchID uuid.UUID, rowNumber int, status entity.StagedRowStatus, message string) error {
	ttl, err := s.client.PTTL(ctx, batchKey(batchID)).Result()
	if err != nil {
		return fmt.Errorf("failed to read batch ttl: %w", err)
	}
	if ttl == ttlKeyMissing {
		return domainerror.ErrImportBatchNotFound
	}

	payload, err := json.Marshal(rowState{Status: status, Error: message})
	if err != nil {
		return fmt.Errorf("failed to encode row status: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, rowsKey(batchID), strconv.Itoa(rowNumber), payload)
		if ttl > 0 {
			pipe.PExpire(ctx, rowsKey(batchID), ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save row status: %w", err)
	}
	return nil
}

// MarkImported flags the batch as fully confirmed without touching its TTL.
func (s *redisStore) MarkImported(ctx context.Context, batchID uuid.UUID) error {
	batch, err := s.Get(ctx, batchID)
	if err != nil {
		return err
	}
	batch.IsImported = true

	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to encode import batch: %w", err)
	}

	err = s.client.SetArgs(ctx, batchKey(batchID), payload, redis.SetArgs{KeepTTL: true, Mode: "XX"}).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainerror.ErrImportBatchNotFound
		}
		return fmt.Errorf("failed to mark import batch: %w", err)
	}
	return nil
}

// Delete discards the batch and its row statuses.
func (s *redisStore) Delete(ctx context.Context, batchID uuid.UUID) error {
	if err := s.client.Del(ctx, batchKey(batchID), rowsKey(batchID)).Err(); err != nil {
		return fmt.Errorf("failed to delete import batch: %w", err)
	}
	return nil
}

// AcquireConfirmLock takes the per-batch confirmation lock.
func (s *redisStore) AcquireConfirmLock(ctx context.Context, batchID uuid.UUID, ttl time.Duration) (bool, error) {
	acquired, err := s.client.SetNX(ctx, lockKey(batchID), time.Now().UTC().Format(time.RFC3339Nano), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire confirm lock: %w", err)
	}
	return acquired, nil
}

// ReleaseConfirmLock releases the per-batch confirmation lock.
func (s *redisStore) ReleaseConfirmLock(ctx context.Context, batchID uuid.UUID) error {
	if err := s.client.Del(ctx, lockKey(batchID)).Err(); err != nil {
		return fmt.Errorf("failed to release confirm lock: %w", err)
	}
	return nil
}
