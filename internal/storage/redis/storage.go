package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveLog(ctx context.Context, doc *model.LogDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	// Document and index are written together
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, logKey(doc.Seed.ID), data, s.cfg.LogTTL)
	pipe.SAdd(ctx, logIndexKey(), doc.Seed.ID.String())
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetLog(ctx context.Context, id model.TournamentID) (*model.LogDocument, error) {
	data, err := s.client.Get(ctx, logKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrTournamentNotFound
		}
		return nil, err
	}

	var doc model.LogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode log %s: %w", id, err)
	}
	return &doc, nil
}

func (s *Storage) DeleteLog(ctx context.Context, id model.TournamentID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, logKey(id))
	pipe.SRem(ctx, logIndexKey(), id.String())
	_, err := pipe.Exec(ctx)
	return err
}

// ListLogs returns the indexed tournaments. Index entries whose document has
// expired are pruned.
func (s *Storage) ListLogs(ctx context.Context) ([]model.TournamentID, error) {
	members, err := s.client.SMembers(ctx, logIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]model.TournamentID, 0, len(members))
	var stale []any
	for _, member := range members {
		id, err := model.ParseTournamentID(member)
		if err != nil {
			stale = append(stale, member)
			continue
		}
		exists, err := s.client.Exists(ctx, logKey(id)).Result()
		if err != nil {
			return nil, err
		}
		if exists == 0 {
			stale = append(stale, member)
			continue
		}
		ids = append(ids, id)
	}

	if len(stale) > 0 {
		if err := s.client.SRem(ctx, logIndexKey(), stale...).Err(); err != nil {
			return nil, err
		}
	}
	return storage.SortIDs(ids), nil
}
